package worker

import (
	"errors"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
)

// permanent reports errors that redelivery cannot fix: rule violations and
// references to menus that do not exist.
func permanent(err error) bool {
	return domain.KindOf(err) != 0 || errors.Is(err, repo.ErrNotFound)
}
