package repo

import (
	"context"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
)

type MenuEventRepository interface {
	Append(ctx context.Context, records []domain.MenuEventRecord) error
	GetByMenuID(ctx context.Context, tenantID, menuID string, limit int) ([]domain.MenuEventRecord, error)
}
