package repo

import "context"

// Transactor runs fn so that every repository write made with the context it
// receives commits together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
