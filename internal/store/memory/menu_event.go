package memory

import (
	"context"
	"sort"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuEventRepository struct {
	db *DB
}

func (r *MenuEventRepository) Append(ctx context.Context, records []domain.MenuEventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	appended := make(map[primitive.ObjectID]struct{}, len(records))
	for _, rec := range records {
		if rec.ID.IsZero() {
			rec.ID = primitive.NewObjectID()
		}
		r.db.events = append(r.db.events, rec)
		appended[rec.ID] = struct{}{}
	}
	r.db.onRollback(ctx, func() {
		kept := r.db.events[:0]
		for _, rec := range r.db.events {
			if _, ok := appended[rec.ID]; !ok {
				kept = append(kept, rec)
			}
		}
		r.db.events = kept
	})
	return nil
}

// GetByMenuID returns the newest records first.
func (r *MenuEventRepository) GetByMenuID(ctx context.Context, tenantID, menuID string, limit int) ([]domain.MenuEventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	var out []domain.MenuEventRecord
	for i := len(r.db.events) - 1; i >= 0; i-- {
		rec := r.db.events[i]
		if rec.TenantID == tenantID && rec.MenuID == menuID {
			out = append(out, rec)
		}
	}
	r.db.mu.RUnlock()

	// later appends win timestamp ties
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
