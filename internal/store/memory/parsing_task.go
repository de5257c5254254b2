package memory

import (
	"context"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ParsingTaskRepository struct {
	db *DB
}

func (r *ParsingTaskRepository) Create(ctx context.Context, task *domain.ParsingTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id := task.ID
	r.db.tasks[id] = *task
	r.db.onRollback(ctx, func() { delete(r.db.tasks, id) })
	return nil
}

func (r *ParsingTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ParsingTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	task, ok := r.db.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &task, nil
}

func (r *ParsingTaskRepository) update(ctx context.Context, id primitive.ObjectID, fn func(*domain.ParsingTask)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	task, ok := r.db.tasks[id]
	if !ok {
		return repo.ErrNotFound
	}
	prev := task
	fn(&task)
	task.UpdatedAt = time.Now()
	r.db.tasks[id] = task
	r.db.onRollback(ctx, func() { r.db.tasks[id] = prev })
	return nil
}

func (r *ParsingTaskRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ParsingTaskStatus, errorMsg string) error {
	return r.update(ctx, id, func(t *domain.ParsingTask) {
		t.Status = status
		if errorMsg != "" {
			t.ErrorMessage = errorMsg
		}
	})
}

func (r *ParsingTaskRepository) UpdateWithMenuID(ctx context.Context, id primitive.ObjectID, menuID string, status domain.ParsingTaskStatus) error {
	return r.update(ctx, id, func(t *domain.ParsingTask) {
		t.MenuID = menuID
		t.Status = status
	})
}

func (r *ParsingTaskRepository) IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, func(t *domain.ParsingTask) {
		t.RetryCount++
	})
}
