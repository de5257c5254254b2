package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const parsingTaskTimeout = 5 * time.Second

type ParsingTaskRepository struct {
	collection *mongo.Collection
}

func NewParsingTaskRepository(db *mongo.Database) *ParsingTaskRepository {
	return &ParsingTaskRepository{
		collection: db.Collection(parsingTasksCollection),
	}
}

func (r *ParsingTaskRepository) Create(ctx context.Context, task *domain.ParsingTask) error {
	ctx, cancel := context.WithTimeout(ctx, 2*parsingTaskTimeout)
	defer cancel()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create parsing task: %w", err)
	}
	return nil
}

func (r *ParsingTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ParsingTask, error) {
	ctx, cancel := context.WithTimeout(ctx, parsingTaskTimeout)
	defer cancel()

	var task domain.ParsingTask
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get parsing task: %w", err)
	}
	return &task, nil
}

func (r *ParsingTaskRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ParsingTaskStatus, errorMsg string) error {
	set := bson.M{"status": status}
	if errorMsg != "" {
		set["error_message"] = errorMsg
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *ParsingTaskRepository) UpdateWithMenuID(ctx context.Context, id primitive.ObjectID, menuID string, status domain.ParsingTaskStatus) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"menu_id": menuID, "status": status}})
}

func (r *ParsingTaskRepository) IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{"$inc": bson.M{"retry_count": 1}})
}

// update applies change and stamps updated_at. It runs in the caller's
// session, so import completion commits with the imported menu.
func (r *ParsingTaskRepository) update(ctx context.Context, id primitive.ObjectID, change bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, parsingTaskTimeout)
	defer cancel()

	set, _ := change["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		change["$set"] = set
	}
	set["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, change)
	if err != nil {
		return fmt.Errorf("failed to update parsing task %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
