package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MenuEventRepository struct {
	collection *mongo.Collection
}

func NewMenuEventRepository(db *mongo.Database) *MenuEventRepository {
	return &MenuEventRepository{
		collection: db.Collection(menuEventsCollection),
	}
}

func (r *MenuEventRepository) Append(ctx context.Context, records []domain.MenuEventRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		if rec.ID.IsZero() {
			rec.ID = primitive.NewObjectID()
		}
		if rec.Timestamp.IsZero() {
			rec.Timestamp = time.Now()
		}
		docs = append(docs, rec)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to append menu events: %w", err)
	}

	return nil
}

func (r *MenuEventRepository) GetByMenuID(ctx context.Context, tenantID, menuID string, limit int) ([]domain.MenuEventRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID, "menu_id": menuID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu events: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.MenuEventRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode menu events: %w", err)
	}

	return records, nil
}
