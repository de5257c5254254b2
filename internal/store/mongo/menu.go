package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MenuRepository struct {
	collection *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{
		collection: db.Collection(menusCollection),
	}
}

func (r *MenuRepository) GetByID(ctx context.Context, tenantID, menuID uuid.UUID) (*domain.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc menuDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": menuID.String(), "tenant_id": tenantID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	return doc.toDomain()
}

func (r *MenuRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tenant_id": tenantID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []menuDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode menus: %w", err)
	}

	menus := make([]*domain.Menu, 0, len(docs))
	for _, doc := range docs {
		m, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, nil
}

func (r *MenuRepository) Add(ctx context.Context, menu *domain.Menu) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc, err := newMenuDocument(menu.State())
	if err != nil {
		return err
	}
	doc.Revision = 1

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}

	menu.SetRevision(doc.Revision)
	return nil
}

// Update replaces the document only if it is still at the revision the menu
// was loaded at.
func (r *MenuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc, err := newMenuDocument(menu.State())
	if err != nil {
		return err
	}
	doc.Revision = menu.Revision() + 1

	filter := bson.M{
		"_id":       doc.ID,
		"tenant_id": doc.TenantID,
		"revision":  menu.Revision(),
	}

	result, err := r.collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
	}

	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": doc.ID, "tenant_id": doc.TenantID})
		if err != nil {
			return fmt.Errorf("failed to check menu: %w", err)
		}
		if count == 0 {
			return repo.ErrNotFound
		}
		return repo.ErrConcurrentUpdate
	}

	menu.SetRevision(doc.Revision)
	return nil
}
