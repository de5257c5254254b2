package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/publication"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// publicationDocument keeps the snapshot in its encoded form next to the
// fields it is looked up by, so reads return exactly what was published.
type publicationDocument struct {
	TenantID    string    `bson:"tenant_id"`
	MenuID      string    `bson:"menu_id"`
	Version     int       `bson:"version"`
	PublishedAt time.Time `bson:"published_at"`
	Snapshot    string    `bson:"snapshot"`
}

type PublicationStore struct {
	collection *mongo.Collection
}

func NewPublicationStore(db *mongo.Database) *PublicationStore {
	return &PublicationStore{
		collection: db.Collection(publicationsCollection),
	}
}

func (s *PublicationStore) Save(ctx context.Context, snapshot publication.PublishedMenu) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	data, err := publication.Marshal(snapshot)
	if err != nil {
		return err
	}

	doc := publicationDocument{
		TenantID:    snapshot.TenantID.String(),
		MenuID:      snapshot.MenuID.String(),
		Version:     snapshot.Version,
		PublishedAt: snapshot.PublishedAtUTC,
		Snapshot:    string(data),
	}
	filter := bson.M{
		"tenant_id": doc.TenantID,
		"menu_id":   doc.MenuID,
		"version":   doc.Version,
	}

	if _, err := s.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save published menu: %w", err)
	}

	return nil
}

func (s *PublicationStore) GetLatest(ctx context.Context, tenantID uuid.UUID, menuID *uuid.UUID) (*publication.PublishedMenu, error) {
	filter := bson.M{"tenant_id": tenantID.String()}
	if menuID != nil {
		filter["menu_id"] = menuID.String()
	}
	opts := options.FindOne().SetSort(bson.D{
		{Key: "published_at", Value: -1},
		{Key: "version", Value: -1},
	})

	return s.findOne(ctx, filter, opts)
}

func (s *PublicationStore) GetVersion(ctx context.Context, tenantID, menuID uuid.UUID, version int) (*publication.PublishedMenu, error) {
	filter := bson.M{
		"tenant_id": tenantID.String(),
		"menu_id":   menuID.String(),
		"version":   version,
	}

	return s.findOne(ctx, filter)
}

func (s *PublicationStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*publication.PublishedMenu, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc publicationDocument
	err := s.collection.FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get published menu: %w", err)
	}

	p, err := publication.Unmarshal([]byte(doc.Snapshot))
	if err != nil {
		return nil, err
	}
	return &p, nil
}
