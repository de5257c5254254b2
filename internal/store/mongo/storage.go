package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	menusCollection        = "menus"
	publicationsCollection = "published_menus"
	parsingTasksCollection = "parsing_tasks"
	menuEventsCollection   = "menu_events"
)

type Storage struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func New(cfg Config) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := client.Database(cfg.Database)

	return &Storage{
		client:   client,
		database: database,
		config:   cfg,
	}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Database() *mongo.Database {
	return s.database
}

// WithinTransaction runs fn in a multi-document transaction. Repositories
// pick the session up from the context they are handed.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Storage) CreateIndexes(ctx context.Context) error {
	// menus: one document per aggregate, addressed by tenant
	menusIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "is_default", Value: 1}},
		},
	}
	if _, err := s.database.Collection(menusCollection).Indexes().CreateMany(ctx, menusIndexes); err != nil {
		return fmt.Errorf("failed to create menus indexes: %w", err)
	}

	publicationsIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "menu_id", Value: 1}, {Key: "version", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "published_at", Value: -1}, {Key: "version", Value: -1}},
		},
	}
	if _, err := s.database.Collection(publicationsCollection).Indexes().CreateMany(ctx, publicationsIndexes); err != nil {
		return fmt.Errorf("failed to create published_menus indexes: %w", err)
	}

	tasksIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
		},
	}
	if _, err := s.database.Collection(parsingTasksCollection).Indexes().CreateMany(ctx, tasksIndexes); err != nil {
		return fmt.Errorf("failed to create parsing_tasks indexes: %w", err)
	}

	eventsIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "menu_id", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	}
	if _, err := s.database.Collection(menuEventsCollection).Indexes().CreateMany(ctx, eventsIndexes); err != nil {
		return fmt.Errorf("failed to create menu_events indexes: %w", err)
	}

	return nil
}
