package connection

import (
	"context"
	"errors"
	"fmt"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoManager owns the MongoDB client. Reads and writes both go to the
// primary so a conditional update always sees the latest version of a document.
type MongoManager struct {
	client   *mongo.Client
	database string
}

// NewMongoManager connects and pings the primary.
func NewMongoManager(ctx context.Context, conf *config.MongoDB) (*MongoManager, error) {
	client, err := newMongoClient(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &MongoManager{client: client, database: conf.Database}, nil
}

// Client returns the underlying client.
func (m *MongoManager) Client() *mongo.Client {
	if m == nil {
		return nil
	}
	return m.client
}

// Database returns the configured database.
func (m *MongoManager) Database() *mongo.Database {
	return m.client.Database(m.database)
}

// Collection returns a collection of the configured database.
func (m *MongoManager) Collection(name string) *mongo.Collection {
	return m.Database().Collection(name)
}

// Health pings the primary.
func (m *MongoManager) Health(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoManager) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("error closing mongodb connection: %w", err)
	}
	return nil
}

func newMongoClient(ctx context.Context, conf *config.MongoDB) (*mongo.Client, error) {
	if conf == nil || conf.URI == "" {
		return nil, errors.New("mongodb configuration is nil or empty")
	}

	clientOptions := options.Client().
		ApplyURI(conf.URI).
		SetReadPreference(readpref.Primary())
	if conf.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(conf.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("MongoDB connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, conf.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB ping error: %w", err)
	}

	return client, nil
}
