package repomanager

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/weynak/weynak/internal/server/repositories/users"
)

// MongoRepositoryManager vends MongoDB-backed repositories.
type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoRepositoryManager connects to uri and waits for the primary.
func NewMongoRepositoryManager(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	if err := pingWithRetry(ctx, ping); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	return newMongoRepositoryManager(client, client.Database(database)), nil
}

func newMongoRepositoryManager(client *mongo.Client, db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: client, db: db}
}

func (m *MongoRepositoryManager) users() *users.MongoRepository {
	return users.NewMongoRepository(m.db.Collection(users.MongoCollection))
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users()
}

// RunMigrations creates the indexes the repositories rely on.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.users().EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
