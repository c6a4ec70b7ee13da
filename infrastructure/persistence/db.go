// Package persistence provides MongoDB-backed stores for the course
// collections and the vector-searchable chunk index.
package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	subjectsCollection = "subjects"
	lecturesCollection = "lectures"
	chunksCollection   = "lecture_chunks"
)

// DB wraps a MongoDB connection with a per-operation timeout.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	timeout  time.Duration
}

// Connect establishes a connection to MongoDB and verifies it with a ping.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*DB, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &DB{
		client:   client,
		database: client.Database(database),
		timeout:  timeout,
	}, nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// opCtx derives a per-operation context with the configured timeout.
func (d *DB) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

// EnsureIndexes creates the collection indexes the application relies on:
// a unique index on subject titles and an index on lecture order. The Atlas
// vector index on lecture_chunks.embedding is managed in Atlas, not here.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	_, err := d.database.Collection(subjectsCollection).Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create subjects title index: %w", err)
	}

	_, err = d.database.Collection(lecturesCollection).Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "idx", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create lectures idx index: %w", err)
	}

	return nil
}
