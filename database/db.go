package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance. It stays nil when no
// database is configured.
var MongoClient *mongo.Client

// InitDB connects and pings MongoDB.
func InitDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	MongoClient = client
	return nil
}

// Ping reports whether the global client still answers.
func Ping(ctx context.Context) error {
	if MongoClient == nil {
		return fmt.Errorf("mongo not configured")
	}
	return MongoClient.Ping(ctx, nil)
}

// Close disconnects the global client, if any.
func Close(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
