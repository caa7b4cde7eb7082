// FILE: database/repository/event/indexes.go
package eventRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the overlap and range queries rely on.
func (r *mongoEventRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// overlap lookups filter on both bounds
		{
			Keys:    bson.D{{Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("start_end_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	return nil
}
