// File: database/repository/event/interface.go
package eventRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"jobbot/models"
)

type EventRepository interface {
	Insert(ctx context.Context, rec models.EventRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.EventRecord, error)
	CountOverlapping(ctx context.Context, start, end time.Time) (int64, error)
	FindBetween(ctx context.Context, from, to time.Time, limit int64) ([]models.EventRecord, error)
	EnsureIndexes() error
}

type mongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo constructs the events collection repository.
func NewMongoEventRepo(db *mongo.Database) EventRepository {
	return &mongoEventRepo{
		coll: db.Collection("calendar_events"),
	}
}
