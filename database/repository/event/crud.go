// File: database/repository/event/crud.go
package eventRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jobbot/models"
)

func (r *mongoEventRepo) Insert(ctx context.Context, rec models.EventRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Start = rec.Event.Start
	rec.End = rec.Event.End

	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (*models.EventRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.EventRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountOverlapping counts events with start < end and end > start.
func (r *mongoEventRepo) CountOverlapping(ctx context.Context, start, end time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"start": bson.M{"$lt": end},
		"end":   bson.M{"$gt": start},
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *mongoEventRepo) FindBetween(ctx context.Context, from, to time.Time, limit int64) ([]models.EventRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"start": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []models.EventRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
