// File: database/repository/ledger/ledger.go
package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jobbot/models"
)

// BookingLedger keeps one record per finalized booking.
type BookingLedger interface {
	Save(ctx context.Context, rec models.BookingRecord) error
	GetByID(ctx context.Context, bookingID string) (*models.BookingRecord, error)
}

type mongoLedger struct {
	coll *mongo.Collection
}

func NewMongoLedger(db *mongo.Database) BookingLedger {
	return &mongoLedger{coll: db.Collection("bookings")}
}

// Save upserts by booking id.
func (l *mongoLedger) Save(ctx context.Context, rec models.BookingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := l.coll.ReplaceOne(ctx, bson.M{"bookingId": rec.BookingID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save booking %s: %w", rec.BookingID, err)
	}
	return nil
}

func (l *mongoLedger) GetByID(ctx context.Context, bookingID string) (*models.BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.BookingRecord
	if err := l.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
