package ledgerRepo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"jobbot/models"
)

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	if _, err := l.GetByID(ctx, "BK-missing"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}

	rec := models.BookingRecord{
		BookingID: "BK-1234abcd",
		SessionID: "s1",
		Status:    models.StatusConfirmed,
		Booking:   models.BookingData{JobType: "Audio", Extra: map[string]string{"notes": "bring mics"}},
	}
	if err := l.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec.Booking.Extra["notes"] = "changed"

	got, err := l.GetByID(ctx, "BK-1234abcd")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionID != "s1" || got.Booking.JobType != "Audio" {
		t.Errorf("unexpected record %+v", got)
	}
	if got.Booking.Extra["notes"] != "bring mics" {
		t.Errorf("stored record shares state with caller: %q", got.Booking.Extra["notes"])
	}
}
