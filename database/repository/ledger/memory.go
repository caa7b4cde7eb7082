package ledgerRepo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"jobbot/models"
)

// MemoryLedger is used when MongoDB is not configured. Lookups miss with
// mongo.ErrNoDocuments so callers handle both ledgers alike.
type MemoryLedger struct {
	mu      sync.RWMutex
	records map[string]models.BookingRecord
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[string]models.BookingRecord)}
}

func (m *MemoryLedger) Save(_ context.Context, rec models.BookingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Booking = rec.Booking.Clone()
	m.records[rec.BookingID] = rec
	return nil
}

func (m *MemoryLedger) GetByID(_ context.Context, bookingID string) (*models.BookingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[bookingID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	rec.Booking = rec.Booking.Clone()
	return &rec, nil
}
