package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"jobbot/models"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
	}

	sess, created, err := store.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created || sess.State != models.StateGreeting || sess.ID != "s1" {
		t.Fatalf("unexpected fresh session %+v (created=%v)", sess, created)
	}

	sess.State = models.StateCollectingJobType
	sess.Booking.ContactName = "Ada"
	sess.Append(models.RoleUser, "Ada", time.Now())

	// unsaved changes stay private to the caller
	again, created, err := store.GetOrCreate(ctx, "s1")
	if err != nil || created {
		t.Fatalf("second GetOrCreate: created=%v err=%v", created, err)
	}
	if again.State != models.StateGreeting || again.Booking.ContactName != "" {
		t.Fatalf("store leaked unsaved changes: %+v", again)
	}

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != models.StateCollectingJobType || got.Booking.ContactName != "Ada" || len(got.History) != 1 {
		t.Fatalf("Get after Save = %+v", got)
	}

	existed, err := store.Reset(ctx, "s1")
	if err != nil || !existed {
		t.Fatalf("Reset: existed=%v err=%v", existed, err)
	}
	existed, err = store.Reset(ctx, "s1")
	if err != nil || existed {
		t.Fatalf("second Reset: existed=%v err=%v", existed, err)
	}

	fresh, created, err := store.GetOrCreate(ctx, "s1")
	if err != nil || !created || fresh.State != models.StateGreeting || len(fresh.History) != 0 {
		t.Fatalf("GetOrCreate after reset = %+v created=%v err=%v", fresh, created, err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	exerciseStore(t, store)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	if _, _, err := store.GetOrCreate(ctx, "s2"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "s2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after expiry", err)
	}
}

func TestRedisStoreNoExpiryByDefault(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	if _, _, err := store.GetOrCreate(context.Background(), "s3"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if ttl := mr.TTL(sessionPrefix + "s3"); ttl != 0 {
		t.Fatalf("ttl = %v, want none", ttl)
	}
}

func TestRedisStoreCorruptDocument(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	if err := mr.Set(sessionPrefix+"bad", "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(context.Background(), "bad"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want decode error", err)
	}
}

func TestMemoryStoreIsolatesSlices(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, _, _ := store.GetOrCreate(ctx, "s")
	sess.AvailableSlots = []models.TimeSlot{{Display: "09:00 AM - 11:00 AM"}}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatal(err)
	}
	sess.AvailableSlots[0].Display = "changed"

	got, _ := store.Get(ctx, "s")
	if got.AvailableSlots[0].Display != "09:00 AM - 11:00 AM" {
		t.Fatalf("saved session aliased caller slice: %q", got.AvailableSlots[0].Display)
	}
}
