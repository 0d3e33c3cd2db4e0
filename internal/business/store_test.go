package business

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client)
}

func TestStoreGetReturnsDefaultWhenMissing(t *testing.T) {
	store := newTestStore(t)

	cal, err := store.Get(context.Background(), "biz_missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cal.BusinessID != "biz_missing" {
		t.Errorf("BusinessID = %q", cal.BusinessID)
	}
	if cal.Timezone == "" {
		t.Errorf("default calendar should carry a timezone")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cal := DefaultCalendar("biz_1")
	cal.Name = "Gloss Bros Mobile Detailing"
	cal.Timezone = "America/Chicago"
	cal.ExternalCalendarID = "shop@glossbros.com"
	cal.Hours.Sunday = &DayHours{Open: "11:00", Close: "15:00"}

	if err := store.Set(ctx, cal); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, "biz_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Gloss Bros Mobile Detailing" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Timezone != "America/Chicago" {
		t.Errorf("Timezone = %q", got.Timezone)
	}
	if got.ExternalCalendarID != "shop@glossbros.com" {
		t.Errorf("ExternalCalendarID = %q", got.ExternalCalendarID)
	}
	if got.Hours.Sunday == nil || got.Hours.Sunday.Open != "11:00" {
		t.Errorf("Sunday hours = %+v", got.Hours.Sunday)
	}
}

func TestStoreSetRequiresBusinessID(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(context.Background(), &Calendar{}); err == nil {
		t.Fatal("expected error for missing business id")
	}
}
