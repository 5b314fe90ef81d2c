package ids

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewULID(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	id, err := NewULID(now)
	if err != nil {
		t.Fatalf("NewULID() unexpected error: %v", err)
	}
	if len(id) != 26 {
		t.Fatalf("NewULID() length = %d, want 26", len(id))
	}

	parsed, err := ulid.Parse(id)
	if err != nil {
		t.Fatalf("ulid.Parse(%q) error: %v", id, err)
	}
	if got := ulid.Time(parsed.Time()); !got.Equal(now) {
		t.Errorf("ULID time = %v, want %v", got, now)
	}
}

func TestNewULIDSortable(t *testing.T) {
	earlier, err := NewULID(time.Unix(1700000000, 0))
	if err != nil {
		t.Fatal(err)
	}
	later, err := NewULID(time.Unix(1700000001, 0))
	if err != nil {
		t.Fatal(err)
	}
	if earlier >= later {
		t.Errorf("ULIDs not sortable: %s >= %s", earlier, later)
	}
}

func TestNewULIDZeroTime(t *testing.T) {
	id, err := NewULID(time.Time{})
	if err != nil {
		t.Fatalf("NewULID() unexpected error: %v", err)
	}
	parsed := ulid.MustParse(id)
	if time.Since(ulid.Time(parsed.Time())) > time.Minute {
		t.Error("zero time should default to now")
	}
}
