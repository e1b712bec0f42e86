package shared

import (
	"testing"
	"time"
)

func TestParseDateBareDate(t *testing.T) {
	got, err := ParseDate("2023-11-20")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDateDiscardsTimeOfDay(t *testing.T) {
	got, err := ParseDate("2023-11-20T18:45:00Z")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("timestamp must reduce to its calendar date, got %v", got)
	}
}

func TestParseDateEmptyIsZero(t *testing.T) {
	got, err := ParseDate("")
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("empty input must yield the zero time, got %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, err := ParseDate("20th Nov 2023"); err == nil {
		t.Fatalf("unparseable date must error")
	}
}
