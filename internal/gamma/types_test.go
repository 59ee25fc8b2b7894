package gamma

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTolerantEventDecoding(t *testing.T) {
	payload := `{
		"id": 12345,
		"slug": "test-event",
		"title": "Test Event",
		"volume": "1234.5",
		"liquidity": 42.25,
		"active": "true",
		"closed": false,
		"featured": "1",
		"commentCount": "17",
		"startDate": "2025-01-02T03:04:05Z",
		"createdAt": "2024-12-01 10:20:30.123456+00"
	}`
	var doc Event
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.ID.String() != "12345" {
		t.Fatalf("id = %q", doc.ID)
	}
	if doc.Volume == nil || doc.Volume.Float64() != 1234.5 {
		t.Fatalf("volume = %#v", doc.Volume)
	}
	if doc.Liquidity == nil || doc.Liquidity.Float64() != 42.25 {
		t.Fatalf("liquidity = %#v", doc.Liquidity)
	}
	if !doc.Active.Bool() || doc.Closed.Bool() {
		t.Fatalf("flags: active=%v closed=%v", doc.Active, doc.Closed)
	}
	if doc.Featured == nil || !doc.Featured.Bool() {
		t.Fatalf("featured = %#v", doc.Featured)
	}
	if doc.CommentCount == nil || doc.CommentCount.Float64() != 17 {
		t.Fatalf("commentCount = %#v", doc.CommentCount)
	}
	wantStart := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if doc.StartDate == nil || !doc.StartDate.Equal(wantStart) {
		t.Fatalf("startDate = %#v", doc.StartDate)
	}
	if doc.CreatedAt == nil || doc.CreatedAt.IsZero() {
		t.Fatalf("createdAt not parsed: %#v", doc.CreatedAt)
	}
}

func TestTimestampUnknownLayoutDropped(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err != nil {
		t.Fatalf("unknown layout should not error: %v", err)
	}
	if !ts.IsZero() {
		t.Fatalf("unknown layout should leave zero time, got %v", ts.Time)
	}
	if ts.TimePtr() != nil {
		t.Fatal("zero timestamp must yield nil pointer")
	}
}

func TestFlagVariants(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`"true"`, true},
		{`"1"`, true},
		{`false`, false},
		{`"false"`, false},
		{`"0"`, false},
	}
	for _, tt := range tests {
		var f Flag
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("decode %s: %v", tt.in, err)
		}
		if f.Bool() != tt.want {
			t.Fatalf("Flag(%s) = %v, want %v", tt.in, f.Bool(), tt.want)
		}
	}
}

func TestNumberEmptyString(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte(`""`), &n); err != nil {
		t.Fatalf("empty string should decode to zero: %v", err)
	}
	if n.Float64() != 0 {
		t.Fatalf("n = %v", n)
	}
}
