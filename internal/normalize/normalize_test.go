package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"polyterminal/internal/gamma"
)

func decodeEvents(t *testing.T, payload string) []gamma.Event {
	t.Helper()
	var docs []gamma.Event
	if err := json.Unmarshal([]byte(payload), &docs); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	return docs
}

func decodeSeries(t *testing.T, payload string) []gamma.Series {
	t.Helper()
	var docs []gamma.Series
	if err := json.Unmarshal([]byte(payload), &docs); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	return docs
}

func TestMapEventsDedupsSharedTags(t *testing.T) {
	docs := decodeEvents(t, `[
		{"id":"e1","slug":"e1","title":"E1","tags":[{"id":"t1","label":"Politics","slug":"politics"},{"id":"t2","label":"US","slug":"us"}]},
		{"id":"e2","slug":"e2","title":"E2","tags":[{"id":"t1","label":"Politics","slug":"politics"}]}
	]`)
	batch := MapEvents(docs, time.Now().UTC())

	if len(batch.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(batch.Events))
	}
	if len(batch.Tags) != 2 {
		t.Fatalf("tags = %d, want 2 (t1 shared, stored once)", len(batch.Tags))
	}
	if len(batch.EventTags) != 3 {
		t.Fatalf("event_tags = %d, want 3", len(batch.EventTags))
	}
	if len(batch.EventIDs) != 2 {
		t.Fatalf("event ids = %v", batch.EventIDs)
	}
}

func TestMapEventsLiftsNestedMarkets(t *testing.T) {
	docs := decodeEvents(t, `[
		{"id":"e1","slug":"e1","title":"E1","markets":[
			{"id":"m1","question":"Q1","conditionId":"c1","tags":[{"id":"t1","label":"Politics","slug":"politics"}]},
			{"id":"m2","question":"Q2","conditionId":"c2","categories":[{"id":"cat1","label":"News","slug":"news"}]}
		]}
	]`)
	batch := MapEvents(docs, time.Now().UTC())

	if len(batch.Markets) != 2 {
		t.Fatalf("markets = %d, want 2", len(batch.Markets))
	}
	for _, m := range batch.Markets {
		if m.EventID != "e1" {
			t.Fatalf("market %s provenance = %q, want e1", m.ID, m.EventID)
		}
	}
	if len(batch.MarketTags) != 1 || batch.MarketTags[0].MarketID != "m1" {
		t.Fatalf("market_tags = %#v", batch.MarketTags)
	}
	if len(batch.MarketCategories) != 1 || batch.MarketCategories[0].CategoryID != "cat1" {
		t.Fatalf("market_categories = %#v", batch.MarketCategories)
	}
	if len(batch.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(batch.Categories))
	}
}

func TestMapEventsDuplicateDocKeepsFirst(t *testing.T) {
	docs := decodeEvents(t, `[
		{"id":"e1","slug":"e1","title":"first"},
		{"id":"e1","slug":"e1","title":"second"}
	]`)
	batch := MapEvents(docs, time.Now().UTC())
	if len(batch.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(batch.Events))
	}
	if batch.Events[0].Title != "first" {
		t.Fatalf("title = %q, want first occurrence kept", batch.Events[0].Title)
	}
}

func TestMapSeriesEmitsStubsAndEdges(t *testing.T) {
	docs := decodeSeries(t, `[
		{"id":"s1","slug":"s1","title":"S1",
		 "events":[{"id":"e1","slug":"e1","title":"E1"},{"id":"e2","slug":"e2","title":"E2"}],
		 "collections":[{"id":"col1","slug":"col1","title":"C"}],
		 "chats":[{"id":"ch1","channelId":"x","title":"Chat","chatType":"telegram"}],
		 "tags":[{"id":"t1","label":"Sports","slug":"sports"}]}
	]`)
	batch := MapSeries(docs, time.Now().UTC())

	if len(batch.Series) != 1 || len(batch.SeriesIDs) != 1 {
		t.Fatalf("series = %d", len(batch.Series))
	}
	if len(batch.EventStubs) != 2 {
		t.Fatalf("event stubs = %d, want 2", len(batch.EventStubs))
	}
	if len(batch.Events) != 0 {
		t.Fatalf("series pass must not emit full event rows, got %d", len(batch.Events))
	}
	if len(batch.SeriesEvents) != 2 || len(batch.SeriesCollections) != 1 ||
		len(batch.SeriesChats) != 1 || len(batch.SeriesTags) != 1 {
		t.Fatalf("edges: events=%d collections=%d chats=%d tags=%d",
			len(batch.SeriesEvents), len(batch.SeriesCollections),
			len(batch.SeriesChats), len(batch.SeriesTags))
	}
}

func TestMapRelatedTags(t *testing.T) {
	var edges []gamma.RelatedTag
	payload := `[
		{"relatedTagID":"9","rank":1},
		{"tagID":"7","relatedTagID":"9","rank":2},
		{"tagID":"7","relatedTagID":"7"},
		{"tagID":"7","relatedTagID":""}
	]`
	if err := json.Unmarshal([]byte(payload), &edges); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rows := MapRelatedTags("7", edges)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (dup pair, self loop and empty dst dropped)", len(rows))
	}
	row := rows[0]
	if row.TagID != "7" || row.RelatedTagID != "9" {
		t.Fatalf("row = %#v", row)
	}
	if row.Rank == nil || *row.Rank != 1 {
		t.Fatalf("rank = %#v, want first occurrence", row.Rank)
	}
}

func TestEventRowFields(t *testing.T) {
	docs := decodeEvents(t, `[
		{"id":"e1","slug":"slug-1","title":"Title","ticker":"TCK",
		 "volume":"150.5","active":true,"closed":"false","cyom":"1",
		 "endDate":"2025-06-01T00:00:00Z"}
	]`)
	now := time.Now().UTC()
	batch := MapEvents(docs, now)

	row := batch.Events[0]
	if row.Ticker == nil || *row.Ticker != "TCK" {
		t.Fatalf("ticker = %#v", row.Ticker)
	}
	if row.Volume == nil || !row.Volume.Equal(decimal.NewFromFloat(150.5)) {
		t.Fatalf("volume = %#v", row.Volume)
	}
	if !row.Active || row.Closed {
		t.Fatalf("flags: active=%v closed=%v", row.Active, row.Closed)
	}
	if row.Cyom == nil || !*row.Cyom {
		t.Fatalf("cyom = %#v", row.Cyom)
	}
	if row.EndDate == nil || row.EndDate.Year() != 2025 {
		t.Fatalf("endDate = %#v", row.EndDate)
	}
	if !row.FetchedAt.Equal(now) {
		t.Fatalf("fetchedAt = %v", row.FetchedAt)
	}
	if len(row.RawJSON) == 0 {
		t.Fatal("raw json must be preserved")
	}
}

func TestMapCommentsInheritsParent(t *testing.T) {
	var docs []gamma.Comment
	payload := `[
		{"id":"c1","body":"first","reactionCount":"3",
		 "profile":{"name":"alice","proxyWallet":"0xabc"}},
		{"id":"c2","body":"attributed","parentEntityType":"market","parentEntityID":"m9"},
		{"id":"c1","body":"dup"},
		{"body":"no id"}
	]`
	if err := json.Unmarshal([]byte(payload), &docs); err != nil {
		t.Fatalf("decode comments: %v", err)
	}
	now := time.Now().UTC()
	rows := MapComments("Event", "e1", docs, now)

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (dup and id-less dropped)", len(rows))
	}
	if rows[0].ParentEntityType != "Event" || rows[0].ParentEntityID != "e1" {
		t.Fatalf("c1 parent = %s/%s, want requested Event/e1", rows[0].ParentEntityType, rows[0].ParentEntityID)
	}
	if rows[0].ReactionCount == nil || *rows[0].ReactionCount != 3 {
		t.Fatalf("reaction count = %#v", rows[0].ReactionCount)
	}
	if rows[0].ProfileName == nil || *rows[0].ProfileName != "alice" {
		t.Fatalf("profile name = %#v", rows[0].ProfileName)
	}
	// The payload's own attribution wins when present.
	if rows[1].ParentEntityType != "market" || rows[1].ParentEntityID != "m9" {
		t.Fatalf("c2 parent = %s/%s", rows[1].ParentEntityType, rows[1].ParentEntityID)
	}
}
