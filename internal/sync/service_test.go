package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"polyterminal/internal/gamma"
	"polyterminal/internal/models"
)

// stubFetcher serves canned pages and detail documents and records the call
// sequence.
type stubFetcher struct {
	calls []string

	eventPages   [][]gamma.Event
	tagPages     [][]gamma.Tag
	seriesPages  [][]gamma.Series
	eventOffsets []int
	eventClosed  []*bool
	eventErr     error

	eventByID        map[string]*gamma.Event
	marketByID       map[string]*gamma.Market
	seriesByID       map[string]*gamma.Series
	relatedByTag     map[string][]gamma.RelatedTag
	relatedErr       map[string]error
	commentsByParent map[string][]gamma.Comment
	reactionsByID    map[string][]gamma.Reaction
}

func (f *stubFetcher) ListEvents(ctx context.Context, p gamma.ListEventsParams) ([]gamma.Event, error) {
	f.calls = append(f.calls, "ListEvents")
	f.eventOffsets = append(f.eventOffsets, p.Offset)
	f.eventClosed = append(f.eventClosed, p.Closed)
	if len(f.eventPages) == 0 {
		if f.eventErr != nil {
			return nil, f.eventErr
		}
		return nil, nil
	}
	page := f.eventPages[0]
	f.eventPages = f.eventPages[1:]
	return page, nil
}

func (f *stubFetcher) GetEvent(ctx context.Context, id string) (*gamma.Event, error) {
	f.calls = append(f.calls, "GetEvent:"+id)
	doc, ok := f.eventByID[id]
	if !ok {
		return nil, gamma.ErrNotFound
	}
	return doc, nil
}

func (f *stubFetcher) GetMarket(ctx context.Context, id string, includeTag bool) (*gamma.Market, error) {
	f.calls = append(f.calls, "GetMarket:"+id)
	doc, ok := f.marketByID[id]
	if !ok {
		return nil, gamma.ErrNotFound
	}
	return doc, nil
}

func (f *stubFetcher) ListTags(ctx context.Context, p gamma.Page) ([]gamma.Tag, error) {
	f.calls = append(f.calls, "ListTags")
	if len(f.tagPages) == 0 {
		return nil, nil
	}
	page := f.tagPages[0]
	f.tagPages = f.tagPages[1:]
	return page, nil
}

func (f *stubFetcher) GetTag(ctx context.Context, id string, includeTemplate bool) (*gamma.Tag, error) {
	f.calls = append(f.calls, "GetTag:"+id)
	return nil, gamma.ErrNotFound
}

func (f *stubFetcher) RelatedTags(ctx context.Context, id string) ([]gamma.RelatedTag, error) {
	f.calls = append(f.calls, "RelatedTags:"+id)
	if err, ok := f.relatedErr[id]; ok {
		return nil, err
	}
	return f.relatedByTag[id], nil
}

func (f *stubFetcher) ListSeries(ctx context.Context, p gamma.ListSeriesParams) ([]gamma.Series, error) {
	f.calls = append(f.calls, "ListSeries")
	if len(f.seriesPages) == 0 {
		return nil, nil
	}
	page := f.seriesPages[0]
	f.seriesPages = f.seriesPages[1:]
	return page, nil
}

func (f *stubFetcher) GetSeries(ctx context.Context, id string, includeChat bool) (*gamma.Series, error) {
	f.calls = append(f.calls, "GetSeries:"+id)
	doc, ok := f.seriesByID[id]
	if !ok {
		return nil, gamma.ErrNotFound
	}
	return doc, nil
}

func (f *stubFetcher) ListComments(ctx context.Context, p gamma.ListCommentsParams) ([]gamma.Comment, error) {
	f.calls = append(f.calls, "ListComments:"+p.ParentEntityType+":"+p.ParentEntityID)
	return f.commentsByParent[p.ParentEntityType+":"+p.ParentEntityID], nil
}

func (f *stubFetcher) CommentReactions(ctx context.Context, id string) ([]gamma.Reaction, error) {
	f.calls = append(f.calls, "CommentReactions:"+id)
	return f.reactionsByID[id], nil
}

func eventDoc(id string, tags ...string) gamma.Event {
	doc := gamma.Event{ID: gamma.ID(id), Slug: id, Title: "Event " + id}
	for _, tagID := range tags {
		doc.Tags = append(doc.Tags, gamma.Tag{ID: gamma.ID(tagID), Label: tagID, Slug: tagID})
	}
	return doc
}

func newService(store *stubStore, fetcher *stubFetcher) *Service {
	return &Service{Store: store, Gamma: fetcher}
}

func modelSyncState(scope string, cursor *string) models.SyncState {
	return models.SyncState{Scope: scope, Cursor: cursor}
}

func TestSyncEventsWalksPages(t *testing.T) {
	store := newStubStore()
	fetcher := &stubFetcher{
		eventPages: [][]gamma.Event{
			{eventDoc("e1"), eventDoc("e2")},
			{eventDoc("e3")},
		},
	}
	svc := newService(store, fetcher)

	res, err := svc.SyncEvents(context.Background(), Options{Limit: 2})
	if err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if res.Pages != 2 || !res.Done {
		t.Fatalf("pages=%d done=%v, want 2 pages and done", res.Pages, res.Done)
	}
	if res.NextOffset != 3 {
		t.Fatalf("next offset = %d, want 3", res.NextOffset)
	}
	if len(store.upsertedEvents) != 3 {
		t.Fatalf("upserted events = %d, want 3", len(store.upsertedEvents))
	}
	state := store.states["events"]
	if state.Cursor == nil || *state.Cursor != "3" {
		t.Fatalf("cursor = %#v, want 3", state.Cursor)
	}
	if state.LastSuccessAt == nil {
		t.Fatal("last_success_at not set")
	}
}

func TestSyncEventsResumesFromCursor(t *testing.T) {
	store := newStubStore()
	cursor := "40"
	store.states["events"] = modelSyncState("events", &cursor)
	fetcher := &stubFetcher{}
	svc := newService(store, fetcher)

	if _, err := svc.SyncEvents(context.Background(), Options{Limit: 20, Resume: true}); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if len(fetcher.eventOffsets) != 1 || fetcher.eventOffsets[0] != 40 {
		t.Fatalf("offsets = %v, want first request at 40", fetcher.eventOffsets)
	}
}

func TestSyncEventsReplacesTagEdges(t *testing.T) {
	store := newStubStore()
	fetcher := &stubFetcher{
		eventPages: [][]gamma.Event{{eventDoc("e1", "t1", "t2")}},
	}
	svc := newService(store, fetcher)

	if _, err := svc.SyncEvents(context.Background(), Options{Limit: 10}); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if len(store.eventTagParents) != 1 {
		t.Fatalf("replace calls = %d, want 1", len(store.eventTagParents))
	}
	if got := store.eventTagParents[0]; len(got) != 1 || got[0] != "e1" {
		t.Fatalf("replace parents = %v, want [e1]", got)
	}
	if len(store.eventTagRows[0]) != 2 {
		t.Fatalf("edge rows = %d, want 2", len(store.eventTagRows[0]))
	}
}

func TestSyncMarketsRequiresStoredEvents(t *testing.T) {
	store := newStubStore()
	svc := newService(store, &stubFetcher{})

	_, err := svc.SyncMarkets(context.Background(), Options{})
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("want ErrNoEvents, got %v", err)
	}
}

func TestSyncMarketsWalksStoredEvents(t *testing.T) {
	e1 := eventDoc("e1")
	e1.Markets = []gamma.Market{
		{ID: "m1", Question: "Q1"},
		{ID: "m2", Question: "Q2"},
	}
	store := newStubStore()
	store.eventIDs = []string{"e1", "e2"}
	fetcher := &stubFetcher{eventByID: map[string]*gamma.Event{"e1": &e1}}
	svc := newService(store, fetcher)

	res, err := svc.SyncMarkets(context.Background(), Options{})
	if err != nil {
		t.Fatalf("SyncMarkets: %v", err)
	}
	if res.Markets != 2 {
		t.Fatalf("markets = %d, want 2", res.Markets)
	}
	// e2 vanished remotely: skipped, not an error.
	if res.Errors != 0 {
		t.Fatalf("errors = %d, want 0", res.Errors)
	}
	for _, m := range store.upsertedMarkets {
		if m.EventID != "e1" {
			t.Fatalf("market %s provenance = %q", m.ID, m.EventID)
		}
	}
}

func TestSyncTagRelationships(t *testing.T) {
	store := newStubStore()
	store.tagIDs = []string{"t1", "t2"}
	fetcher := &stubFetcher{
		relatedByTag: map[string][]gamma.RelatedTag{
			"t1": {
				{TagID: "t1", RelatedTagID: "t2"},
				{TagID: "t1", RelatedTagID: "t9"},
			},
		},
		relatedErr: map[string]error{
			"t2": fmt.Errorf("boom"),
		},
	}
	svc := newService(store, fetcher)

	res, err := svc.SyncTagRelationships(context.Background(), Options{})
	if err != nil {
		t.Fatalf("SyncTagRelationships: %v", err)
	}
	if res.Relations != 1 {
		t.Fatalf("relations = %d, want 1 (edge to unknown t9 dropped)", res.Relations)
	}
	if res.Errors != 1 {
		t.Fatalf("errors = %d, want 1 (t2 fetch failed but pass continued)", res.Errors)
	}
	if len(store.tagRelParents) != 1 || store.tagRelParents[0][0] != "t1" {
		t.Fatalf("replace parents = %v", store.tagRelParents)
	}
}

func TestSyncSeriesEmitsStubsNotUpserts(t *testing.T) {
	store := newStubStore()
	fetcher := &stubFetcher{
		seriesPages: [][]gamma.Series{{
			{
				ID:    "s1",
				Title: "Series 1",
				Events: []gamma.Event{
					eventDoc("e1"),
					eventDoc("e2"),
				},
			},
		}},
	}
	svc := newService(store, fetcher)

	res, err := svc.SyncSeries(context.Background(), Options{Limit: 10})
	if err != nil {
		t.Fatalf("SyncSeries: %v", err)
	}
	if res.Series != 1 || res.EventStubs != 2 {
		t.Fatalf("series=%d stubs=%d", res.Series, res.EventStubs)
	}
	if len(store.upsertedEvents) != 0 {
		t.Fatalf("series pass must not full-upsert events, got %d", len(store.upsertedEvents))
	}
	if len(store.ignoredEvents) != 2 {
		t.Fatalf("insert-ignore stubs = %d, want 2", len(store.ignoredEvents))
	}
	if len(store.seriesEvtParents) != 1 || store.seriesEvtParents[0][0] != "s1" {
		t.Fatalf("series_events parents = %v", store.seriesEvtParents)
	}
}

func TestRunAllDependencyOrder(t *testing.T) {
	e1 := eventDoc("e1")
	store := newStubStore()
	fetcher := &stubFetcher{
		eventPages: [][]gamma.Event{{e1}},
		eventByID:  map[string]*gamma.Event{"e1": &e1},
	}
	svc := newService(store, fetcher)

	if _, err := svc.RunAll(context.Background(), Options{Limit: 10, Tags: true, Series: true}); err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	want := []string{"ListTags", "ListEvents", "GetEvent:e1", "ListSeries"}
	if len(fetcher.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fetcher.calls, want)
	}
	for i, call := range want {
		if fetcher.calls[i] != call {
			t.Fatalf("call %d = %q, want %q (full sequence %v)", i, fetcher.calls[i], call, fetcher.calls)
		}
	}
}

func TestRunAllEmptyCatalogSkipsMarkets(t *testing.T) {
	store := newStubStore()
	svc := newService(store, &stubFetcher{})

	if _, err := svc.RunAll(context.Background(), Options{Limit: 10}); err != nil {
		t.Fatalf("RunAll on empty catalog must not fail: %v", err)
	}
}

func TestDailyScanForcesOpenFilter(t *testing.T) {
	store := newStubStore()
	fetcher := &stubFetcher{}
	svc := newService(store, fetcher)

	if _, err := svc.DailyScan(context.Background(), Options{Limit: 10, Tags: true, Series: true}); err != nil {
		t.Fatalf("DailyScan: %v", err)
	}
	if len(fetcher.eventClosed) != 1 || fetcher.eventClosed[0] == nil || *fetcher.eventClosed[0] {
		t.Fatalf("daily scan must request closed=false, got %v", fetcher.eventClosed)
	}
}

func TestRunAllHonorsPassToggles(t *testing.T) {
	store := newStubStore()
	fetcher := &stubFetcher{}
	svc := newService(store, fetcher)

	if _, err := svc.RunAll(context.Background(), Options{Limit: 10}); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	for _, call := range fetcher.calls {
		if call == "ListTags" || call == "ListSeries" {
			t.Fatalf("disabled pass ran: %v", fetcher.calls)
		}
	}
}

func TestSyncErrorPreservesCursor(t *testing.T) {
	store := newStubStore()
	fetcher := &stubFetcher{
		eventPages: [][]gamma.Event{{eventDoc("e1"), eventDoc("e2")}},
		eventErr:   fmt.Errorf("upstream down"),
	}
	svc := newService(store, fetcher)

	_, err := svc.SyncEvents(context.Background(), Options{Limit: 2})
	if err == nil {
		t.Fatal("want the page-2 failure surfaced")
	}
	state := store.states["events"]
	if state.Cursor == nil || *state.Cursor != "2" {
		t.Fatalf("cursor = %#v, want the committed page-1 cursor 2", state.Cursor)
	}
	if state.LastSuccessAt == nil {
		t.Fatal("last_success_at of the committed page must survive the failure")
	}
	if state.LastError == nil {
		t.Fatal("last_error not recorded")
	}
}

func TestSyncEventDetailMissingRemote(t *testing.T) {
	store := newStubStore()
	svc := newService(store, &stubFetcher{})

	row, err := svc.SyncEventDetail(context.Background(), "gone")
	if err != nil {
		t.Fatalf("SyncEventDetail: %v", err)
	}
	if row != nil {
		t.Fatalf("row = %+v, want nil for an id unknown upstream", row)
	}
	if len(store.upsertedEvents) != 0 {
		t.Fatalf("nothing should be written, got %d events", len(store.upsertedEvents))
	}
}

func TestSyncSeriesDetailReplacesEdges(t *testing.T) {
	store := newStubStore()
	fetcher := &stubFetcher{
		seriesByID: map[string]*gamma.Series{
			"s1": {
				ID:     "s1",
				Title:  "Series 1",
				Events: []gamma.Event{eventDoc("e1")},
			},
		},
	}
	svc := newService(store, fetcher)

	row, err := svc.SyncSeriesDetail(context.Background(), "s1", false)
	if err != nil {
		t.Fatalf("SyncSeriesDetail: %v", err)
	}
	if row == nil || row.ID != "s1" {
		t.Fatalf("row = %+v, want the stored series", row)
	}
	if len(store.seriesEvtParents) != 1 || store.seriesEvtParents[0][0] != "s1" {
		t.Fatalf("series_events parents = %v", store.seriesEvtParents)
	}
	if len(store.ignoredEvents) != 1 {
		t.Fatalf("insert-ignore stubs = %d, want 1", len(store.ignoredEvents))
	}
}

func TestSyncCommentsWalksParents(t *testing.T) {
	store := newStubStore()
	store.eventIDs = []string{"e1"}
	store.marketIDs = []string{"m1"}
	two := gamma.Number(2)
	fetcher := &stubFetcher{
		commentsByParent: map[string][]gamma.Comment{
			"Event:e1": {
				{ID: "c1", Body: "hot take", ReactionCount: &two},
				{ID: "c2", Body: "reply"},
			},
			"market:m1": {
				{ID: "c3", Body: "question"},
			},
		},
		reactionsByID: map[string][]gamma.Reaction{
			"c1": {
				{ID: "r1", ReactionType: "LIKE"},
				{ID: "r2", ReactionType: "LIKE"},
			},
		},
	}
	svc := newService(store, fetcher)

	res, err := svc.SyncComments(context.Background(), Options{})
	if err != nil {
		t.Fatalf("SyncComments: %v", err)
	}
	if res.Comments != 3 {
		t.Fatalf("comments = %d, want 3", res.Comments)
	}
	if res.Reactions != 2 {
		t.Fatalf("reactions = %d, want 2 (only c1 has any)", res.Reactions)
	}
	if len(store.reactionParents) != 1 || store.reactionParents[0][0] != "c1" {
		t.Fatalf("reaction replace parents = %v", store.reactionParents)
	}
	for _, row := range store.upsertedComments {
		if row.ParentEntityID == "" || row.ParentEntityType == "" {
			t.Fatalf("comment %s lost its parent reference", row.ID)
		}
	}
	state := store.states["comments"]
	if state.LastSuccessAt == nil {
		t.Fatal("comments sync state not saved")
	}
}
