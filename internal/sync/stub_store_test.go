package sync

import (
	"context"

	"gorm.io/gorm"

	"polyterminal/internal/models"
	"polyterminal/internal/repository"
)

// stubStore is a test-only in-memory implementation of
// repository.CatalogRepository. It records what the managers write; reads
// beyond id listings and sync state return zero values.
type stubStore struct {
	eventIDs  []string
	marketIDs []string
	tagIDs    []string
	seriesIDs []string

	states map[string]models.SyncState

	upsertedTags    []models.Tag
	upsertedEvents  []models.Event
	ignoredEvents   []models.Event
	upsertedMarkets []models.Market
	upsertedSeries  []models.Series

	upsertedComments []models.Comment
	reactionParents  [][]string
	reactionRows     [][]models.CommentReaction

	eventTagParents  [][]string
	eventTagRows     [][]models.EventTag
	marketTagParents [][]string
	marketTagRows    [][]models.MarketTag
	tagRelParents    [][]string
	tagRelRows       [][]models.TagRelationship
	seriesEvtParents [][]string
	seriesEvtRows    [][]models.SeriesEvent
}

func newStubStore() *stubStore {
	return &stubStore{states: map[string]models.SyncState{}}
}

func (s *stubStore) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubStore) UpsertTagsTx(ctx context.Context, tx *gorm.DB, items []models.Tag) error {
	s.upsertedTags = append(s.upsertedTags, items...)
	return nil
}

func (s *stubStore) UpsertEventsTx(ctx context.Context, tx *gorm.DB, items []models.Event) error {
	s.upsertedEvents = append(s.upsertedEvents, items...)
	return nil
}

func (s *stubStore) UpsertMarketsTx(ctx context.Context, tx *gorm.DB, items []models.Market) error {
	s.upsertedMarkets = append(s.upsertedMarkets, items...)
	return nil
}

func (s *stubStore) UpsertSeriesTx(ctx context.Context, tx *gorm.DB, items []models.Series) error {
	s.upsertedSeries = append(s.upsertedSeries, items...)
	return nil
}

func (s *stubStore) UpsertCollectionsTx(ctx context.Context, tx *gorm.DB, items []models.Collection) error {
	return nil
}

func (s *stubStore) UpsertCategoriesTx(ctx context.Context, tx *gorm.DB, items []models.Category) error {
	return nil
}

func (s *stubStore) UpsertChatsTx(ctx context.Context, tx *gorm.DB, items []models.Chat) error {
	return nil
}

func (s *stubStore) InsertIgnoreEventsTx(ctx context.Context, tx *gorm.DB, items []models.Event) error {
	s.ignoredEvents = append(s.ignoredEvents, items...)
	return nil
}

func (s *stubStore) ReplaceEventTagsTx(ctx context.Context, tx *gorm.DB, eventIDs []string, items []models.EventTag) error {
	s.eventTagParents = append(s.eventTagParents, eventIDs)
	s.eventTagRows = append(s.eventTagRows, items)
	return nil
}

func (s *stubStore) ReplaceMarketTagsTx(ctx context.Context, tx *gorm.DB, marketIDs []string, items []models.MarketTag) error {
	s.marketTagParents = append(s.marketTagParents, marketIDs)
	s.marketTagRows = append(s.marketTagRows, items)
	return nil
}

func (s *stubStore) ReplaceMarketCategoriesTx(ctx context.Context, tx *gorm.DB, marketIDs []string, items []models.MarketCategory) error {
	return nil
}

func (s *stubStore) ReplaceTagRelationshipsTx(ctx context.Context, tx *gorm.DB, tagIDs []string, items []models.TagRelationship) error {
	s.tagRelParents = append(s.tagRelParents, tagIDs)
	s.tagRelRows = append(s.tagRelRows, items)
	return nil
}

func (s *stubStore) ReplaceSeriesEventsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesEvent) error {
	s.seriesEvtParents = append(s.seriesEvtParents, seriesIDs)
	s.seriesEvtRows = append(s.seriesEvtRows, items)
	return nil
}

func (s *stubStore) ReplaceSeriesCollectionsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesCollection) error {
	return nil
}

func (s *stubStore) ReplaceSeriesCategoriesTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesCategory) error {
	return nil
}

func (s *stubStore) ReplaceSeriesChatsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesChat) error {
	return nil
}

func (s *stubStore) ReplaceSeriesTagsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesTag) error {
	return nil
}

func (s *stubStore) ListEventIDs(ctx context.Context) ([]string, error) {
	ids := append([]string{}, s.eventIDs...)
	for _, e := range s.upsertedEvents {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (s *stubStore) ListMarketIDs(ctx context.Context) ([]string, error) { return s.marketIDs, nil }
func (s *stubStore) ListTagIDs(ctx context.Context) ([]string, error)    { return s.tagIDs, nil }
func (s *stubStore) ListSeriesIDs(ctx context.Context) ([]string, error) { return s.seriesIDs, nil }

func (s *stubStore) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	return nil, nil
}

func (s *stubStore) ListEvents(ctx context.Context, params repository.ListEventsParams) ([]models.Event, error) {
	return nil, nil
}

func (s *stubStore) CountEvents(ctx context.Context, params repository.ListEventsParams) (int64, error) {
	return 0, nil
}

func (s *stubStore) GetMarketByID(ctx context.Context, id string) (*models.Market, error) {
	return nil, nil
}

func (s *stubStore) ListMarkets(ctx context.Context, params repository.ListMarketsParams) ([]models.Market, error) {
	return nil, nil
}

func (s *stubStore) CountMarkets(ctx context.Context, params repository.ListMarketsParams) (int64, error) {
	return 0, nil
}

func (s *stubStore) GetTagByID(ctx context.Context, id string) (*models.Tag, error) { return nil, nil }

func (s *stubStore) ListTags(ctx context.Context, params repository.ListTagsParams) ([]models.Tag, error) {
	return nil, nil
}

func (s *stubStore) GetSeriesByID(ctx context.Context, id string) (*models.Series, error) {
	return nil, nil
}

func (s *stubStore) ListSeries(ctx context.Context, params repository.ListSeriesParams) ([]models.Series, error) {
	return nil, nil
}

func (s *stubStore) ListTagsByEventIDs(ctx context.Context, eventIDs []string) (map[string][]models.Tag, error) {
	return map[string][]models.Tag{}, nil
}

func (s *stubStore) ListRelatedTags(ctx context.Context, tagID string) ([]models.TagRelationship, error) {
	return nil, nil
}

func (s *stubStore) UpsertCommentsTx(ctx context.Context, tx *gorm.DB, items []models.Comment) error {
	s.upsertedComments = append(s.upsertedComments, items...)
	return nil
}

func (s *stubStore) ReplaceCommentReactionsTx(ctx context.Context, tx *gorm.DB, commentIDs []string, items []models.CommentReaction) error {
	s.reactionParents = append(s.reactionParents, commentIDs)
	s.reactionRows = append(s.reactionRows, items)
	return nil
}

func (s *stubStore) ListComments(ctx context.Context, params repository.ListCommentsParams) ([]models.Comment, error) {
	return nil, nil
}

func (s *stubStore) DeleteAllEvents(ctx context.Context) (int64, error)   { return 0, nil }
func (s *stubStore) DeleteAllMarkets(ctx context.Context) (int64, error)  { return 0, nil }
func (s *stubStore) DeleteAllTags(ctx context.Context) (int64, error)     { return 0, nil }
func (s *stubStore) DeleteAllSeries(ctx context.Context) (int64, error)   { return 0, nil }
func (s *stubStore) DeleteAllComments(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubStore) TableCounts(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (s *stubStore) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if state, ok := s.states[scope]; ok {
		out := state
		return &out, nil
	}
	return nil, nil
}

func (s *stubStore) SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error {
	if state != nil {
		s.states[state.Scope] = *state
	}
	return nil
}

func (s *stubStore) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	out := make([]models.SyncState, 0, len(s.states))
	for _, state := range s.states {
		out = append(out, state)
	}
	return out, nil
}
