// Package sync drives the catalog pipeline: paginated bulk ingestion per
// entity family, per-id detail enrichment, and the full dependency-ordered
// run. Each page or detail commits in its own transaction together with the
// cursor, so an interrupted run resumes from the last committed page.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"polyterminal/internal/gamma"
	"polyterminal/internal/models"
	"polyterminal/internal/repository"
)

// ErrNoEvents is returned by the markets pass when the store holds no events
// to walk. Markets are only reachable through event payloads, so running the
// markets pass first is an ordering mistake, not an empty catalog.
var ErrNoEvents = errors.New("sync: no stored events, run the events pass first")

// Fetcher is the slice of the Gamma client the managers consume.
type Fetcher interface {
	ListEvents(ctx context.Context, p gamma.ListEventsParams) ([]gamma.Event, error)
	GetEvent(ctx context.Context, id string) (*gamma.Event, error)
	GetMarket(ctx context.Context, id string, includeTag bool) (*gamma.Market, error)
	ListTags(ctx context.Context, p gamma.Page) ([]gamma.Tag, error)
	GetTag(ctx context.Context, id string, includeTemplate bool) (*gamma.Tag, error)
	RelatedTags(ctx context.Context, id string) ([]gamma.RelatedTag, error)
	ListSeries(ctx context.Context, p gamma.ListSeriesParams) ([]gamma.Series, error)
	GetSeries(ctx context.Context, id string, includeChat bool) (*gamma.Series, error)
	ListComments(ctx context.Context, p gamma.ListCommentsParams) ([]gamma.Comment, error)
	CommentReactions(ctx context.Context, id string) ([]gamma.Reaction, error)
}

type Service struct {
	Store  repository.CatalogRepository
	Gamma  Fetcher
	Logger *zap.Logger
}

// Options tunes one pass or one orchestrated run. The Tags, Series,
// Relationships, Comments and Enrich toggles select which optional passes an
// orchestrated run includes; direct calls to a manager ignore them.
type Options struct {
	Limit         int
	MaxPages      int
	Resume        bool
	Closed        *bool
	TagID         *int
	IncludeChat   bool
	Tags          bool
	Series        bool
	Relationships bool
	Comments      bool
	Enrich        bool
}

// Result counts what one pass touched. NextOffset is the cursor the next run
// would resume from; Done means the listing was exhausted before MaxPages.
type Result struct {
	Scope       string `json:"scope"`
	Pages       int    `json:"pages"`
	Events      int    `json:"events"`
	EventStubs  int    `json:"event_stubs"`
	Markets     int    `json:"markets"`
	Tags        int    `json:"tags"`
	Series      int    `json:"series"`
	Collections int    `json:"collections"`
	Categories  int    `json:"categories"`
	Chats       int    `json:"chats"`
	Relations   int    `json:"relations"`
	Comments    int    `json:"comments"`
	Reactions   int    `json:"reactions"`
	Errors      int    `json:"errors"`
	NextOffset  int    `json:"next_offset"`
	Done        bool   `json:"done"`
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) resumeOffset(ctx context.Context, scope string, resume bool) (int, error) {
	if !resume {
		return 0, nil
	}
	state, err := s.Store.GetSyncState(ctx, scope)
	if err != nil {
		return 0, err
	}
	if state != nil && state.Cursor != nil {
		if parsed, err := strconv.Atoi(*state.Cursor); err == nil {
			return parsed, nil
		}
	}
	return 0, nil
}

// writeSyncError records the failure without losing resume progress: the
// cursor, last success time and stats of the last committed page carry over,
// only the attempt time and error text change.
func (s *Service) writeSyncError(ctx context.Context, scope string, err error) {
	s.logger().Warn("catalog sync failed", zap.String("scope", scope), zap.Error(err))
	now := time.Now().UTC()
	_ = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		state := &models.SyncState{
			Scope:         scope,
			LastAttemptAt: &now,
			LastError:     strPtr(err.Error()),
		}
		if prev, getErr := s.Store.GetSyncState(ctx, scope); getErr == nil && prev != nil {
			state.Cursor = prev.Cursor
			state.LastSuccessAt = prev.LastSuccessAt
			state.StatsJSON = prev.StatsJSON
		}
		return s.Store.SaveSyncStateTx(ctx, tx, state)
	})
}

func syncStateOK(scope string, cursor string, now time.Time, stats map[string]int) *models.SyncState {
	return &models.SyncState{
		Scope:         scope,
		Cursor:        strPtr(cursor),
		LastAttemptAt: &now,
		LastSuccessAt: &now,
		LastError:     nil,
		StatsJSON:     statsJSON(stats),
	}
}

func statsJSON(stats map[string]int) datatypes.JSON {
	if len(stats) == 0 {
		return datatypes.JSON([]byte("null"))
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(payload)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeMaxPages(maxPages int) int {
	if maxPages <= 0 {
		return 50
	}
	return maxPages
}

// skippable reports whether a per-id failure should be counted and walked
// past instead of aborting the pass. Context cancellation always aborts.
func skippable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
