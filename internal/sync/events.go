package sync

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"polyterminal/internal/gamma"
	"polyterminal/internal/models"
	"polyterminal/internal/normalize"
)

// SyncEvents walks /events page by page. Each page commits as one unit: the
// nested tags, series and markets land first so the event rows and junction
// rows never point at missing parents, then the cursor advances.
func (s *Service) SyncEvents(ctx context.Context, opts Options) (Result, error) {
	limit := normalizeLimit(opts.Limit)
	maxPages := normalizeMaxPages(opts.MaxPages)
	offset, err := s.resumeOffset(ctx, "events", opts.Resume)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "events"}
	for page := 0; page < maxPages; page++ {
		docs, err := s.Gamma.ListEvents(ctx, gamma.ListEventsParams{
			Page:   gamma.Page{Limit: limit, Offset: offset},
			Closed: opts.Closed,
			TagID:  opts.TagID,
		})
		if err != nil {
			s.writeSyncError(ctx, "events", err)
			return result, err
		}
		if len(docs) == 0 {
			result.Done = true
			break
		}

		now := time.Now().UTC()
		batch := normalize.MapEvents(docs, now)
		nextOffset := offset + len(docs)

		if err := s.storeEventBatch(ctx, "events", batch, strconv.Itoa(nextOffset), now); err != nil {
			return result, err
		}

		result.Pages++
		result.Events += len(batch.Events)
		result.Markets += len(batch.Markets)
		result.Tags += len(batch.Tags)
		result.Series += len(batch.Series)
		result.Categories += len(batch.Categories)
		result.NextOffset = nextOffset
		offset = nextOffset
		if len(docs) < limit {
			result.Done = true
			break
		}
	}
	s.logger().Info("events synced",
		zap.Int("events", result.Events),
		zap.Int("markets", result.Markets),
		zap.Int("pages", result.Pages))
	return result, nil
}

// SyncEventDetail refetches one event by id and commits it with its full
// market and tag edge sets. The detail payload is authoritative for both edge
// families, so each is replaced for the visited event. A nil row without an
// error means the event no longer exists remotely; the stored row stays.
func (s *Service) SyncEventDetail(ctx context.Context, id string) (*models.Event, error) {
	doc, err := s.Gamma.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, gamma.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now().UTC()
	batch := normalize.NewBatch()
	batch.AddEvent(doc, now)
	if err := s.storeEventBatch(ctx, "events_detail", batch, "", now); err != nil {
		return nil, err
	}
	if len(batch.Events) == 0 {
		return nil, nil
	}
	return &batch.Events[0], nil
}

// EnrichEvents runs SyncEventDetail over every stored event id.
func (s *Service) EnrichEvents(ctx context.Context, opts Options) (Result, error) {
	ids, err := s.Store.ListEventIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "events_detail"}
	for _, id := range ids {
		row, err := s.SyncEventDetail(ctx, id)
		if err != nil {
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "events_detail", err)
				return result, err
			}
			s.logger().Warn("event detail failed", zap.String("event_id", id), zap.Error(err))
			result.Errors++
			continue
		}
		if row != nil {
			result.Events++
		}
	}
	s.logger().Info("events enriched",
		zap.Int("events", result.Events),
		zap.Int("errors", result.Errors))
	return result, nil
}

// storeEventBatch commits the rows lifted from event payloads in dependency
// order inside one transaction. An empty cursor means the pass is per-id and
// keeps whatever cursor the bulk pass left behind.
func (s *Service) storeEventBatch(ctx context.Context, scope string, batch *normalize.Batch, cursor string, now time.Time) error {
	err := s.Store.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Store.UpsertTagsTx(ctx, tx, batch.Tags); err != nil {
			return err
		}
		if err := s.Store.UpsertSeriesTx(ctx, tx, batch.Series); err != nil {
			return err
		}
		if err := s.Store.UpsertCategoriesTx(ctx, tx, batch.Categories); err != nil {
			return err
		}
		if err := s.Store.UpsertEventsTx(ctx, tx, batch.Events); err != nil {
			return err
		}
		if err := s.Store.UpsertMarketsTx(ctx, tx, batch.Markets); err != nil {
			return err
		}
		if err := s.Store.ReplaceEventTagsTx(ctx, tx, batch.EventIDs, batch.EventTags); err != nil {
			return err
		}
		if err := s.Store.ReplaceMarketTagsTx(ctx, tx, batch.MarketIDs, batch.MarketTags); err != nil {
			return err
		}
		if err := s.Store.ReplaceMarketCategoriesTx(ctx, tx, batch.MarketIDs, batch.MarketCategories); err != nil {
			return err
		}
		if cursor == "" {
			return nil
		}
		state := syncStateOK(scope, cursor, now, map[string]int{
			"events":  len(batch.Events),
			"markets": len(batch.Markets),
			"tags":    len(batch.Tags),
			"series":  len(batch.Series),
		})
		return s.Store.SaveSyncStateTx(ctx, tx, state)
	})
	if err != nil {
		s.writeSyncError(ctx, scope, err)
	}
	return err
}
