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

// SyncSeries walks /series page by page. Events nested in a series are
// written as insert-ignore stubs so the series_events foreign key holds even
// for events the bulk event pass has not reached yet; a later event pass
// upgrades the stub without losing the edge.
func (s *Service) SyncSeries(ctx context.Context, opts Options) (Result, error) {
	limit := normalizeLimit(opts.Limit)
	maxPages := normalizeMaxPages(opts.MaxPages)
	offset, err := s.resumeOffset(ctx, "series", opts.Resume)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "series"}
	for page := 0; page < maxPages; page++ {
		docs, err := s.Gamma.ListSeries(ctx, gamma.ListSeriesParams{
			Page:        gamma.Page{Limit: limit, Offset: offset},
			Closed:      opts.Closed,
			IncludeChat: opts.IncludeChat,
		})
		if err != nil {
			s.writeSyncError(ctx, "series", err)
			return result, err
		}
		if len(docs) == 0 {
			result.Done = true
			break
		}

		now := time.Now().UTC()
		batch := normalize.MapSeries(docs, now)
		nextOffset := offset + len(docs)

		if err := s.storeSeriesBatch(ctx, "series", batch, strconv.Itoa(nextOffset), now); err != nil {
			return result, err
		}

		result.Pages++
		result.Series += len(batch.Series)
		result.EventStubs += len(batch.EventStubs)
		result.Collections += len(batch.Collections)
		result.Categories += len(batch.Categories)
		result.Chats += len(batch.Chats)
		result.Tags += len(batch.Tags)
		result.NextOffset = nextOffset
		offset = nextOffset
		if len(docs) < limit {
			result.Done = true
			break
		}
	}
	s.logger().Info("series synced",
		zap.Int("series", result.Series),
		zap.Int("event_stubs", result.EventStubs),
		zap.Int("pages", result.Pages))
	return result, nil
}

// SyncSeriesDetail refetches one series by id and replaces its edge sets
// from the detail payload. A nil row without an error means the series no
// longer exists remotely; the stored row stays.
func (s *Service) SyncSeriesDetail(ctx context.Context, id string, includeChat bool) (*models.Series, error) {
	doc, err := s.Gamma.GetSeries(ctx, id, includeChat)
	if err != nil {
		if errors.Is(err, gamma.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now().UTC()
	batch := normalize.NewBatch()
	batch.AddSeries(doc, now)
	if err := s.storeSeriesBatch(ctx, "series_detail", batch, "", now); err != nil {
		return nil, err
	}
	if len(batch.Series) == 0 {
		return nil, nil
	}
	return &batch.Series[0], nil
}

// EnrichSeries runs SyncSeriesDetail over every stored series id.
func (s *Service) EnrichSeries(ctx context.Context, opts Options) (Result, error) {
	ids, err := s.Store.ListSeriesIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "series_detail"}
	for _, id := range ids {
		row, err := s.SyncSeriesDetail(ctx, id, opts.IncludeChat)
		if err != nil {
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "series_detail", err)
				return result, err
			}
			s.logger().Warn("series detail failed", zap.String("series_id", id), zap.Error(err))
			result.Errors++
			continue
		}
		if row != nil {
			result.Series++
		}
	}
	s.logger().Info("series enriched",
		zap.Int("series", result.Series),
		zap.Int("errors", result.Errors))
	return result, nil
}

func (s *Service) storeSeriesBatch(ctx context.Context, scope string, batch *normalize.Batch, cursor string, now time.Time) error {
	err := s.Store.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Store.UpsertTagsTx(ctx, tx, batch.Tags); err != nil {
			return err
		}
		if err := s.Store.UpsertCollectionsTx(ctx, tx, batch.Collections); err != nil {
			return err
		}
		if err := s.Store.UpsertCategoriesTx(ctx, tx, batch.Categories); err != nil {
			return err
		}
		if err := s.Store.UpsertChatsTx(ctx, tx, batch.Chats); err != nil {
			return err
		}
		if err := s.Store.UpsertSeriesTx(ctx, tx, batch.Series); err != nil {
			return err
		}
		if err := s.Store.InsertIgnoreEventsTx(ctx, tx, batch.EventStubs); err != nil {
			return err
		}
		if err := s.Store.ReplaceSeriesEventsTx(ctx, tx, batch.SeriesIDs, batch.SeriesEvents); err != nil {
			return err
		}
		if err := s.Store.ReplaceSeriesCollectionsTx(ctx, tx, batch.SeriesIDs, batch.SeriesCollections); err != nil {
			return err
		}
		if err := s.Store.ReplaceSeriesCategoriesTx(ctx, tx, batch.SeriesIDs, batch.SeriesCategories); err != nil {
			return err
		}
		if err := s.Store.ReplaceSeriesChatsTx(ctx, tx, batch.SeriesIDs, batch.SeriesChats); err != nil {
			return err
		}
		if err := s.Store.ReplaceSeriesTagsTx(ctx, tx, batch.SeriesIDs, batch.SeriesTags); err != nil {
			return err
		}
		if cursor == "" {
			return nil
		}
		state := syncStateOK(scope, cursor, now, map[string]int{
			"series":      len(batch.Series),
			"event_stubs": len(batch.EventStubs),
			"collections": len(batch.Collections),
			"chats":       len(batch.Chats),
		})
		return s.Store.SaveSyncStateTx(ctx, tx, state)
	})
	if err != nil {
		s.writeSyncError(ctx, scope, err)
	}
	return err
}
