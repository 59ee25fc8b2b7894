package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"polyterminal/internal/gamma"
	"polyterminal/internal/models"
	"polyterminal/internal/normalize"
)

// SyncMarkets walks the stored events and refetches each one to capture its
// full market set. Gamma has no standalone market listing that preserves
// event provenance, so the events table is the only discovery path; an empty
// events table means the passes ran out of order.
func (s *Service) SyncMarkets(ctx context.Context, opts Options) (Result, error) {
	eventIDs, err := s.Store.ListEventIDs(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(eventIDs) == 0 {
		return Result{Scope: "markets"}, ErrNoEvents
	}

	result := Result{Scope: "markets"}
	for _, eventID := range eventIDs {
		doc, err := s.Gamma.GetEvent(ctx, eventID)
		if err != nil {
			if errors.Is(err, gamma.ErrNotFound) {
				continue
			}
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "markets", err)
				return result, err
			}
			s.logger().Warn("event fetch failed", zap.String("event_id", eventID), zap.Error(err))
			result.Errors++
			continue
		}

		now := time.Now().UTC()
		batch := normalize.NewBatch()
		for i := range doc.Markets {
			batch.AddMarket(&doc.Markets[i], eventID, now)
		}

		if err := s.storeMarketBatch(ctx, batch); err != nil {
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "markets", err)
				return result, err
			}
			result.Errors++
			continue
		}
		result.Markets += len(batch.Markets)
	}

	now := time.Now().UTC()
	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		state := syncStateOK("markets", "", now, map[string]int{
			"events":  len(eventIDs),
			"markets": result.Markets,
		})
		return s.Store.SaveSyncStateTx(ctx, tx, state)
	})
	if err != nil {
		return result, err
	}
	s.logger().Info("markets synced",
		zap.Int("events", len(eventIDs)),
		zap.Int("markets", result.Markets),
		zap.Int("errors", result.Errors))
	return result, nil
}

// SyncMarketDetail refetches one market by id with include_tag, for the
// pricing fields and tag edges the nested event payload leaves out. The
// owning event comes from the detail payload's backreference; without one
// the stored provenance stands. A nil row without an error means the market
// is unknown remotely or has no resolvable provenance.
func (s *Service) SyncMarketDetail(ctx context.Context, id string) (*models.Market, error) {
	doc, err := s.Gamma.GetMarket(ctx, id, true)
	if err != nil {
		if errors.Is(err, gamma.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	eventID := ""
	if len(doc.Events) > 0 {
		eventID = doc.Events[0].ID.String()
	}
	if eventID == "" {
		stored, err := s.Store.GetMarketByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, nil
		}
		eventID = stored.EventID
	}

	now := time.Now().UTC()
	batch := normalize.NewBatch()
	batch.AddMarket(doc, eventID, now)
	if err := s.storeMarketBatch(ctx, batch); err != nil {
		return nil, err
	}
	if len(batch.Markets) == 0 {
		return nil, nil
	}
	return &batch.Markets[0], nil
}

// EnrichMarkets runs SyncMarketDetail over every stored market id.
func (s *Service) EnrichMarkets(ctx context.Context, opts Options) (Result, error) {
	ids, err := s.Store.ListMarketIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "markets_detail"}
	for _, id := range ids {
		row, err := s.SyncMarketDetail(ctx, id)
		if err != nil {
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "markets_detail", err)
				return result, err
			}
			s.logger().Warn("market detail failed", zap.String("market_id", id), zap.Error(err))
			result.Errors++
			continue
		}
		if row != nil {
			result.Markets++
		}
	}
	s.logger().Info("markets enriched",
		zap.Int("markets", result.Markets),
		zap.Int("errors", result.Errors))
	return result, nil
}

// storeMarketBatch commits market rows and their edge replacements in one
// transaction.
func (s *Service) storeMarketBatch(ctx context.Context, batch *normalize.Batch) error {
	return s.Store.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Store.UpsertTagsTx(ctx, tx, batch.Tags); err != nil {
			return err
		}
		if err := s.Store.UpsertCategoriesTx(ctx, tx, batch.Categories); err != nil {
			return err
		}
		if err := s.Store.UpsertMarketsTx(ctx, tx, batch.Markets); err != nil {
			return err
		}
		if err := s.Store.ReplaceMarketTagsTx(ctx, tx, batch.MarketIDs, batch.MarketTags); err != nil {
			return err
		}
		return s.Store.ReplaceMarketCategoriesTx(ctx, tx, batch.MarketIDs, batch.MarketCategories)
	})
}
