package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"polyterminal/internal/gamma"
	"polyterminal/internal/normalize"
)

// commentPageLimit caps the comments fetched per parent entity. The listing
// is ordered newest-first, so one page is the recent discussion snapshot.
const commentPageLimit = 15

// SyncComments walks the stored events and markets and captures the newest
// comments on each, plus the reactions of any commented-on comment. Entities
// without comments cost one request and store nothing.
func (s *Service) SyncComments(ctx context.Context, opts Options) (Result, error) {
	eventIDs, err := s.Store.ListEventIDs(ctx)
	if err != nil {
		return Result{}, err
	}
	marketIDs, err := s.Store.ListMarketIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "comments"}
	parents := make([]struct{ entityType, id string }, 0, len(eventIDs)+len(marketIDs))
	for _, id := range eventIDs {
		parents = append(parents, struct{ entityType, id string }{"Event", id})
	}
	for _, id := range marketIDs {
		parents = append(parents, struct{ entityType, id string }{"market", id})
	}

	for _, parent := range parents {
		if err := s.syncEntityComments(ctx, parent.entityType, parent.id, &result); err != nil {
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "comments", err)
				return result, err
			}
			s.logger().Warn("comments fetch failed",
				zap.String("parent_type", parent.entityType),
				zap.String("parent_id", parent.id),
				zap.Error(err))
			result.Errors++
		}
	}

	now := time.Now().UTC()
	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		state := syncStateOK("comments", "", now, map[string]int{
			"parents":   len(parents),
			"comments":  result.Comments,
			"reactions": result.Reactions,
		})
		return s.Store.SaveSyncStateTx(ctx, tx, state)
	})
	if err != nil {
		return result, err
	}
	s.logger().Info("comments synced",
		zap.Int("parents", len(parents)),
		zap.Int("comments", result.Comments),
		zap.Int("reactions", result.Reactions),
		zap.Int("errors", result.Errors))
	return result, nil
}

func (s *Service) syncEntityComments(ctx context.Context, entityType, entityID string, result *Result) error {
	docs, err := s.Gamma.ListComments(ctx, gamma.ListCommentsParams{
		Page:             gamma.Page{Limit: commentPageLimit},
		ParentEntityType: entityType,
		ParentEntityID:   entityID,
		Order:            "createdAt",
	})
	if err != nil {
		if errors.Is(err, gamma.ErrNotFound) {
			return nil
		}
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := normalize.MapComments(entityType, entityID, docs, now)
	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		return s.Store.UpsertCommentsTx(ctx, tx, rows)
	})
	if err != nil {
		return err
	}
	result.Comments += len(rows)

	// Reactions are worth a request only where the count says any exist.
	for _, row := range rows {
		if row.ReactionCount == nil || *row.ReactionCount <= 0 {
			continue
		}
		reactions, err := s.Gamma.CommentReactions(ctx, row.ID)
		if err != nil {
			if errors.Is(err, gamma.ErrNotFound) {
				continue
			}
			return err
		}
		reactionRows := normalize.MapReactions(row.ID, reactions, now)
		err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
			return s.Store.ReplaceCommentReactionsTx(ctx, tx, []string{row.ID}, reactionRows)
		})
		if err != nil {
			return err
		}
		result.Reactions += len(reactionRows)
	}
	return nil
}
