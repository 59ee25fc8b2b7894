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

// SyncTags walks /tags page by page and upserts the rows. Tags carry no
// relations of their own; the relationship edges come from SyncTagRelationships.
func (s *Service) SyncTags(ctx context.Context, opts Options) (Result, error) {
	limit := normalizeLimit(opts.Limit)
	maxPages := normalizeMaxPages(opts.MaxPages)
	offset, err := s.resumeOffset(ctx, "tags", opts.Resume)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "tags"}
	for page := 0; page < maxPages; page++ {
		docs, err := s.Gamma.ListTags(ctx, gamma.Page{Limit: limit, Offset: offset})
		if err != nil {
			s.writeSyncError(ctx, "tags", err)
			return result, err
		}
		if len(docs) == 0 {
			result.Done = true
			break
		}

		now := time.Now().UTC()
		batch := normalize.MapTags(docs, now)
		nextOffset := offset + len(docs)

		err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
			if err := s.Store.UpsertTagsTx(ctx, tx, batch.Tags); err != nil {
				return err
			}
			state := syncStateOK("tags", strconv.Itoa(nextOffset), now, map[string]int{"tags": len(batch.Tags)})
			return s.Store.SaveSyncStateTx(ctx, tx, state)
		})
		if err != nil {
			s.writeSyncError(ctx, "tags", err)
			return result, err
		}

		result.Pages++
		result.Tags += len(batch.Tags)
		result.NextOffset = nextOffset
		offset = nextOffset
		if len(docs) < limit {
			result.Done = true
			break
		}
	}
	s.logger().Info("tags synced", zap.Int("tags", result.Tags), zap.Int("pages", result.Pages))
	return result, nil
}

// SyncTagRelationships refetches the related-tags edge set of every stored
// tag. The edge set of each visited tag is replaced wholesale; edges pointing
// at tags the store has never seen are dropped rather than violating the
// foreign key.
func (s *Service) SyncTagRelationships(ctx context.Context, opts Options) (Result, error) {
	ids, err := s.Store.ListTagIDs(ctx)
	if err != nil {
		return Result{}, err
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	result := Result{Scope: "tag_relationships"}
	now := time.Now().UTC()
	for _, id := range ids {
		edges, err := s.Gamma.RelatedTags(ctx, id)
		if err != nil {
			if errors.Is(err, gamma.ErrNotFound) {
				continue
			}
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "tag_relationships", err)
				return result, err
			}
			s.logger().Warn("related tags fetch failed", zap.String("tag_id", id), zap.Error(err))
			result.Errors++
			continue
		}

		rows := normalize.MapRelatedTags(id, edges)
		kept := rows[:0]
		for _, row := range rows {
			if known[row.TagID] && known[row.RelatedTagID] {
				kept = append(kept, row)
			}
		}

		err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
			return s.Store.ReplaceTagRelationshipsTx(ctx, tx, []string{id}, kept)
		})
		if err != nil {
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "tag_relationships", err)
				return result, err
			}
			result.Errors++
			continue
		}
		result.Relations += len(kept)
	}

	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		state := syncStateOK("tag_relationships", "", now, map[string]int{
			"tags":  len(ids),
			"edges": result.Relations,
		})
		return s.Store.SaveSyncStateTx(ctx, tx, state)
	})
	if err != nil {
		return result, err
	}
	s.logger().Info("tag relationships synced",
		zap.Int("tags", len(ids)),
		zap.Int("edges", result.Relations),
		zap.Int("errors", result.Errors))
	return result, nil
}

// SyncTagDetail refetches one tag by id to pick up fields the list endpoint
// omits. A nil row without an error means the tag no longer exists remotely;
// the stored row stays.
func (s *Service) SyncTagDetail(ctx context.Context, id string) (*models.Tag, error) {
	doc, err := s.Gamma.GetTag(ctx, id, true)
	if err != nil {
		if errors.Is(err, gamma.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now().UTC()
	batch := normalize.NewBatch()
	batch.AddTag(doc, now)
	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		return s.Store.UpsertTagsTx(ctx, tx, batch.Tags)
	})
	if err != nil {
		return nil, err
	}
	if len(batch.Tags) == 0 {
		return nil, nil
	}
	return &batch.Tags[0], nil
}

// EnrichTags runs SyncTagDetail over every stored tag id.
func (s *Service) EnrichTags(ctx context.Context, opts Options) (Result, error) {
	ids, err := s.Store.ListTagIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scope: "tags_detail"}
	for _, id := range ids {
		row, err := s.SyncTagDetail(ctx, id)
		if err != nil {
			if !skippable(ctx, err) {
				s.writeSyncError(ctx, "tags_detail", err)
				return result, err
			}
			result.Errors++
			continue
		}
		if row != nil {
			result.Tags++
		}
	}
	s.logger().Info("tags enriched", zap.Int("tags", result.Tags), zap.Int("errors", result.Errors))
	return result, nil
}
