package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"polyterminal/internal/models"
	"polyterminal/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- upserts ----------------------------------------------------------------

func (s *Store) UpsertTagsTx(ctx context.Context, tx *gorm.DB, items []models.Tag) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label",
			"slug",
			"force_show",
			"force_hide",
			"is_carousel",
			"published_at",
			"external_created_at",
			"external_updated_at",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

func (s *Store) UpsertEventsTx(ctx context.Context, tx *gorm.DB, items []models.Event) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ticker",
			"slug",
			"title",
			"description",
			"image",
			"icon",
			"liquidity",
			"volume",
			"volume24hr",
			"volume1wk",
			"volume1mo",
			"volume1yr",
			"open_interest",
			"competitive",
			"comment_count",
			"active",
			"closed",
			"archived",
			"new",
			"featured",
			"restricted",
			"enable_order_book",
			"enable_neg_risk",
			"cyom",
			"start_date",
			"end_date",
			"creation_date",
			"external_created_at",
			"external_updated_at",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

func (s *Store) InsertIgnoreEventsTx(ctx context.Context, tx *gorm.DB, items []models.Event) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}), items, 200)
}

func (s *Store) UpsertMarketsTx(ctx context.Context, tx *gorm.DB, items []models.Market) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"event_id",
			"question",
			"condition_id",
			"slug",
			"description",
			"resolution_source",
			"outcomes",
			"outcome_prices",
			"clob_token_ids",
			"group_item_title",
			"market_maker_address",
			"liquidity",
			"volume",
			"volume24hr",
			"volume1wk",
			"volume1mo",
			"volume1yr",
			"last_trade_price",
			"best_bid",
			"best_ask",
			"spread",
			"one_day_price_change",
			"one_week_price_change",
			"order_price_min_tick_size",
			"order_min_size",
			"active",
			"closed",
			"archived",
			"new",
			"featured",
			"restricted",
			"accepting_orders",
			"enable_order_book",
			"neg_risk",
			"start_date",
			"end_date",
			"external_created_at",
			"external_updated_at",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

func (s *Store) UpsertSeriesTx(ctx context.Context, tx *gorm.DB, items []models.Series) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ticker",
			"slug",
			"title",
			"subtitle",
			"series_type",
			"recurrence",
			"description",
			"image",
			"icon",
			"layout",
			"liquidity",
			"volume",
			"volume24hr",
			"competitive",
			"comment_count",
			"active",
			"closed",
			"archived",
			"new",
			"featured",
			"restricted",
			"start_date",
			"external_created_at",
			"external_updated_at",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

func (s *Store) UpsertCollectionsTx(ctx context.Context, tx *gorm.DB, items []models.Collection) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ticker",
			"slug",
			"title",
			"subtitle",
			"collection_type",
			"description",
			"image",
			"icon",
			"external_created_at",
			"external_updated_at",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

func (s *Store) UpsertCategoriesTx(ctx context.Context, tx *gorm.DB, items []models.Category) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label",
			"slug",
			"parent_category_id",
			"external_created_at",
			"external_updated_at",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

func (s *Store) UpsertChatsTx(ctx context.Context, tx *gorm.DB, items []models.Chat) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"channel_id",
			"title",
			"chat_type",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

// --- relation replacement ---------------------------------------------------

func (s *Store) ReplaceEventTagsTx(ctx context.Context, tx *gorm.DB, eventIDs []string, items []models.EventTag) error {
	if len(eventIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("event_id IN ?", eventIDs).Delete(&models.EventTag{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "tag_id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ReplaceMarketTagsTx(ctx context.Context, tx *gorm.DB, marketIDs []string, items []models.MarketTag) error {
	if len(marketIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("market_id IN ?", marketIDs).Delete(&models.MarketTag{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "market_id"}, {Name: "tag_id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ReplaceMarketCategoriesTx(ctx context.Context, tx *gorm.DB, marketIDs []string, items []models.MarketCategory) error {
	if len(marketIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("market_id IN ?", marketIDs).Delete(&models.MarketCategory{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "market_id"}, {Name: "category_id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ReplaceTagRelationshipsTx(ctx context.Context, tx *gorm.DB, tagIDs []string, items []models.TagRelationship) error {
	if len(tagIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("tag_id IN ?", tagIDs).Delete(&models.TagRelationship{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tag_id"}, {Name: "related_tag_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rank"}),
	}), items, 500)
}

func (s *Store) ReplaceSeriesEventsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesEvent) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("series_id IN ?", seriesIDs).Delete(&models.SeriesEvent{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "series_id"}, {Name: "event_id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ReplaceSeriesCollectionsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesCollection) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("series_id IN ?", seriesIDs).Delete(&models.SeriesCollection{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "series_id"}, {Name: "collection_id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ReplaceSeriesCategoriesTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesCategory) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("series_id IN ?", seriesIDs).Delete(&models.SeriesCategory{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "series_id"}, {Name: "category_id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ReplaceSeriesChatsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesChat) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("series_id IN ?", seriesIDs).Delete(&models.SeriesChat{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "series_id"}, {Name: "chat_id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ReplaceSeriesTagsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesTag) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("series_id IN ?", seriesIDs).Delete(&models.SeriesTag{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "series_id"}, {Name: "tag_id"}},
		DoNothing: true,
	}), items, 500)
}

// --- id listings ------------------------------------------------------------

func (s *Store) ListEventIDs(ctx context.Context) ([]string, error) {
	return s.pluckIDs(ctx, &models.Event{})
}

func (s *Store) ListMarketIDs(ctx context.Context) ([]string, error) {
	return s.pluckIDs(ctx, &models.Market{})
}

func (s *Store) ListTagIDs(ctx context.Context) ([]string, error) {
	return s.pluckIDs(ctx, &models.Tag{})
}

func (s *Store) ListSeriesIDs(ctx context.Context) ([]string, error) {
	return s.pluckIDs(ctx, &models.Series{})
}

func (s *Store) pluckIDs(ctx context.Context, model any) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	if err := s.db.WithContext(ctx).Model(model).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// --- reads ------------------------------------------------------------------

func (s *Store) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Event
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) eventsQuery(ctx context.Context, params repository.ListEventsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Event{})
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.Closed != nil {
		query = query.Where("closed = ?", *params.Closed)
	}
	if strings.TrimSpace(params.Slug) != "" {
		query = query.Where("slug = ?", strings.TrimSpace(params.Slug))
	}
	if strings.TrimSpace(params.TagID) != "" {
		query = query.Where("id IN (?)", s.db.Model(&models.EventTag{}).
			Select("event_id").Where("tag_id = ?", strings.TrimSpace(params.TagID)))
	}
	return query
}

func (s *Store) ListEvents(ctx context.Context, params repository.ListEventsParams) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.eventsQuery(ctx, params), params.OrderBy, params.Asc, "external_updated_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Event
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountEvents(ctx context.Context, params repository.ListEventsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.eventsQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) GetMarketByID(ctx context.Context, id string) (*models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Market
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) marketsQuery(ctx context.Context, params repository.ListMarketsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Market{})
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.Closed != nil {
		query = query.Where("closed = ?", *params.Closed)
	}
	if strings.TrimSpace(params.EventID) != "" {
		query = query.Where("event_id = ?", strings.TrimSpace(params.EventID))
	}
	if strings.TrimSpace(params.Slug) != "" {
		query = query.Where("slug = ?", strings.TrimSpace(params.Slug))
	}
	return query
}

func (s *Store) ListMarkets(ctx context.Context, params repository.ListMarketsParams) ([]models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.marketsQuery(ctx, params), params.OrderBy, params.Asc, "external_updated_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Market
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountMarkets(ctx context.Context, params repository.ListMarketsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.marketsQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) GetTagByID(ctx context.Context, id string) (*models.Tag, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Tag
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListTags(ctx context.Context, params repository.ListTagsParams) ([]models.Tag, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Tag{}).Order("slug asc")
	if strings.TrimSpace(params.Slug) != "" {
		query = query.Where("slug = ?", strings.TrimSpace(params.Slug))
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Tag
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetSeriesByID(ctx context.Context, id string) (*models.Series, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Series
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSeries(ctx context.Context, params repository.ListSeriesParams) ([]models.Series, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Series{})
	if params.Closed != nil {
		query = query.Where("closed = ?", *params.Closed)
	}
	if strings.TrimSpace(params.Slug) != "" {
		query = query.Where("slug = ?", strings.TrimSpace(params.Slug))
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "external_updated_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Series
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListTagsByEventIDs(ctx context.Context, eventIDs []string) (map[string][]models.Tag, error) {
	if s == nil || s.db == nil || len(eventIDs) == 0 {
		return map[string][]models.Tag{}, nil
	}
	type row struct {
		EventID string
		models.Tag
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("event_tags").
		Select("event_tags.event_id, tags.*").
		Joins("JOIN tags ON tags.id = event_tags.tag_id").
		Where("event_tags.event_id IN ?", eventIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string][]models.Tag, len(eventIDs))
	for _, r := range rows {
		out[r.EventID] = append(out[r.EventID], r.Tag)
	}
	return out, nil
}

func (s *Store) ListRelatedTags(ctx context.Context, tagID string) ([]models.TagRelationship, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.TagRelationship
	err := s.db.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Order("rank asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- bulk deletes -----------------------------------------------------------

// Junction rows and markets go with their parents through the cascade
// constraints, so each delete only names the flat table.

func (s *Store) UpsertCommentsTx(ctx context.Context, tx *gorm.DB, items []models.Comment) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"parent_entity_type",
			"parent_entity_id",
			"parent_comment_id",
			"body",
			"user_address",
			"reply_address",
			"report_count",
			"reaction_count",
			"profile_name",
			"profile_pseudonym",
			"profile_bio",
			"profile_is_mod",
			"profile_is_creator",
			"profile_proxy_wallet",
			"profile_image",
			"external_created_at",
			"external_updated_at",
			"fetched_at",
			"raw_json",
		}),
	}), items, 200)
}

func (s *Store) ReplaceCommentReactionsTx(ctx context.Context, tx *gorm.DB, commentIDs []string, items []models.CommentReaction) error {
	if len(commentIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("comment_id IN ?", commentIDs).Delete(&models.CommentReaction{}).Error; err != nil {
		return err
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}), items, 500)
}

func (s *Store) ListComments(ctx context.Context, params repository.ListCommentsParams) ([]models.Comment, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Comment{}).Order("external_created_at desc")
	if strings.TrimSpace(params.ParentEntityType) != "" {
		query = query.Where("parent_entity_type = ?", strings.TrimSpace(params.ParentEntityType))
	}
	if strings.TrimSpace(params.ParentEntityID) != "" {
		query = query.Where("parent_entity_id = ?", strings.TrimSpace(params.ParentEntityID))
	}
	if strings.TrimSpace(params.UserAddress) != "" {
		query = query.Where("user_address = ?", strings.TrimSpace(params.UserAddress))
	}
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Comment
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteAllEvents(ctx context.Context) (int64, error) {
	return s.deleteAll(ctx, &models.Event{})
}

func (s *Store) DeleteAllMarkets(ctx context.Context) (int64, error) {
	return s.deleteAll(ctx, &models.Market{})
}

func (s *Store) DeleteAllTags(ctx context.Context) (int64, error) {
	return s.deleteAll(ctx, &models.Tag{})
}

func (s *Store) DeleteAllSeries(ctx context.Context) (int64, error) {
	return s.deleteAll(ctx, &models.Series{})
}

func (s *Store) DeleteAllComments(ctx context.Context) (int64, error) {
	return s.deleteAll(ctx, &models.Comment{})
}

func (s *Store) deleteAll(ctx context.Context, model any) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("1 = 1").Delete(model)
	return res.RowsAffected, res.Error
}

func (s *Store) TableCounts(ctx context.Context) (map[string]int64, error) {
	if s == nil || s.db == nil {
		return map[string]int64{}, nil
	}
	tables := map[string]any{
		"events":             &models.Event{},
		"markets":            &models.Market{},
		"tags":               &models.Tag{},
		"series":             &models.Series{},
		"collections":        &models.Collection{},
		"categories":         &models.Category{},
		"chats":              &models.Chat{},
		"event_tags":         &models.EventTag{},
		"market_tags":        &models.MarketTag{},
		"market_categories":  &models.MarketCategory{},
		"tag_relationships":  &models.TagRelationship{},
		"series_events":      &models.SeriesEvent{},
		"series_collections": &models.SeriesCollection{},
		"series_categories":  &models.SeriesCategory{},
		"series_chats":       &models.SeriesChat{},
		"series_tags":        &models.SeriesTag{},
		"comments":           &models.Comment{},
		"comment_reactions":  &models.CommentReaction{},
	}
	out := make(map[string]int64, len(tables))
	for name, model := range tables {
		var count int64
		if err := s.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
			return nil, err
		}
		out[name] = count
	}
	return out, nil
}

// --- sync state -------------------------------------------------------------

func (s *Store) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var state models.SyncState
	err := s.db.WithContext(ctx).First(&state, "scope = ?", scope).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error {
	if state == nil {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cursor",
			"last_success_at",
			"last_attempt_at",
			"last_error",
			"stats_json",
		}),
	}).Create(state).Error
}

func (s *Store) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var states []models.SyncState
	if err := s.db.WithContext(ctx).Order("scope asc").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func createInBatches[T any](db *gorm.DB, items []T, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := db.CreateInBatches(items[i:end], batchSize).Error; err != nil {
			return err
		}
	}
	return nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
