package repository

import (
	"context"

	"gorm.io/gorm"

	"polyterminal/internal/models"
)

// CatalogRepository is the storage surface of the catalog sync pipeline.
// Methods with a Tx suffix run inside a transaction obtained from InTx, so a
// page of upserts, its relation replacements and the cursor save commit or
// roll back together.
type CatalogRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	UpsertTagsTx(ctx context.Context, tx *gorm.DB, items []models.Tag) error
	UpsertEventsTx(ctx context.Context, tx *gorm.DB, items []models.Event) error
	UpsertMarketsTx(ctx context.Context, tx *gorm.DB, items []models.Market) error
	UpsertSeriesTx(ctx context.Context, tx *gorm.DB, items []models.Series) error
	UpsertCollectionsTx(ctx context.Context, tx *gorm.DB, items []models.Collection) error
	UpsertCategoriesTx(ctx context.Context, tx *gorm.DB, items []models.Category) error
	UpsertChatsTx(ctx context.Context, tx *gorm.DB, items []models.Chat) error

	// InsertIgnoreEventsTx writes event stubs discovered through series
	// payloads without overwriting rows the event pass already filled in.
	InsertIgnoreEventsTx(ctx context.Context, tx *gorm.DB, items []models.Event) error

	// Replace*Tx swap the full edge set of the given parents: every existing
	// edge of a listed parent is removed, then the supplied rows are written.
	ReplaceEventTagsTx(ctx context.Context, tx *gorm.DB, eventIDs []string, items []models.EventTag) error
	ReplaceMarketTagsTx(ctx context.Context, tx *gorm.DB, marketIDs []string, items []models.MarketTag) error
	ReplaceMarketCategoriesTx(ctx context.Context, tx *gorm.DB, marketIDs []string, items []models.MarketCategory) error
	ReplaceTagRelationshipsTx(ctx context.Context, tx *gorm.DB, tagIDs []string, items []models.TagRelationship) error
	ReplaceSeriesEventsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesEvent) error
	ReplaceSeriesCollectionsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesCollection) error
	ReplaceSeriesCategoriesTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesCategory) error
	ReplaceSeriesChatsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesChat) error
	ReplaceSeriesTagsTx(ctx context.Context, tx *gorm.DB, seriesIDs []string, items []models.SeriesTag) error

	ListEventIDs(ctx context.Context) ([]string, error)
	ListMarketIDs(ctx context.Context) ([]string, error)
	ListTagIDs(ctx context.Context) ([]string, error)
	ListSeriesIDs(ctx context.Context) ([]string, error)

	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, params ListEventsParams) ([]models.Event, error)
	CountEvents(ctx context.Context, params ListEventsParams) (int64, error)
	GetMarketByID(ctx context.Context, id string) (*models.Market, error)
	ListMarkets(ctx context.Context, params ListMarketsParams) ([]models.Market, error)
	CountMarkets(ctx context.Context, params ListMarketsParams) (int64, error)
	GetTagByID(ctx context.Context, id string) (*models.Tag, error)
	ListTags(ctx context.Context, params ListTagsParams) ([]models.Tag, error)
	GetSeriesByID(ctx context.Context, id string) (*models.Series, error)
	ListSeries(ctx context.Context, params ListSeriesParams) ([]models.Series, error)
	ListTagsByEventIDs(ctx context.Context, eventIDs []string) (map[string][]models.Tag, error)
	ListRelatedTags(ctx context.Context, tagID string) ([]models.TagRelationship, error)

	UpsertCommentsTx(ctx context.Context, tx *gorm.DB, items []models.Comment) error
	ReplaceCommentReactionsTx(ctx context.Context, tx *gorm.DB, commentIDs []string, items []models.CommentReaction) error
	ListComments(ctx context.Context, params ListCommentsParams) ([]models.Comment, error)

	DeleteAllEvents(ctx context.Context) (int64, error)
	DeleteAllMarkets(ctx context.Context) (int64, error)
	DeleteAllTags(ctx context.Context) (int64, error)
	DeleteAllSeries(ctx context.Context) (int64, error)
	DeleteAllComments(ctx context.Context) (int64, error)

	TableCounts(ctx context.Context) (map[string]int64, error)

	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)
}

type ListEventsParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Asc     *bool
	Active  *bool
	Closed  *bool
	TagID   string
	Slug    string
}

type ListMarketsParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Asc     *bool
	Active  *bool
	Closed  *bool
	EventID string
	Slug    string
}

type ListTagsParams struct {
	Limit  int
	Offset int
	Slug   string
}

type ListSeriesParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Asc     *bool
	Closed  *bool
	Slug    string
}

type ListCommentsParams struct {
	Limit            int
	Offset           int
	ParentEntityType string
	ParentEntityID   string
	UserAddress      string
}
