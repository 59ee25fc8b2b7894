package models

// Junction rows. Every relation is keyed by the composite of both sides and
// declares cascade-delete foreign keys, so removing a flat row cleans its
// edges. Rows are replaced per parent, never incrementally patched.

type EventTag struct {
	EventID string `gorm:"primaryKey;type:text"`
	TagID   string `gorm:"primaryKey;type:text"`

	Event Event `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Tag   Tag   `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (EventTag) TableName() string {
	return "event_tags"
}

type MarketTag struct {
	MarketID string `gorm:"primaryKey;type:text"`
	TagID    string `gorm:"primaryKey;type:text"`

	Market Market `gorm:"foreignKey:MarketID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Tag    Tag    `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MarketTag) TableName() string {
	return "market_tags"
}

type MarketCategory struct {
	MarketID   string `gorm:"primaryKey;type:text"`
	CategoryID string `gorm:"primaryKey;type:text"`

	Market   Market   `gorm:"foreignKey:MarketID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MarketCategory) TableName() string {
	return "market_categories"
}

type SeriesEvent struct {
	SeriesID string `gorm:"primaryKey;type:text"`
	EventID  string `gorm:"primaryKey;type:text"`

	Series Series `gorm:"foreignKey:SeriesID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Event  Event  `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SeriesEvent) TableName() string {
	return "series_events"
}

type SeriesCollection struct {
	SeriesID     string `gorm:"primaryKey;type:text"`
	CollectionID string `gorm:"primaryKey;type:text"`

	Series     Series     `gorm:"foreignKey:SeriesID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Collection Collection `gorm:"foreignKey:CollectionID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SeriesCollection) TableName() string {
	return "series_collections"
}

type SeriesCategory struct {
	SeriesID   string `gorm:"primaryKey;type:text"`
	CategoryID string `gorm:"primaryKey;type:text"`

	Series   Series   `gorm:"foreignKey:SeriesID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SeriesCategory) TableName() string {
	return "series_categories"
}

type SeriesChat struct {
	SeriesID string `gorm:"primaryKey;type:text"`
	ChatID   string `gorm:"primaryKey;type:text"`

	Series Series `gorm:"foreignKey:SeriesID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Chat   Chat   `gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SeriesChat) TableName() string {
	return "series_chats"
}

type SeriesTag struct {
	SeriesID string `gorm:"primaryKey;type:text"`
	TagID    string `gorm:"primaryKey;type:text"`

	Series Series `gorm:"foreignKey:SeriesID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Tag    Tag    `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SeriesTag) TableName() string {
	return "series_tags"
}
