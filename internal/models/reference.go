package models

import (
	"time"

	"gorm.io/datatypes"
)

// Collection, Category and Chat are lightweight entities that only ever
// appear nested inside events and series. They are stored once by id and
// referenced through junction rows.

type Collection struct {
	ID                string         `gorm:"primaryKey;type:text"`
	Ticker            *string        `gorm:"type:text"`
	Slug              *string        `gorm:"type:text;index"`
	Title             *string        `gorm:"type:text"`
	Subtitle          *string        `gorm:"type:text"`
	CollectionType    *string        `gorm:"type:text"`
	Description       *string        `gorm:"type:text"`
	Image             *string        `gorm:"type:text"`
	Icon              *string        `gorm:"type:text"`
	ExternalCreatedAt *time.Time     `gorm:"type:timestamptz"`
	ExternalUpdatedAt *time.Time     `gorm:"type:timestamptz"`
	FetchedAt         time.Time      `gorm:"type:timestamptz;not null"`
	RawJSON           datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (Collection) TableName() string {
	return "collections"
}

type Category struct {
	ID                string         `gorm:"primaryKey;type:text"`
	Label             *string        `gorm:"type:text"`
	Slug              *string        `gorm:"type:text;index"`
	ParentCategoryID  *string        `gorm:"type:text"`
	ExternalCreatedAt *time.Time     `gorm:"type:timestamptz"`
	ExternalUpdatedAt *time.Time     `gorm:"type:timestamptz"`
	FetchedAt         time.Time      `gorm:"type:timestamptz;not null"`
	RawJSON           datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (Category) TableName() string {
	return "categories"
}

type Chat struct {
	ID        string         `gorm:"primaryKey;type:text"`
	ChannelID *string        `gorm:"type:text"`
	Title     *string        `gorm:"type:text"`
	ChatType  *string        `gorm:"type:text"`
	FetchedAt time.Time      `gorm:"type:timestamptz;not null"`
	RawJSON   datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (Chat) TableName() string {
	return "chats"
}
