package models

import (
	"time"

	"gorm.io/datatypes"
)

type Tag struct {
	ID                string         `gorm:"primaryKey;type:text"`
	Label             string         `gorm:"type:text;not null"`
	Slug              string         `gorm:"type:text;uniqueIndex;not null"`
	ForceShow         *bool          `gorm:"default:null"`
	ForceHide         *bool          `gorm:"default:null"`
	IsCarousel        *bool          `gorm:"default:null"`
	PublishedAt       *time.Time     `gorm:"type:timestamptz"`
	ExternalCreatedAt *time.Time     `gorm:"type:timestamptz"`
	ExternalUpdatedAt *time.Time     `gorm:"type:timestamptz;index"`
	FetchedAt         time.Time      `gorm:"type:timestamptz;not null"`
	RawJSON           datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// TagRelationship is a directed related-tags edge. The pair is the primary
// key; rank is an attribute of the edge, so refetching a pair overwrites it.
type TagRelationship struct {
	TagID        string `gorm:"primaryKey;type:text"`
	RelatedTagID string `gorm:"primaryKey;type:text"`
	Rank         *int   `gorm:"type:integer"`

	Tag        Tag `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	RelatedTag Tag `gorm:"foreignKey:RelatedTagID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TagRelationship) TableName() string {
	return "tag_relationships"
}
