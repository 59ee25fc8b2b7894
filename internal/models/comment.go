package models

import (
	"time"

	"gorm.io/datatypes"
)

// Comment is a user comment attached to an event, market or series. The
// parent is kept as the loose (type, id) pair Gamma reports rather than a
// foreign key, because comments outlive the entities they were posted on.
type Comment struct {
	ID                 string         `gorm:"primaryKey;type:text"`
	ParentEntityType   string         `gorm:"type:text;index:idx_comments_parent"`
	ParentEntityID     string         `gorm:"type:text;index:idx_comments_parent"`
	ParentCommentID    *string        `gorm:"type:text"`
	Body               *string        `gorm:"type:text"`
	UserAddress        *string        `gorm:"type:text;index"`
	ReplyAddress       *string        `gorm:"type:text"`
	ReportCount        *int           `gorm:"type:integer"`
	ReactionCount      *int           `gorm:"type:integer"`
	ProfileName        *string        `gorm:"type:text"`
	ProfilePseudonym   *string        `gorm:"type:text"`
	ProfileBio         *string        `gorm:"type:text"`
	ProfileIsMod       *bool          `gorm:"default:null"`
	ProfileIsCreator   *bool          `gorm:"default:null"`
	ProfileProxyWallet *string        `gorm:"type:text"`
	ProfileImage       *string        `gorm:"type:text"`
	ExternalCreatedAt  *time.Time     `gorm:"type:timestamptz;index"`
	ExternalUpdatedAt  *time.Time     `gorm:"type:timestamptz"`
	FetchedAt          time.Time      `gorm:"type:timestamptz;not null"`
	RawJSON            datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (Comment) TableName() string {
	return "comments"
}

type CommentReaction struct {
	ID                 string     `gorm:"primaryKey;type:text"`
	CommentID          string     `gorm:"type:text;index;not null"`
	ReactionType       *string    `gorm:"type:text"`
	Icon               *string    `gorm:"type:text"`
	UserAddress        *string    `gorm:"type:text"`
	ProfileName        *string    `gorm:"type:text"`
	ProfileProxyWallet *string    `gorm:"type:text"`
	ExternalCreatedAt  *time.Time `gorm:"type:timestamptz"`
	FetchedAt          time.Time  `gorm:"type:timestamptz;not null"`

	Comment Comment `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CommentReaction) TableName() string {
	return "comment_reactions"
}
