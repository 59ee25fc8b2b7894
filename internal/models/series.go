package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Series struct {
	ID                string           `gorm:"primaryKey;type:text"`
	Ticker            *string          `gorm:"type:text"`
	Slug              *string          `gorm:"type:text;uniqueIndex"`
	Title             string           `gorm:"type:text;not null"`
	Subtitle          *string          `gorm:"type:text"`
	SeriesType        *string          `gorm:"type:text"`
	Recurrence        *string          `gorm:"type:text"`
	Description       *string          `gorm:"type:text"`
	Image             *string          `gorm:"type:text"`
	Icon              *string          `gorm:"type:text"`
	Layout            *string          `gorm:"type:text"`
	Liquidity         *decimal.Decimal `gorm:"type:numeric(30,10)"`
	Volume            *decimal.Decimal `gorm:"type:numeric(30,10);index"`
	Volume24hr        *decimal.Decimal `gorm:"type:numeric(30,10)"`
	Competitive       *float64         `gorm:"type:numeric"`
	CommentCount      *int             `gorm:"type:integer"`
	Active            bool             `gorm:"not null;default:true;index"`
	Closed            bool             `gorm:"not null;default:false"`
	Archived          *bool            `gorm:"default:null"`
	New               *bool            `gorm:"default:null"`
	Featured          *bool            `gorm:"default:null"`
	Restricted        *bool            `gorm:"default:null"`
	StartDate         *time.Time       `gorm:"type:timestamptz"`
	ExternalCreatedAt *time.Time       `gorm:"type:timestamptz"`
	ExternalUpdatedAt *time.Time       `gorm:"type:timestamptz;index"`
	FetchedAt         time.Time        `gorm:"type:timestamptz;not null"`
	RawJSON           datatypes.JSON   `gorm:"type:jsonb;not null"`
}

func (Series) TableName() string {
	return "series"
}
