package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Market rows are discovered exclusively through the markets nested in an
// event payload; EventID records that provenance.
type Market struct {
	ID                    string           `gorm:"primaryKey;type:text"`
	EventID               string           `gorm:"type:text;index;not null"`
	Question              string           `gorm:"type:text;not null"`
	ConditionID           string           `gorm:"type:text;index"`
	Slug                  *string          `gorm:"type:text;uniqueIndex"`
	Description           *string          `gorm:"type:text"`
	ResolutionSource      *string          `gorm:"type:text"`
	Outcomes              *string          `gorm:"type:text"`
	OutcomePrices         *string          `gorm:"type:text"`
	ClobTokenIDs          *string          `gorm:"type:text"`
	GroupItemTitle        *string          `gorm:"type:text"`
	MarketMakerAddress    *string          `gorm:"type:text"`
	Liquidity             *decimal.Decimal `gorm:"type:numeric(30,10)"`
	Volume                *decimal.Decimal `gorm:"type:numeric(30,10);index"`
	Volume24hr            *decimal.Decimal `gorm:"type:numeric(30,10)"`
	Volume1wk             *decimal.Decimal `gorm:"type:numeric(30,10)"`
	Volume1mo             *decimal.Decimal `gorm:"type:numeric(30,10)"`
	Volume1yr             *decimal.Decimal `gorm:"type:numeric(30,10)"`
	LastTradePrice        *decimal.Decimal `gorm:"type:numeric(20,10)"`
	BestBid               *decimal.Decimal `gorm:"type:numeric(20,10)"`
	BestAsk               *decimal.Decimal `gorm:"type:numeric(20,10)"`
	Spread                *decimal.Decimal `gorm:"type:numeric(20,10)"`
	OneDayPriceChange     *float64         `gorm:"type:numeric"`
	OneWeekPriceChange    *float64         `gorm:"type:numeric"`
	OrderPriceMinTickSize *float64         `gorm:"type:numeric"`
	OrderMinSize          *float64         `gorm:"type:numeric"`
	Active                bool             `gorm:"not null;default:true;index"`
	Closed                bool             `gorm:"not null;default:false"`
	Archived              *bool            `gorm:"default:null"`
	New                   *bool            `gorm:"default:null"`
	Featured              *bool            `gorm:"default:null"`
	Restricted            *bool            `gorm:"default:null"`
	AcceptingOrders       *bool            `gorm:"default:null"`
	EnableOrderBook       *bool            `gorm:"default:null"`
	NegRisk               *bool            `gorm:"default:null"`
	StartDate             *time.Time       `gorm:"type:timestamptz"`
	EndDate               *time.Time       `gorm:"type:timestamptz"`
	ExternalCreatedAt     *time.Time       `gorm:"type:timestamptz"`
	ExternalUpdatedAt     *time.Time       `gorm:"type:timestamptz;index"`
	FetchedAt             time.Time        `gorm:"type:timestamptz;not null"`
	RawJSON               datatypes.JSON   `gorm:"type:jsonb;not null"`

	Event Event `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Market) TableName() string {
	return "markets"
}
