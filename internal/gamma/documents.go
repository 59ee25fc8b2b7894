package gamma

// Raw catalog documents as Gamma returns them. Only the fields the store
// captures are declared; anything else is dropped at decode time, so widening
// capture is a matter of adding a field here and a column in models.

type Tag struct {
	ID          ID         `json:"id"`
	Label       string     `json:"label"`
	Slug        string     `json:"slug"`
	ForceShow   *Flag      `json:"forceShow"`
	ForceHide   *Flag      `json:"forceHide"`
	IsCarousel  *Flag      `json:"isCarousel"`
	PublishedAt *Timestamp `json:"publishedAt"`
	CreatedAt   *Timestamp `json:"createdAt"`
	UpdatedAt   *Timestamp `json:"updatedAt"`
}

// RelatedTag is one edge from /tags/{id}/related-tags. The remote surrogate
// id is ignored; the (tagID, relatedTagID) pair identifies the edge.
type RelatedTag struct {
	TagID        ID      `json:"tagID"`
	RelatedTagID ID      `json:"relatedTagID"`
	Rank         *Number `json:"rank"`
}

type Category struct {
	ID               ID         `json:"id"`
	Label            string     `json:"label"`
	Slug             string     `json:"slug"`
	ParentCategoryID ID         `json:"parentCategory"`
	CreatedAt        *Timestamp `json:"createdAt"`
	UpdatedAt        *Timestamp `json:"updatedAt"`
}

type Collection struct {
	ID             ID         `json:"id"`
	Ticker         string     `json:"ticker"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Subtitle       string     `json:"subtitle"`
	CollectionType string     `json:"collectionType"`
	Description    string     `json:"description"`
	Image          string     `json:"image"`
	Icon           string     `json:"icon"`
	CreatedAt      *Timestamp `json:"createdAt"`
	UpdatedAt      *Timestamp `json:"updatedAt"`
}

type Chat struct {
	ID        ID     `json:"id"`
	ChannelID string `json:"channelId"`
	Title     string `json:"title"`
	ChatType  string `json:"chatType"`
}

type Market struct {
	ID                    ID         `json:"id"`
	Question              string     `json:"question"`
	ConditionID           string     `json:"conditionId"`
	Slug                  string     `json:"slug"`
	Description           string     `json:"description"`
	ResolutionSource      string     `json:"resolutionSource"`
	Outcomes              string     `json:"outcomes"`
	OutcomePrices         string     `json:"outcomePrices"`
	ClobTokenIDs          string     `json:"clobTokenIds"`
	GroupItemTitle        string     `json:"groupItemTitle"`
	MarketMakerAddress    string     `json:"marketMakerAddress"`
	Liquidity             *Number    `json:"liquidityNum"`
	Volume                *Number    `json:"volumeNum"`
	Volume24hr            *Number    `json:"volume24hr"`
	Volume1wk             *Number    `json:"volume1wk"`
	Volume1mo             *Number    `json:"volume1mo"`
	Volume1yr             *Number    `json:"volume1yr"`
	LastTradePrice        *Number    `json:"lastTradePrice"`
	BestBid               *Number    `json:"bestBid"`
	BestAsk               *Number    `json:"bestAsk"`
	Spread                *Number    `json:"spread"`
	OneDayPriceChange     *Number    `json:"oneDayPriceChange"`
	OneWeekPriceChange    *Number    `json:"oneWeekPriceChange"`
	OrderPriceMinTickSize *Number    `json:"orderPriceMinTickSize"`
	OrderMinSize          *Number    `json:"orderMinSize"`
	Active                Flag       `json:"active"`
	Closed                Flag       `json:"closed"`
	Archived              *Flag      `json:"archived"`
	New                   *Flag      `json:"new"`
	Featured              *Flag      `json:"featured"`
	Restricted            *Flag      `json:"restricted"`
	AcceptingOrders       *Flag      `json:"acceptingOrders"`
	EnableOrderBook       *Flag      `json:"enableOrderBook"`
	NegRisk               *Flag      `json:"negRisk"`
	StartDate             *Timestamp `json:"startDate"`
	EndDate               *Timestamp `json:"endDate"`
	CreatedAt             *Timestamp `json:"createdAt"`
	UpdatedAt             *Timestamp `json:"updatedAt"`
	Tags                  []Tag      `json:"tags"`
	Categories            []Category `json:"categories"`

	// Backreference present on the detail endpoint; used only to recover
	// provenance when a market is fetched by id.
	Events []struct {
		ID ID `json:"id"`
	} `json:"events"`
}

type Event struct {
	ID              ID         `json:"id"`
	Ticker          string     `json:"ticker"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Image           string     `json:"image"`
	Icon            string     `json:"icon"`
	Liquidity       *Number    `json:"liquidity"`
	Volume          *Number    `json:"volume"`
	Volume24hr      *Number    `json:"volume24hr"`
	Volume1wk       *Number    `json:"volume1wk"`
	Volume1mo       *Number    `json:"volume1mo"`
	Volume1yr       *Number    `json:"volume1yr"`
	OpenInterest    *Number    `json:"openInterest"`
	Competitive     *Number    `json:"competitive"`
	CommentCount    *Number    `json:"commentCount"`
	Active          Flag       `json:"active"`
	Closed          Flag       `json:"closed"`
	Archived        *Flag      `json:"archived"`
	New             *Flag      `json:"new"`
	Featured        *Flag      `json:"featured"`
	Restricted      *Flag      `json:"restricted"`
	EnableOrderBook *Flag      `json:"enableOrderBook"`
	EnableNegRisk   *Flag      `json:"enableNegRisk"`
	Cyom            *Flag      `json:"cyom"`
	StartDate       *Timestamp `json:"startDate"`
	EndDate         *Timestamp `json:"endDate"`
	CreationDate    *Timestamp `json:"creationDate"`
	CreatedAt       *Timestamp `json:"createdAt"`
	UpdatedAt       *Timestamp `json:"updatedAt"`
	Tags            []Tag      `json:"tags"`
	Markets         []Market   `json:"markets"`
	Series          []Series   `json:"series"`
}

// CommentProfile is the author snapshot embedded in comments and reactions.
type CommentProfile struct {
	Name         string `json:"name"`
	Pseudonym    string `json:"pseudonym"`
	Bio          string `json:"bio"`
	IsMod        *Flag  `json:"mod"`
	IsCreator    *Flag  `json:"isCreator"`
	ProxyWallet  string `json:"proxyWallet"`
	ProfileImage string `json:"profileImage"`
}

type Comment struct {
	ID               ID             `json:"id"`
	Body             string         `json:"body"`
	ParentEntityType string         `json:"parentEntityType"`
	ParentEntityID   ID             `json:"parentEntityID"`
	ParentCommentID  ID             `json:"parentCommentID"`
	UserAddress      string         `json:"userAddress"`
	ReplyAddress     string         `json:"replyAddress"`
	ReportCount      *Number        `json:"reportCount"`
	ReactionCount    *Number        `json:"reactionCount"`
	CreatedAt        *Timestamp     `json:"createdAt"`
	UpdatedAt        *Timestamp     `json:"updatedAt"`
	Profile          CommentProfile `json:"profile"`
}

type Reaction struct {
	ID           ID             `json:"id"`
	CommentID    ID             `json:"commentID"`
	ReactionType string         `json:"reactionType"`
	Icon         string         `json:"icon"`
	UserAddress  string         `json:"userAddress"`
	CreatedAt    *Timestamp     `json:"createdAt"`
	Profile      CommentProfile `json:"profile"`
}

type Series struct {
	ID           ID           `json:"id"`
	Ticker       string       `json:"ticker"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Subtitle     string       `json:"subtitle"`
	SeriesType   string       `json:"seriesType"`
	Recurrence   string       `json:"recurrence"`
	Description  string       `json:"description"`
	Image        string       `json:"image"`
	Icon         string       `json:"icon"`
	Layout       string       `json:"layout"`
	Liquidity    *Number      `json:"liquidity"`
	Volume       *Number      `json:"volume"`
	Volume24hr   *Number      `json:"volume24hr"`
	Competitive  *Number      `json:"competitive"`
	CommentCount *Number      `json:"commentCount"`
	Active       Flag         `json:"active"`
	Closed       Flag         `json:"closed"`
	Archived     *Flag        `json:"archived"`
	New          *Flag        `json:"new"`
	Featured     *Flag        `json:"featured"`
	Restricted   *Flag        `json:"restricted"`
	StartDate    *Timestamp   `json:"startDate"`
	CreatedAt    *Timestamp   `json:"createdAt"`
	UpdatedAt    *Timestamp   `json:"updatedAt"`
	Events       []Event      `json:"events"`
	Collections  []Collection `json:"collections"`
	Categories   []Category   `json:"categories"`
	Chats        []Chat       `json:"chats"`
	Tags         []Tag        `json:"tags"`
}
