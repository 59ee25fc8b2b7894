// Package normalize flattens Gamma catalog documents into relational rows.
// Nested entities are lifted into their own tables and connected through
// junction rows; within a batch every entity appears at most once, no matter
// how many parents embed it.
package normalize

import (
	"time"

	"polyterminal/internal/gamma"
	"polyterminal/internal/models"
)

// Batch accumulates the rows produced from one page of documents. Flat rows
// are deduplicated by id; the parent id slices record which edge sets the
// batch replaces.
type Batch struct {
	Events      []models.Event
	EventStubs  []models.Event
	Markets     []models.Market
	Tags        []models.Tag
	Series      []models.Series
	Collections []models.Collection
	Categories  []models.Category
	Chats       []models.Chat

	EventTags         []models.EventTag
	MarketTags        []models.MarketTag
	MarketCategories  []models.MarketCategory
	SeriesEvents      []models.SeriesEvent
	SeriesCollections []models.SeriesCollection
	SeriesCategories  []models.SeriesCategory
	SeriesChats       []models.SeriesChat
	SeriesTags        []models.SeriesTag

	EventIDs  []string
	MarketIDs []string
	SeriesIDs []string

	seen map[string]bool
}

func NewBatch() *Batch {
	return &Batch{seen: make(map[string]bool)}
}

func (b *Batch) once(kind, id string) bool {
	key := kind + "|" + id
	if b.seen[key] {
		return false
	}
	b.seen[key] = true
	return true
}

// MapEvents flattens one page of /events documents.
func MapEvents(docs []gamma.Event, now time.Time) *Batch {
	b := NewBatch()
	for i := range docs {
		b.AddEvent(&docs[i], now)
	}
	return b
}

// MapSeries flattens one page of /series documents.
func MapSeries(docs []gamma.Series, now time.Time) *Batch {
	b := NewBatch()
	for i := range docs {
		b.AddSeries(&docs[i], now)
	}
	return b
}

// MapTags flattens one page of /tags documents.
func MapTags(docs []gamma.Tag, now time.Time) *Batch {
	b := NewBatch()
	for i := range docs {
		b.AddTag(&docs[i], now)
	}
	return b
}

// AddEvent lifts an event document: the event row, its tag edges, its nested
// markets with their own edges, and full rows for any series it embeds. The
// series<->event relation itself is owned by the series pass, so no
// series_events edges are produced here.
func (b *Batch) AddEvent(doc *gamma.Event, now time.Time) {
	id := doc.ID.String()
	if id == "" || !b.once("event", id) {
		return
	}
	b.Events = append(b.Events, eventRow(doc, now))
	b.EventIDs = append(b.EventIDs, id)

	for i := range doc.Tags {
		tagID := doc.Tags[i].ID.String()
		if tagID == "" {
			continue
		}
		b.AddTag(&doc.Tags[i], now)
		if b.once("event_tag", id+"|"+tagID) {
			b.EventTags = append(b.EventTags, models.EventTag{EventID: id, TagID: tagID})
		}
	}
	for i := range doc.Markets {
		b.AddMarket(&doc.Markets[i], id, now)
	}
	for i := range doc.Series {
		sid := doc.Series[i].ID.String()
		if sid == "" || !b.once("series", sid) {
			continue
		}
		b.Series = append(b.Series, seriesRow(&doc.Series[i], now))
	}
}

// AddMarket lifts a market document under the event it arrived with.
func (b *Batch) AddMarket(doc *gamma.Market, eventID string, now time.Time) {
	id := doc.ID.String()
	if id == "" || eventID == "" || !b.once("market", id) {
		return
	}
	b.Markets = append(b.Markets, marketRow(doc, eventID, now))
	b.MarketIDs = append(b.MarketIDs, id)

	for i := range doc.Tags {
		tagID := doc.Tags[i].ID.String()
		if tagID == "" {
			continue
		}
		b.AddTag(&doc.Tags[i], now)
		if b.once("market_tag", id+"|"+tagID) {
			b.MarketTags = append(b.MarketTags, models.MarketTag{MarketID: id, TagID: tagID})
		}
	}
	for i := range doc.Categories {
		catID := doc.Categories[i].ID.String()
		if catID == "" {
			continue
		}
		b.addCategory(&doc.Categories[i], now)
		if b.once("market_category", id+"|"+catID) {
			b.MarketCategories = append(b.MarketCategories, models.MarketCategory{MarketID: id, CategoryID: catID})
		}
	}
}

// AddSeries lifts a series document. Events nested in a series are emitted as
// stubs: enough to satisfy the series_events foreign key without overwriting
// rows the event pass already filled in.
func (b *Batch) AddSeries(doc *gamma.Series, now time.Time) {
	id := doc.ID.String()
	if id == "" || !b.once("series", id) {
		return
	}
	b.Series = append(b.Series, seriesRow(doc, now))
	b.SeriesIDs = append(b.SeriesIDs, id)

	for i := range doc.Events {
		eid := doc.Events[i].ID.String()
		if eid == "" {
			continue
		}
		if b.once("event_stub", eid) {
			b.EventStubs = append(b.EventStubs, eventRow(&doc.Events[i], now))
		}
		if b.once("series_event", id+"|"+eid) {
			b.SeriesEvents = append(b.SeriesEvents, models.SeriesEvent{SeriesID: id, EventID: eid})
		}
	}
	for i := range doc.Collections {
		cid := doc.Collections[i].ID.String()
		if cid == "" {
			continue
		}
		b.addCollection(&doc.Collections[i], now)
		if b.once("series_collection", id+"|"+cid) {
			b.SeriesCollections = append(b.SeriesCollections, models.SeriesCollection{SeriesID: id, CollectionID: cid})
		}
	}
	for i := range doc.Categories {
		cid := doc.Categories[i].ID.String()
		if cid == "" {
			continue
		}
		b.addCategory(&doc.Categories[i], now)
		if b.once("series_category", id+"|"+cid) {
			b.SeriesCategories = append(b.SeriesCategories, models.SeriesCategory{SeriesID: id, CategoryID: cid})
		}
	}
	for i := range doc.Chats {
		cid := doc.Chats[i].ID.String()
		if cid == "" {
			continue
		}
		b.addChat(&doc.Chats[i], now)
		if b.once("series_chat", id+"|"+cid) {
			b.SeriesChats = append(b.SeriesChats, models.SeriesChat{SeriesID: id, ChatID: cid})
		}
	}
	for i := range doc.Tags {
		tid := doc.Tags[i].ID.String()
		if tid == "" {
			continue
		}
		b.AddTag(&doc.Tags[i], now)
		if b.once("series_tag", id+"|"+tid) {
			b.SeriesTags = append(b.SeriesTags, models.SeriesTag{SeriesID: id, TagID: tid})
		}
	}
}

func (b *Batch) AddTag(doc *gamma.Tag, now time.Time) {
	id := doc.ID.String()
	if id == "" || !b.once("tag", id) {
		return
	}
	b.Tags = append(b.Tags, tagRow(doc, now))
}

func (b *Batch) addCollection(doc *gamma.Collection, now time.Time) {
	id := doc.ID.String()
	if id == "" || !b.once("collection", id) {
		return
	}
	b.Collections = append(b.Collections, models.Collection{
		ID:                id,
		Ticker:            strPtr(doc.Ticker),
		Slug:              strPtr(doc.Slug),
		Title:             strPtr(doc.Title),
		Subtitle:          strPtr(doc.Subtitle),
		CollectionType:    strPtr(doc.CollectionType),
		Description:       strPtr(doc.Description),
		Image:             strPtr(doc.Image),
		Icon:              strPtr(doc.Icon),
		ExternalCreatedAt: tsPtr(doc.CreatedAt),
		ExternalUpdatedAt: tsPtr(doc.UpdatedAt),
		FetchedAt:         now,
		RawJSON:           mustJSON(doc),
	})
}

func (b *Batch) addCategory(doc *gamma.Category, now time.Time) {
	id := doc.ID.String()
	if id == "" || !b.once("category", id) {
		return
	}
	b.Categories = append(b.Categories, models.Category{
		ID:                id,
		Label:             strPtr(doc.Label),
		Slug:              strPtr(doc.Slug),
		ParentCategoryID:  strPtr(doc.ParentCategoryID.String()),
		ExternalCreatedAt: tsPtr(doc.CreatedAt),
		ExternalUpdatedAt: tsPtr(doc.UpdatedAt),
		FetchedAt:         now,
		RawJSON:           mustJSON(doc),
	})
}

func (b *Batch) addChat(doc *gamma.Chat, now time.Time) {
	id := doc.ID.String()
	if id == "" || !b.once("chat", id) {
		return
	}
	b.Chats = append(b.Chats, models.Chat{
		ID:        id,
		ChannelID: strPtr(doc.ChannelID),
		Title:     strPtr(doc.Title),
		ChatType:  strPtr(doc.ChatType),
		FetchedAt: now,
		RawJSON:   mustJSON(doc),
	})
}

// MapRelatedTags turns the related-tags edges for one tag into relationship
// rows. Edges missing a source id inherit tagID; self loops and edges with no
// counterpart are dropped.
func MapRelatedTags(tagID string, edges []gamma.RelatedTag) []models.TagRelationship {
	seen := make(map[string]bool, len(edges))
	out := make([]models.TagRelationship, 0, len(edges))
	for i := range edges {
		src := edges[i].TagID.String()
		if src == "" {
			src = tagID
		}
		dst := edges[i].RelatedTagID.String()
		if src == "" || dst == "" || src == dst {
			continue
		}
		key := src + "|" + dst
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.TagRelationship{
			TagID:        src,
			RelatedTagID: dst,
			Rank:         numInt(edges[i].Rank),
		})
	}
	return out
}

func eventRow(doc *gamma.Event, now time.Time) models.Event {
	return models.Event{
		ID:                doc.ID.String(),
		Ticker:            strPtr(doc.Ticker),
		Slug:              doc.Slug,
		Title:             doc.Title,
		Description:       strPtr(doc.Description),
		Image:             strPtr(doc.Image),
		Icon:              strPtr(doc.Icon),
		Liquidity:         numDecimal(doc.Liquidity),
		Volume:            numDecimal(doc.Volume),
		Volume24hr:        numDecimal(doc.Volume24hr),
		Volume1wk:         numDecimal(doc.Volume1wk),
		Volume1mo:         numDecimal(doc.Volume1mo),
		Volume1yr:         numDecimal(doc.Volume1yr),
		OpenInterest:      numDecimal(doc.OpenInterest),
		Competitive:       numFloat(doc.Competitive),
		CommentCount:      numInt(doc.CommentCount),
		Active:            doc.Active.Bool(),
		Closed:            doc.Closed.Bool(),
		Archived:          flagPtr(doc.Archived),
		New:               flagPtr(doc.New),
		Featured:          flagPtr(doc.Featured),
		Restricted:        flagPtr(doc.Restricted),
		EnableOrderBook:   flagPtr(doc.EnableOrderBook),
		EnableNegRisk:     flagPtr(doc.EnableNegRisk),
		Cyom:              flagPtr(doc.Cyom),
		StartDate:         tsPtr(doc.StartDate),
		EndDate:           tsPtr(doc.EndDate),
		CreationDate:      tsPtr(doc.CreationDate),
		ExternalCreatedAt: tsPtr(doc.CreatedAt),
		ExternalUpdatedAt: tsPtr(doc.UpdatedAt),
		FetchedAt:         now,
		RawJSON:           mustJSON(doc),
	}
}

func marketRow(doc *gamma.Market, eventID string, now time.Time) models.Market {
	return models.Market{
		ID:                    doc.ID.String(),
		EventID:               eventID,
		Question:              doc.Question,
		ConditionID:           doc.ConditionID,
		Slug:                  strPtr(doc.Slug),
		Description:           strPtr(doc.Description),
		ResolutionSource:      strPtr(doc.ResolutionSource),
		Outcomes:              strPtr(doc.Outcomes),
		OutcomePrices:         strPtr(doc.OutcomePrices),
		ClobTokenIDs:          strPtr(doc.ClobTokenIDs),
		GroupItemTitle:        strPtr(doc.GroupItemTitle),
		MarketMakerAddress:    strPtr(doc.MarketMakerAddress),
		Liquidity:             numDecimal(doc.Liquidity),
		Volume:                numDecimal(doc.Volume),
		Volume24hr:            numDecimal(doc.Volume24hr),
		Volume1wk:             numDecimal(doc.Volume1wk),
		Volume1mo:             numDecimal(doc.Volume1mo),
		Volume1yr:             numDecimal(doc.Volume1yr),
		LastTradePrice:        numDecimal(doc.LastTradePrice),
		BestBid:               numDecimal(doc.BestBid),
		BestAsk:               numDecimal(doc.BestAsk),
		Spread:                numDecimal(doc.Spread),
		OneDayPriceChange:     numFloat(doc.OneDayPriceChange),
		OneWeekPriceChange:    numFloat(doc.OneWeekPriceChange),
		OrderPriceMinTickSize: numFloat(doc.OrderPriceMinTickSize),
		OrderMinSize:          numFloat(doc.OrderMinSize),
		Active:                doc.Active.Bool(),
		Closed:                doc.Closed.Bool(),
		Archived:              flagPtr(doc.Archived),
		New:                   flagPtr(doc.New),
		Featured:              flagPtr(doc.Featured),
		Restricted:            flagPtr(doc.Restricted),
		AcceptingOrders:       flagPtr(doc.AcceptingOrders),
		EnableOrderBook:       flagPtr(doc.EnableOrderBook),
		NegRisk:               flagPtr(doc.NegRisk),
		StartDate:             tsPtr(doc.StartDate),
		EndDate:               tsPtr(doc.EndDate),
		ExternalCreatedAt:     tsPtr(doc.CreatedAt),
		ExternalUpdatedAt:     tsPtr(doc.UpdatedAt),
		FetchedAt:             now,
		RawJSON:               mustJSON(doc),
	}
}

func tagRow(doc *gamma.Tag, now time.Time) models.Tag {
	return models.Tag{
		ID:                doc.ID.String(),
		Label:             doc.Label,
		Slug:              doc.Slug,
		ForceShow:         flagPtr(doc.ForceShow),
		ForceHide:         flagPtr(doc.ForceHide),
		IsCarousel:        flagPtr(doc.IsCarousel),
		PublishedAt:       tsPtr(doc.PublishedAt),
		ExternalCreatedAt: tsPtr(doc.CreatedAt),
		ExternalUpdatedAt: tsPtr(doc.UpdatedAt),
		FetchedAt:         now,
		RawJSON:           mustJSON(doc),
	}
}

func seriesRow(doc *gamma.Series, now time.Time) models.Series {
	return models.Series{
		ID:                doc.ID.String(),
		Ticker:            strPtr(doc.Ticker),
		Slug:              strPtr(doc.Slug),
		Title:             doc.Title,
		Subtitle:          strPtr(doc.Subtitle),
		SeriesType:        strPtr(doc.SeriesType),
		Recurrence:        strPtr(doc.Recurrence),
		Description:       strPtr(doc.Description),
		Image:             strPtr(doc.Image),
		Icon:              strPtr(doc.Icon),
		Layout:            strPtr(doc.Layout),
		Liquidity:         numDecimal(doc.Liquidity),
		Volume:            numDecimal(doc.Volume),
		Volume24hr:        numDecimal(doc.Volume24hr),
		Competitive:       numFloat(doc.Competitive),
		CommentCount:      numInt(doc.CommentCount),
		Active:            doc.Active.Bool(),
		Closed:            doc.Closed.Bool(),
		Archived:          flagPtr(doc.Archived),
		New:               flagPtr(doc.New),
		Featured:          flagPtr(doc.Featured),
		Restricted:        flagPtr(doc.Restricted),
		StartDate:         tsPtr(doc.StartDate),
		ExternalCreatedAt: tsPtr(doc.CreatedAt),
		ExternalUpdatedAt: tsPtr(doc.UpdatedAt),
		FetchedAt:         now,
		RawJSON:           mustJSON(doc),
	}
}
