package gamma

import (
	"context"
	"net/url"
	"strconv"
)

// ListEventsParams addresses one page of /events. Filters mirror the query
// parameters Gamma accepts; nil pointers are omitted from the request.
type ListEventsParams struct {
	Page
	Order     string
	Ascending *bool
	Closed    *bool
	TagID     *int
}

func (c *Client) ListEvents(ctx context.Context, p ListEventsParams) ([]Event, error) {
	q := p.values()
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	setBool(q, "ascending", p.Ascending)
	setBool(q, "closed", p.Closed)
	if p.TagID != nil {
		q.Set("tag_id", strconv.Itoa(*p.TagID))
	}

	var out []Event
	if err := c.getJSON(ctx, "/events", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var out Event
	if err := c.getJSON(ctx, "/events/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMarket(ctx context.Context, id string, includeTag bool) (*Market, error) {
	q := url.Values{}
	if includeTag {
		q.Set("include_tag", "true")
	}
	var out Market
	if err := c.getJSON(ctx, "/markets/"+url.PathEscape(id), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTags(ctx context.Context, p Page) ([]Tag, error) {
	var out []Tag
	if err := c.getJSON(ctx, "/tags", p.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTag(ctx context.Context, id string, includeTemplate bool) (*Tag, error) {
	q := url.Values{}
	if includeTemplate {
		q.Set("include_template", "true")
	}
	var out Tag
	if err := c.getJSON(ctx, "/tags/"+url.PathEscape(id), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RelatedTags lists the relationship edges for one tag. status=all keeps
// edges whose counterpart tag is inactive; omit_empty drops padding entries
// the endpoint otherwise emits.
func (c *Client) RelatedTags(ctx context.Context, id string) ([]RelatedTag, error) {
	q := url.Values{}
	q.Set("status", "all")
	q.Set("omit_empty", "true")

	var out []RelatedTag
	if err := c.getJSON(ctx, "/tags/"+url.PathEscape(id)+"/related-tags", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type ListSeriesParams struct {
	Page
	Order       string
	Ascending   *bool
	Closed      *bool
	IncludeChat bool
}

func (c *Client) ListSeries(ctx context.Context, p ListSeriesParams) ([]Series, error) {
	q := p.values()
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	setBool(q, "ascending", p.Ascending)
	setBool(q, "closed", p.Closed)
	if p.IncludeChat {
		q.Set("include_chat", "true")
	}

	var out []Series
	if err := c.getJSON(ctx, "/series", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCommentsParams addresses one page of /comments for a single parent
// entity. ParentEntityType is "Event", "market" or "Series" as Gamma spells
// them.
type ListCommentsParams struct {
	Page
	ParentEntityType string
	ParentEntityID   string
	Order            string
	Ascending        *bool
}

func (c *Client) ListComments(ctx context.Context, p ListCommentsParams) ([]Comment, error) {
	q := p.values()
	q.Set("parent_entity_type", p.ParentEntityType)
	q.Set("parent_entity_id", p.ParentEntityID)
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	setBool(q, "ascending", p.Ascending)

	var out []Comment
	if err := c.getJSON(ctx, "/comments", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CommentReactions(ctx context.Context, id string) ([]Reaction, error) {
	var out []Reaction
	if err := c.getJSON(ctx, "/comments/"+url.PathEscape(id)+"/reactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSeries(ctx context.Context, id string, includeChat bool) (*Series, error) {
	q := url.Values{}
	if includeChat {
		q.Set("include_chat", "true")
	}
	var out Series
	if err := c.getJSON(ctx, "/series/"+url.PathEscape(id), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
