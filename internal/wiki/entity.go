package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ppiankov/wikibox/internal/cache"
	"github.com/ppiankov/wikibox/internal/model"
)

// UnknownLabel is the fallback for a referenced entity whose display label
// cannot be resolved. The fallback is part of the return value, never an
// error, so one bad reference cannot fail a field.
const UnknownLabel = "Unknown"

// EntityID looks up the stable entity id for a page via the
// page-properties service. The empty string means the page has none.
func (c *Client) EntityID(ctx context.Context, pageID int64) (string, error) {
	endpoint := fmt.Sprintf("%s?action=query&prop=pageprops&pageids=%d&format=json", c.cfg.ActionBase, pageID)

	var resp struct {
		Query struct {
			Pages map[string]struct {
				PageProps struct {
					WikibaseItem string `json:"wikibase_item"`
				} `json:"pageprops"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return "", err
	}

	page, ok := resp.Query.Pages[strconv.FormatInt(pageID, 10)]
	if !ok {
		return "", nil
	}
	return page.PageProps.WikibaseItem, nil
}

// Entity is the claims, label and description of one stored entity
type Entity struct {
	ID          string
	Label       string
	Description string
	Claims      model.ClaimGraph
}

type entityDataResponse struct {
	Entities map[string]struct {
		Claims model.ClaimGraph `json:"claims"`
		Labels map[string]struct {
			Value string `json:"value"`
		} `json:"labels"`
		Descriptions map[string]struct {
			Value string `json:"value"`
		} `json:"descriptions"`
	} `json:"entities"`
}

// Entity fetches the full entity record for a stable entity id
func (c *Client) Entity(ctx context.Context, id string) (*Entity, error) {
	endpoint := c.cfg.EntityBase + "/" + url.PathEscape(id) + ".json"

	var resp entityDataResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	raw, ok := resp.Entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %s absent from response", id)
	}

	entity := &Entity{ID: id, Claims: raw.Claims}
	if l, ok := raw.Labels[c.cfg.Language]; ok {
		entity.Label = l.Value
	}
	if d, ok := raw.Descriptions[c.cfg.Language]; ok {
		entity.Description = d.Value
	}
	return entity, nil
}

// LabelResolver resolves referenced-entity display labels with a memo so
// the same entity is fetched at most once per request.
type LabelResolver struct {
	client *Client
	memo   cache.Cache
}

// NewLabelResolver creates a resolver backed by the given memo cache
func (c *Client) NewLabelResolver(memo cache.Cache) *LabelResolver {
	return &LabelResolver{client: c, memo: memo}
}

// Label returns the display label for id in the target language. Any
// failure degrades to UnknownLabel.
func (r *LabelResolver) Label(ctx context.Context, id string) string {
	key := cache.LabelKey(id, r.client.cfg.Language)
	if label, ok := r.memo.Get(key); ok {
		return label
	}

	entity, err := r.client.Entity(ctx, id)
	if err != nil || entity.Label == "" {
		r.memo.Set(key, UnknownLabel)
		return UnknownLabel
	}
	r.memo.Set(key, entity.Label)
	return entity.Label
}
