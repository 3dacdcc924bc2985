package pipeline

import (
	"context"

	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/wiki"
)

// resolve turns a raw subject query into a summary record and a stable
// entity id. The two calls are strictly ordered: the page id from the
// summary feeds the page-properties lookup. No retry.
func (p *Pipeline) resolve(ctx context.Context, query string) (*model.SummaryRecord, string, error) {
	summary, err := p.client.Summary(ctx, query)
	if err != nil {
		if wiki.IsNotFound(err) {
			return nil, "", model.NotFound("summary")
		}
		return nil, "", model.UpstreamFailure("summary", err)
	}

	entityID, err := p.client.EntityID(ctx, summary.PageID)
	if err != nil {
		return nil, "", model.UpstreamFailure("entity-id", err)
	}
	if entityID == "" {
		return nil, "", model.NotFound("entity-id")
	}
	return summary, entityID, nil
}
