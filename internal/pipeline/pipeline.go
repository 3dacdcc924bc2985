// Package pipeline orchestrates one request: resolution, classification,
// concurrent field projection and media resolution, curation, assembly.
package pipeline

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ppiankov/wikibox/internal/cache"
	"github.com/ppiankov/wikibox/internal/classify"
	"github.com/ppiankov/wikibox/internal/curate"
	"github.com/ppiankov/wikibox/internal/media"
	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/project"
	"github.com/ppiankov/wikibox/internal/wiki"
)

// Pipeline answers subject queries. It is stateless across requests and
// safe for unbounded parallel invocations.
type Pipeline struct {
	client *wiki.Client
	media  *media.Resolver
	cfg    *model.Config
	logger *zap.Logger
}

// New creates a Pipeline from configuration
func New(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := wiki.NewClient(cfg)
	return &Pipeline{
		client: client,
		media:  media.New(client, cfg.Media, logger.Named("media")),
		cfg:    cfg,
		logger: logger,
	}
}

// Run produces the infobox record for one subject query
func (p *Pipeline) Run(ctx context.Context, query string) (*model.InfoboxRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.ErrEmptyQuery
	}

	// 1. Resolve summary and stable entity id (strictly ordered)
	summary, entityID, err := p.resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	// 2. Fetch the claim graph
	entity, err := p.client.Entity(ctx, entityID)
	if err != nil {
		if wiki.IsNotFound(err) {
			return nil, model.NotFound("claims")
		}
		return nil, model.UpstreamFailure("claims", err)
	}
	if len(entity.Claims) == 0 {
		return nil, model.NotFound("claims")
	}

	// 3. Classify once; immutable for the rest of the request
	classification := classify.Classify(entity.Claims)

	// 4. Project fields and resolve media concurrently. The label memo is
	// request-scoped: whatever this request learns dies with it.
	memo := cache.NewRequestScoped()
	projector := project.New(
		p.client.NewLabelResolver(memo),
		p.cfg.Concurrency.LabelWorkers,
		p.cfg.Wiki.Language,
	)
	curator := curate.New(projector, p.cfg.Infobox, p.cfg.Concurrency.FieldWorkers)

	var (
		wg       sync.WaitGroup
		fields   []model.InfoboxField
		mediaSet model.Media
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fields = curator.Curate(ctx, entity.Claims, classification, query, entityID)
	}()
	go func() {
		defer wg.Done()
		mediaSet = p.media.Resolve(ctx, summary.Title, entity.Claims, classification, summary)
	}()
	wg.Wait()

	// 5. Assemble
	return compose(query, summary, entity, fields, mediaSet), nil
}
