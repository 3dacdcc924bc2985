package curate

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/project"
)

// FieldResolver projects one property's claims into a field. Satisfied by
// project.Projector.
type FieldResolver interface {
	ResolveField(ctx context.Context, claims model.ClaimGraph, code, label string, opts project.Options) (model.InfoboxField, bool)
}

// Curator owns field selection, backfill and the noise filters
type Curator struct {
	resolver  FieldResolver
	minFields int
	policy    model.FieldPolicy
	workers   int
}

// New creates a Curator. workers bounds concurrent field resolutions.
func New(resolver FieldResolver, cfg model.InfoboxConfig, workers int) *Curator {
	if workers <= 0 {
		workers = 8
	}
	minFields := cfg.MinFields
	if minFields <= 0 {
		minFields = 3
	}
	policy := cfg.Policy
	if policy == "" {
		policy = model.PolicyUnion
	}
	return &Curator{resolver: resolver, minFields: minFields, policy: policy, workers: workers}
}

// Curate resolves and filters the infobox fields for one entity. The
// returned labels are unique and ordering follows spec order, then
// discovery order, then backfill order.
func (c *Curator) Curate(ctx context.Context, claims model.ClaimGraph, classification model.Classification, query, entityID string) []model.InfoboxField {
	specs := SelectFieldSpecs(classification, c.policy)

	fields := c.resolveSpecs(ctx, claims, specs)
	fields = append(fields, c.discover(ctx, claims, specs)...)
	fields = filterNoise(fields, classification, query)
	fields = dedupeLabels(fields)

	if len(fields) < c.minFields {
		extra := c.resolveSpecs(ctx, claims, backfillSpecs)
		extra = filterNoise(extra, classification, query)
		fields = dedupeLabels(append(fields, extra...))
	}
	if len(fields) < c.minFields && entityID != "" {
		fields = append(fields, model.NewField("Wikidata ID", entityID))
	}
	return fields
}

// resolveSpecs resolves every spec concurrently, keeping spec order via
// indexed slots.
func (c *Curator) resolveSpecs(ctx context.Context, claims model.ClaimGraph, specs []FieldSpec) []model.InfoboxField {
	type slot struct {
		field model.InfoboxField
		ok    bool
	}
	slots := make([]slot, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, spec := range specs {
		g.Go(func() error {
			field, ok := c.resolver.ResolveField(gctx, claims, spec.Code, spec.Label, spec.Options)
			slots[i] = slot{field: field, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	fields := make([]model.InfoboxField, 0, len(slots))
	for _, s := range slots {
		if s.ok {
			fields = append(fields, s.field)
		}
	}
	return fields
}

// discover runs the broad lower-priority pass over every property code
// present in the graph that no curated spec already covers. Only codes
// with a known relabeling reach the output; raw codes never leak.
func (c *Curator) discover(ctx context.Context, claims model.ClaimGraph, covered []FieldSpec) []model.InfoboxField {
	coveredCodes := make(map[string]bool, len(covered))
	for _, spec := range covered {
		coveredCodes[spec.Code] = true
	}

	var specs []FieldSpec
	codes := make([]string, 0, len(claims))
	for code := range claims {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if coveredCodes[code] {
			continue
		}
		label, known := relabelMap[code]
		if !known {
			continue
		}
		specs = append(specs, FieldSpec{Code: code, Label: label, Options: discoveryOptions[code]})
	}
	return c.resolveSpecs(ctx, claims, specs)
}

// filterNoise applies the post-resolution drop rules: coordinates never
// surface, websites must contain the original query, and fields tied to a
// category the entity lacks are removed.
func filterNoise(fields []model.InfoboxField, classification model.Classification, query string) []model.InfoboxField {
	loweredQuery := strings.ToLower(strings.TrimSpace(query))

	kept := fields[:0]
	for _, field := range fields {
		switch {
		case field.Label == "Coordinates":
			continue
		case field.Label == "Website" && !strings.Contains(strings.ToLower(field.Text()), loweredQuery):
			continue
		}
		if required, ok := requiredCategory[field.Label]; ok && !classification.Has(required) {
			continue
		}
		kept = append(kept, field)
	}
	return kept
}

// dedupeLabels keeps the first field for each label
func dedupeLabels(fields []model.InfoboxField) []model.InfoboxField {
	seen := make(map[string]bool, len(fields))
	unique := fields[:0]
	for _, field := range fields {
		if seen[field.Label] {
			continue
		}
		seen[field.Label] = true
		unique = append(unique, field)
	}
	return unique
}
