// Package project turns raw claims into display-ready infobox fields:
// nested reference-label resolution, date and quantity formatting, list
// handling and qualifier-derived range annotation.
package project

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ppiankov/wikibox/internal/model"
)

// LabelSource resolves a referenced entity's display label. The fallback
// for unresolvable references is part of the returned value, never an
// error.
type LabelSource interface {
	Label(ctx context.Context, id string) string
}

// Options controls how one field's claims are projected
type Options struct {
	IsDate        bool
	IsQuantity    bool
	IsList        bool
	LatestOnly    bool
	WithRange     bool
	ExcludeLabels []string
}

// Projector resolves claim values into infobox fields
type Projector struct {
	labels  LabelSource
	workers int
	printer *message.Printer
}

// New creates a Projector. workers bounds concurrent reference-label
// lookups within a single field.
func New(labels LabelSource, workers int, lang string) *Projector {
	if workers <= 0 {
		workers = 8
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Projector{
		labels:  labels,
		workers: workers,
		printer: message.NewPrinter(tag),
	}
}

// ResolveField projects the claims under code into a labeled field.
// The second return is false when the property has no resolvable value;
// such fields are omitted, never emitted empty.
func (p *Projector) ResolveField(ctx context.Context, claims model.ClaimGraph, code, label string, opts Options) (model.InfoboxField, bool) {
	list := claims[code]
	if len(list) == 0 {
		return model.InfoboxField{}, false
	}

	if opts.LatestOnly {
		list = []model.Claim{latestClaim(list)}
	}

	if opts.IsDate {
		raw, ok := list[0].MainSnak.DataValue.TimeValue()
		if !ok {
			return model.InfoboxField{}, false
		}
		return model.NewField(label, model.CalendarDate(raw)), true
	}

	if opts.IsQuantity {
		amount, ok := list[0].MainSnak.DataValue.QuantityAmount()
		if !ok {
			return model.InfoboxField{}, false
		}
		formatted, ok := p.formatAmount(amount)
		if !ok {
			return model.InfoboxField{}, false
		}
		return model.NewField(label, formatted), true
	}

	values := p.resolveValues(ctx, list, opts)
	if len(values) == 0 {
		return model.InfoboxField{}, false
	}

	if opts.IsList {
		return model.NewListField(label, values), true
	}
	if len(values) == 1 {
		return model.NewField(label, values[0]), true
	}
	return model.NewField(label, strings.Join(values, ", ")), true
}

// resolveValues resolves every claim concurrently, preserving claim order
// in the result. Unresolvable claims are dropped; excluded labels are
// filtered after resolution.
func (p *Projector) resolveValues(ctx context.Context, list []model.Claim, opts Options) []string {
	slots := make([]string, len(list))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.workers)

	for i, claim := range list {
		wg.Add(1)
		go func(idx int, cl model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			value, ok := p.resolveOne(ctx, cl)
			if !ok {
				return
			}
			if opts.WithRange {
				if suffix, ok := activeRange(cl); ok {
					value += " (" + suffix + ")"
				}
			}
			slots[idx] = value
		}(i, claim)
	}
	wg.Wait()

	values := make([]string, 0, len(slots))
	for _, v := range slots {
		if v == "" || excluded(v, opts.ExcludeLabels) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// resolveOne renders a single claim value as display text
func (p *Projector) resolveOne(ctx context.Context, claim model.Claim) (string, bool) {
	dv := claim.MainSnak.DataValue
	if dv == nil {
		return "", false
	}

	if id, ok := dv.EntityID(); ok {
		return p.labels.Label(ctx, id), true
	}
	if s, ok := dv.StringValue(); ok {
		return s, true
	}
	if raw, ok := dv.TimeValue(); ok {
		return model.CalendarDate(raw), true
	}
	if amount, ok := dv.QuantityAmount(); ok {
		if formatted, ok := p.formatAmount(amount); ok {
			return formatted, true
		}
		return "", false
	}
	if lat, lon, ok := dv.Coordinate(); ok {
		return strconv.FormatFloat(lat, 'f', -1, 64) + ", " + strconv.FormatFloat(lon, 'f', -1, 64), true
	}
	return "", false
}

// formatAmount renders a raw quantity amount with locale grouping
func (p *Projector) formatAmount(amount string) (string, bool) {
	trimmed := strings.TrimPrefix(amount, "+")
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return p.printer.Sprintf("%d", n), true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "", false
	}
	return p.printer.Sprint(number.Decimal(f)), true
}

// latestClaim picks the claim with the most recent start qualifier, or
// the last-listed claim when no start qualifiers are present.
func latestClaim(list []model.Claim) model.Claim {
	best := -1
	bestStart := ""
	for i, claim := range list {
		dv, ok := claim.Qualifier(model.PropStart)
		if !ok {
			continue
		}
		raw, ok := dv.TimeValue()
		if !ok {
			continue
		}
		start := model.CalendarDate(raw)
		if best == -1 || start > bestStart {
			best = i
			bestStart = start
		}
	}
	if best >= 0 {
		return list[best]
	}
	return list[len(list)-1]
}

// openEndedRange is the placeholder for a role that is still held
const openEndedRange = "present"

// activeRange formats the start/end qualifier pair. It reports false when
// the claim carries neither qualifier.
func activeRange(claim model.Claim) (string, bool) {
	start := "?"
	end := openEndedRange
	found := false

	if dv, ok := claim.Qualifier(model.PropStart); ok {
		if raw, ok := dv.TimeValue(); ok {
			start = model.CalendarDate(raw)
			found = true
		}
	}
	if dv, ok := claim.Qualifier(model.PropEnd); ok {
		if raw, ok := dv.TimeValue(); ok {
			end = model.CalendarDate(raw)
			found = true
		}
	}
	if !found {
		return "", false
	}
	return start + " - " + end, true
}

func excluded(value string, blockList []string) bool {
	for _, blocked := range blockList {
		if strings.EqualFold(value, blocked) {
			return true
		}
	}
	return false
}
