package project

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/wikibox/internal/model"
)

// fakeLabels resolves labels from a map and counts lookups
type fakeLabels struct {
	mu     sync.Mutex
	labels map[string]string
	calls  int
}

func (f *fakeLabels) Label(_ context.Context, id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if label, ok := f.labels[id]; ok {
		return label
	}
	return "Unknown"
}

func entityClaim(id string) model.Claim {
	return model.Claim{MainSnak: model.Snak{
		SnakType: "value",
		DataValue: &model.DataValue{
			Type:  model.ValueKindEntity,
			Value: json.RawMessage(fmt.Sprintf(`{"entity-type":"item","id":%q}`, id)),
		},
	}}
}

func stringClaim(s string) model.Claim {
	return model.Claim{MainSnak: model.Snak{
		SnakType: "value",
		DataValue: &model.DataValue{
			Type:  model.ValueKindString,
			Value: json.RawMessage(fmt.Sprintf("%q", s)),
		},
	}}
}

func timeClaim(ts string) model.Claim {
	return model.Claim{MainSnak: model.Snak{
		SnakType: "value",
		DataValue: &model.DataValue{
			Type:  model.ValueKindTime,
			Value: json.RawMessage(fmt.Sprintf(`{"time":%q,"precision":11}`, ts)),
		},
	}}
}

func quantityClaim(amount string) model.Claim {
	return model.Claim{MainSnak: model.Snak{
		SnakType: "value",
		DataValue: &model.DataValue{
			Type:  model.ValueKindQuantity,
			Value: json.RawMessage(fmt.Sprintf(`{"amount":%q,"unit":"1"}`, amount)),
		},
	}}
}

func withQualifier(claim model.Claim, code, ts string) model.Claim {
	if claim.Qualifiers == nil {
		claim.Qualifiers = make(map[string][]model.Snak)
	}
	claim.Qualifiers[code] = []model.Snak{{
		SnakType: "value",
		DataValue: &model.DataValue{
			Type:  model.ValueKindTime,
			Value: json.RawMessage(fmt.Sprintf(`{"time":%q,"precision":11}`, ts)),
		},
	}}
	return claim
}

func newTestProjector(labels map[string]string) (*Projector, *fakeLabels) {
	fake := &fakeLabels{labels: labels}
	return New(fake, 4, "en"), fake
}

func TestResolveFieldAbsentProperty(t *testing.T) {
	p, _ := newTestProjector(nil)

	_, ok := p.ResolveField(context.Background(), model.ClaimGraph{}, "P36", "Capital", Options{})
	assert.False(t, ok, "a property with zero claims must be absent, not empty")
}

func TestResolveFieldDate(t *testing.T) {
	p, _ := newTestProjector(nil)
	claims := model.ClaimGraph{"P569": {timeClaim("+1960-11-01T00:00:00Z")}}

	field, ok := p.ResolveField(context.Background(), claims, "P569", "Born", Options{IsDate: true})
	require.True(t, ok)
	assert.Equal(t, "Born", field.Label)
	assert.Equal(t, "1960-11-01", field.Value)
}

func TestResolveFieldQuantityGrouping(t *testing.T) {
	p, _ := newTestProjector(nil)
	claims := model.ClaimGraph{"P1082": {quantityClaim("+10562088")}}

	field, ok := p.ResolveField(context.Background(), claims, "P1082", "Population", Options{IsQuantity: true})
	require.True(t, ok)
	assert.Equal(t, "10,562,088", field.Value)
}

func TestResolveFieldEntityReferences(t *testing.T) {
	p, fake := newTestProjector(map[string]string{"Q1": "Jakarta", "Q2": "Bandung"})
	claims := model.ClaimGraph{"P150": {entityClaim("Q1"), entityClaim("Q2")}}

	field, ok := p.ResolveField(context.Background(), claims, "P150", "Divisions", Options{})
	require.True(t, ok)
	assert.Equal(t, "Jakarta, Bandung", field.Value, "multiple non-list claims join with comma-space")
	assert.Equal(t, 2, fake.calls)
}

func TestResolveFieldUnknownFallback(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q1": "Jakarta"})
	claims := model.ClaimGraph{"P36": {entityClaim("Q404")}}

	field, ok := p.ResolveField(context.Background(), claims, "P36", "Capital", Options{})
	require.True(t, ok)
	assert.Equal(t, "Unknown", field.Value, "a failed reference lookup degrades, never errors")
}

func TestResolveFieldListPreservesClaimOrder(t *testing.T) {
	p, _ := newTestProjector(map[string]string{
		"Q1": "First", "Q2": "Second", "Q3": "Third", "Q4": "Fourth",
		"Q5": "Fifth", "Q6": "Sixth", "Q7": "Seventh", "Q8": "Eighth",
	})
	var list []model.Claim
	for i := 1; i <= 8; i++ {
		list = append(list, entityClaim(fmt.Sprintf("Q%d", i)))
	}
	claims := model.ClaimGraph{"P40": list}

	field, ok := p.ResolveField(context.Background(), claims, "P40", "Children", Options{IsList: true})
	require.True(t, ok)
	assert.Equal(t, []string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth"}, field.Value)
}

func TestResolveFieldExcludeLabels(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q1": "Nobel Prize", "Q2": "Honorary doctorate"})
	claims := model.ClaimGraph{"P166": {entityClaim("Q1"), entityClaim("Q2")}}

	field, ok := p.ResolveField(context.Background(), claims, "P166", "Awards", Options{
		IsList:        true,
		ExcludeLabels: []string{"honorary doctorate"},
	})
	require.True(t, ok)
	assert.Equal(t, []string{"Nobel Prize"}, field.Value)
}

func TestResolveFieldExcludeAllValuesIsAbsent(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q2": "Honorary doctorate"})
	claims := model.ClaimGraph{"P166": {entityClaim("Q2")}}

	_, ok := p.ResolveField(context.Background(), claims, "P166", "Awards", Options{
		IsList:        true,
		ExcludeLabels: []string{"Honorary doctorate"},
	})
	assert.False(t, ok)
}

func TestResolveFieldLatestOnlyByStartQualifier(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q1": "Old CEO", "Q2": "New CEO"})
	claims := model.ClaimGraph{"P169": {
		withQualifier(entityClaim("Q2"), model.PropStart, "+2011-08-24T00:00:00Z"),
		withQualifier(entityClaim("Q1"), model.PropStart, "+1997-09-16T00:00:00Z"),
	}}

	field, ok := p.ResolveField(context.Background(), claims, "P169", "CEO", Options{LatestOnly: true})
	require.True(t, ok)
	assert.Equal(t, "New CEO", field.Value)
}

func TestResolveFieldLatestOnlyFallsBackToLastListed(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q1": "First", "Q2": "Last"})
	claims := model.ClaimGraph{"P169": {entityClaim("Q1"), entityClaim("Q2")}}

	field, ok := p.ResolveField(context.Background(), claims, "P169", "CEO", Options{LatestOnly: true})
	require.True(t, ok)
	assert.Equal(t, "Last", field.Value)
}

func TestResolveFieldQualifierRange(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q1": "Senator", "Q2": "President", "Q3": "Advisor"})
	closed := withQualifier(entityClaim("Q1"), model.PropStart, "+2005-01-03T00:00:00Z")
	closed = withQualifier(closed, model.PropEnd, "+2008-11-16T00:00:00Z")
	open := withQualifier(entityClaim("Q2"), model.PropStart, "+2009-01-20T00:00:00Z")
	unqualified := entityClaim("Q3")

	claims := model.ClaimGraph{"P39": {closed, open, unqualified}}

	field, ok := p.ResolveField(context.Background(), claims, "P39", "Positions Held", Options{IsList: true, WithRange: true})
	require.True(t, ok)
	assert.Equal(t, []string{
		"Senator (2005-01-03 - 2008-11-16)",
		"President (2009-01-20 - present)",
		"Advisor",
	}, field.Value)
}

func TestResolveFieldUnknownStartRange(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q1": "Chairman"})
	claim := withQualifier(entityClaim("Q1"), model.PropEnd, "+2000-01-01T00:00:00Z")
	claims := model.ClaimGraph{"P39": {claim}}

	field, ok := p.ResolveField(context.Background(), claims, "P39", "Positions Held", Options{IsList: true, WithRange: true})
	require.True(t, ok)
	assert.Equal(t, []string{"Chairman (? - 2000-01-01)"}, field.Value)
}

func TestResolveFieldScalarPassthrough(t *testing.T) {
	p, _ := newTestProjector(nil)
	claims := model.ClaimGraph{"P856": {stringClaim("https://www.apple.com")}}

	field, ok := p.ResolveField(context.Background(), claims, "P856", "Website", Options{})
	require.True(t, ok)
	assert.Equal(t, "https://www.apple.com", field.Value)
}

func TestResolveFieldSingleValueNotJoined(t *testing.T) {
	p, _ := newTestProjector(map[string]string{"Q1": "Asia"})
	claims := model.ClaimGraph{"P30": {entityClaim("Q1")}}

	field, ok := p.ResolveField(context.Background(), claims, "P30", "Continent", Options{})
	require.True(t, ok)
	assert.Equal(t, "Asia", field.Value)
}

func TestCalendarDateStripsMetadata(t *testing.T) {
	assert.Equal(t, "1961-08-04", model.CalendarDate("+1961-08-04T00:00:00Z"))
	assert.Equal(t, "2020-01-01", model.CalendarDate("2020-01-01"))
}
