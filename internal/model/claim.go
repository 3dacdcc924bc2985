package model

import (
	"encoding/json"
	"strings"
)

// Well-known property codes used across classification and curation.
const (
	PropInstanceOf  = "P31"
	PropCoordinates = "P625"
	PropWebsite     = "P856"
	PropLogo        = "P154"
	PropImage       = "P18"
	PropStart       = "P580"
	PropEnd         = "P582"
)

// ClaimGraph maps a property code to its ordered claims. Order follows the
// source document and is preserved through projection.
type ClaimGraph map[string][]Claim

// Claim is one typed, optionally qualified assertion attached to an entity
type Claim struct {
	MainSnak   Snak              `json:"mainsnak"`
	Qualifiers map[string][]Snak `json:"qualifiers,omitempty"`
	Rank       string            `json:"rank,omitempty"`
}

// Snak is the smallest assertion unit: a snak type plus an optional value
type Snak struct {
	SnakType  string     `json:"snaktype"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// DataValue is a typed claim value. Value stays raw until a typed accessor
// decodes it, so unknown kinds pass through without breaking the graph.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Value kinds observed in the entity store.
const (
	ValueKindEntity   = "wikibase-entityid"
	ValueKindString   = "string"
	ValueKindMonoText = "monolingualtext"
	ValueKindTime     = "time"
	ValueKindQuantity = "quantity"
	ValueKindGlobe    = "globecoordinate"
)

// EntityID decodes a wikibase-entityid value and returns the referenced id
func (dv *DataValue) EntityID() (string, bool) {
	if dv == nil || dv.Type != ValueKindEntity {
		return "", false
	}
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(dv.Value, &v); err != nil || v.ID == "" {
		return "", false
	}
	return v.ID, true
}

// StringValue decodes a plain string or monolingualtext value
func (dv *DataValue) StringValue() (string, bool) {
	if dv == nil {
		return "", false
	}
	switch dv.Type {
	case ValueKindString:
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil {
			return "", false
		}
		return s, true
	case ValueKindMonoText:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil || v.Text == "" {
			return "", false
		}
		return v.Text, true
	}
	return "", false
}

// TimeValue decodes a time value. The raw form is Wikidata's
// "+1961-08-04T00:00:00Z" with precision and calendar metadata.
func (dv *DataValue) TimeValue() (string, bool) {
	if dv == nil || dv.Type != ValueKindTime {
		return "", false
	}
	var v struct {
		Time string `json:"time"`
	}
	if err := json.Unmarshal(dv.Value, &v); err != nil || v.Time == "" {
		return "", false
	}
	return v.Time, true
}

// QuantityAmount decodes a quantity value's amount string (e.g. "+1386639")
func (dv *DataValue) QuantityAmount() (string, bool) {
	if dv == nil || dv.Type != ValueKindQuantity {
		return "", false
	}
	var v struct {
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(dv.Value, &v); err != nil || v.Amount == "" {
		return "", false
	}
	return v.Amount, true
}

// Coordinate decodes a globe coordinate value
func (dv *DataValue) Coordinate() (lat, lon float64, ok bool) {
	if dv == nil || dv.Type != ValueKindGlobe {
		return 0, 0, false
	}
	var v struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.Unmarshal(dv.Value, &v); err != nil {
		return 0, 0, false
	}
	return v.Latitude, v.Longitude, true
}

// CalendarDate strips the sign, time-of-day and calendar metadata from a
// raw Wikidata timestamp, leaving the calendar-date portion.
func CalendarDate(raw string) string {
	s := strings.TrimPrefix(raw, "+")
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	return s
}

// Qualifier returns the first value of the given qualifier property
func (c Claim) Qualifier(code string) (*DataValue, bool) {
	snaks, ok := c.Qualifiers[code]
	if !ok || len(snaks) == 0 || snaks[0].DataValue == nil {
		return nil, false
	}
	return snaks[0].DataValue, true
}
