// Package curate selects which fields apply to a classification, backfills
// sparse results, relabels generically-discovered fields and filters noise.
package curate

import (
	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/project"
)

// FieldSpec describes one curated infobox field: which property feeds it,
// how its claims are projected, and which categories it applies to.
type FieldSpec struct {
	Code    string
	Label   string
	Options project.Options
}

// defaultExcludedAwards filters ceremonial award labels out of the Awards
// field before listing.
var defaultExcludedAwards = []string{
	"Honorary doctorate",
	"Honorary citizenship",
}

// genericSpecs apply regardless of classification.
var genericSpecs = []FieldSpec{
	{Code: "P571", Label: "Founded", Options: project.Options{IsDate: true}},
	{Code: "P577", Label: "Released", Options: project.Options{IsDate: true}},
	{Code: "P101", Label: "Field", Options: project.Options{IsList: true}},
}

var countrySpecs = []FieldSpec{
	{Code: "P36", Label: "Capital"},
	{Code: "P35", Label: "President", Options: project.Options{LatestOnly: true}},
	{Code: "P6", Label: "Prime Minister", Options: project.Options{LatestOnly: true}},
	{Code: "P1082", Label: "Population", Options: project.Options{IsQuantity: true, LatestOnly: true}},
	{Code: "P30", Label: "Continent"},
}

var companySpecs = []FieldSpec{
	{Code: "P112", Label: "Founders", Options: project.Options{IsList: true}},
	{Code: "P169", Label: "CEO", Options: project.Options{LatestOnly: true}},
	{Code: "P159", Label: "Headquarters"},
	{Code: "P17", Label: "Country of Origin"},
	{Code: "P2541", Label: "Operating Regions", Options: project.Options{IsList: true}},
}

var humanSpecs = []FieldSpec{
	{Code: "P569", Label: "Born", Options: project.Options{IsDate: true}},
	{Code: "P570", Label: "Died", Options: project.Options{IsDate: true}},
	{Code: "P69", Label: "Education", Options: project.Options{IsList: true}},
	{Code: "P26", Label: "Spouse"},
	{Code: "P40", Label: "Children", Options: project.Options{IsList: true}},
	{Code: "P8810", Label: "Parents", Options: project.Options{IsList: true}},
	{Code: "P3373", Label: "Siblings", Options: project.Options{IsList: true}},
	{Code: "P27", Label: "Nationality"},
	{Code: "P106", Label: "Occupation", Options: project.Options{IsList: true}},
	{Code: "P166", Label: "Awards", Options: project.Options{IsList: true, ExcludeLabels: defaultExcludedAwards}},
	{Code: "P39", Label: "Positions Held", Options: project.Options{IsList: true, WithRange: true}},
}

// backfillSpecs is the secondary optional pool appended when the resolved
// field count falls below the configured minimum.
var backfillSpecs = []FieldSpec{
	{Code: model.PropWebsite, Label: "Website"},
	{Code: model.PropCoordinates, Label: "Coordinates"},
	{Code: "P102", Label: "Political Party", Options: project.Options{LatestOnly: true}},
	{Code: "P69", Label: "Education", Options: project.Options{IsList: true}},
	{Code: "P213", Label: "ISNI"},
}

// specsByCategory lists the category rule-sets in selection-priority order.
var specsByCategory = []struct {
	Category model.Category
	Specs    []FieldSpec
}{
	{model.CategoryCountry, countrySpecs},
	{model.CategoryCompany, companySpecs},
	{model.CategoryHuman, humanSpecs},
}

// relabelMap remaps raw property codes discovered by the generic pass to
// human labels. Codes outside this map never reach curated output.
var relabelMap = map[string]string{
	"P6":    "Prime Minister",
	"P35":   "President",
	"P1082": "Population",
	"P36":   "Capital",
	"P112":  "Founders",
	"P159":  "Headquarters",
	"P571":  "Founded",
	"P577":  "Released",
	"P17":   "Country",
}

// discoveryOptions are the projection options used for codes found by the
// generic discovery pass.
var discoveryOptions = map[string]project.Options{
	"P1082": {IsQuantity: true, LatestOnly: true},
	"P571":  {IsDate: true},
	"P577":  {IsDate: true},
	"P6":    {LatestOnly: true},
	"P35":   {LatestOnly: true},
}

// requiredCategory marks labels that only make sense for one category.
// A field resolved for an entity outside that category is dropped.
var requiredCategory = map[string]model.Category{
	"Country of Origin": model.CategoryCompany,
	"Country":           model.CategoryCompany,
	"CEO":               model.CategoryCompany,
	"Headquarters":      model.CategoryCompany,
	"Capital":           model.CategoryCountry,
	"Continent":         model.CategoryCountry,
	"Born":              model.CategoryHuman,
	"Died":              model.CategoryHuman,
	"Spouse":            model.CategoryHuman,
	"Education":         model.CategoryHuman,
}

// SelectFieldSpecs returns the ordered spec list for a classification:
// the generic set plus every matching category set (union policy), or
// plus only the first matching set (priority policy).
func SelectFieldSpecs(classification model.Classification, policy model.FieldPolicy) []FieldSpec {
	specs := make([]FieldSpec, 0, len(genericSpecs))
	specs = append(specs, genericSpecs...)

	for _, entry := range specsByCategory {
		if !classification.Has(entry.Category) {
			continue
		}
		specs = append(specs, entry.Specs...)
		if policy == model.PolicyPriority {
			break
		}
	}
	return specs
}
