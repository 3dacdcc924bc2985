// Package classify infers category flags from an entity's instance-of
// claims. The flags are inclusive: an entity may be several categories at
// once, and field selection merges every matching rule-set.
package classify

import (
	"github.com/ppiankov/wikibox/internal/model"
)

// Fixed stable identifiers, one per category.
const (
	idHuman   = "Q5"
	idCountry = "Q6256"
	idCompany = "Q4830453"
)

var categoryByID = map[string]model.Category{
	idHuman:   model.CategoryHuman,
	idCountry: model.CategoryCountry,
	idCompany: model.CategoryCompany,
}

// Classify inspects the instance-of claims and returns the inclusive
// category set. Entities with no recognized instance-of membership are
// Unclassified.
func Classify(claims model.ClaimGraph) model.Classification {
	result := make(model.Classification)

	for _, claim := range claims[model.PropInstanceOf] {
		id, ok := claim.MainSnak.DataValue.EntityID()
		if !ok {
			continue
		}
		if cat, known := categoryByID[id]; known {
			result[cat] = true
		}
	}

	if len(result) == 0 {
		result[model.CategoryUnclassified] = true
	}
	return result
}
