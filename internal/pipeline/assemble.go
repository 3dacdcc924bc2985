package pipeline

import (
	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/wiki"
)

const sourceTag = "Wikipedia & Wikidata"

// compose builds the final record from already-resolved parts. Pure: no
// I/O, cannot fail given well-formed inputs.
func compose(query string, summary *model.SummaryRecord, entity *wiki.Entity, fields []model.InfoboxField, mediaSet model.Media) *model.InfoboxRecord {
	label := entity.Label
	if label == "" {
		label = summary.Title
	}
	description := entity.Description
	if description == "" {
		description = summary.Description
	}
	if description == "" {
		description = "No description"
	}

	if fields == nil {
		fields = []model.InfoboxField{}
	}

	return &model.InfoboxRecord{
		Title:         summary.Title,
		Type:          label + " - " + description,
		Description:   summary.Extract,
		Image:         mediaSet.Image,
		Logo:          mediaSet.Logo,
		RelatedImages: mediaSet.RelatedImages,
		Infobox:       fields,
		Source:        sourceTag,
		URL:           summary.PageURL,
	}
}
