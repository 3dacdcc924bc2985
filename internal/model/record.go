package model

// SummaryRecord is the canonical summary returned by the summary service
type SummaryRecord struct {
	Title       string
	Description string
	Extract     string
	PageID      int64
	LeadImage   string
	PageURL     string
}

// Category is one classification flag inferred from instance-of claims
type Category string

const (
	CategoryHuman        Category = "human"
	CategoryCountry      Category = "country"
	CategoryCompany      Category = "company"
	CategoryUnclassified Category = "unclassified"
)

// Classification is the inclusive category set for one entity. It is
// computed once per request and never mutated afterwards.
type Classification map[Category]bool

// Has reports whether the classification includes the category
func (c Classification) Has(cat Category) bool { return c[cat] }

// Categories returns the flags in a stable order
func (c Classification) Categories() []Category {
	var out []Category
	for _, cat := range []Category{CategoryCountry, CategoryCompany, CategoryHuman, CategoryUnclassified} {
		if c[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// InfoboxField is one labeled display value. Value holds either a string
// or an ordered []string for list-valued fields.
type InfoboxField struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// NewField builds a single-valued field
func NewField(label, value string) InfoboxField {
	return InfoboxField{Label: label, Value: value}
}

// NewListField builds a list-valued field
func NewListField(label string, values []string) InfoboxField {
	return InfoboxField{Label: label, Value: values}
}

// Text returns the single string value, or "" for list fields
func (f InfoboxField) Text() string {
	s, _ := f.Value.(string)
	return s
}

// Media holds the resolved image set for one record
type Media struct {
	Image         string
	Logo          string
	RelatedImages []string
}

// InfoboxRecord is the assembled response record
type InfoboxRecord struct {
	Title         string         `json:"title"`
	Type          string         `json:"type"`
	Description   string         `json:"description"`
	Image         string         `json:"image,omitempty"`
	Logo          string         `json:"logo,omitempty"`
	RelatedImages []string       `json:"related_images,omitempty"`
	Infobox       []InfoboxField `json:"infobox"`
	Source        string         `json:"source"`
	URL           string         `json:"url"`
}
