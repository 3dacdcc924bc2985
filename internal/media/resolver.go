// Package media resolves the primary image, logo and related-image
// gallery. Every failure here degrades to empty output; media never fails
// a request.
package media

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/wiki"
)

// iconLikePattern rejects decorative files by name
var iconLikePattern = regexp.MustCompile(`(?i)(icon|symbol|flag|logo)`)

// Lister is the slice of the wiki client the resolver depends on
type Lister interface {
	ListImages(ctx context.Context, title string, pageSize, maxPages int) ([]wiki.ImageInfo, error)
	FilePathURL(filename string, width int) string
	ThumbWidth() int
}

// Resolver resolves media for one record
type Resolver struct {
	lister Lister
	cfg    model.MediaConfig
	logger *zap.Logger
}

// New creates a media Resolver
func New(lister Lister, cfg model.MediaConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &Resolver{lister: lister, cfg: cfg, logger: logger}
}

// Resolve returns the media set for a subject. The gallery listing is
// skipped for entities with no concrete classification, to bound request
// cost.
func (r *Resolver) Resolve(ctx context.Context, title string, claims model.ClaimGraph, classification model.Classification, summary *model.SummaryRecord) model.Media {
	result := model.Media{
		Logo:  r.claimedFile(claims, model.PropLogo),
		Image: r.claimedFile(claims, model.PropImage),
	}
	if result.Image == "" && summary != nil {
		result.Image = summary.LeadImage
	}

	if r.galleryWorthwhile(classification) {
		result.RelatedImages = r.relatedImages(ctx, title)
	}
	return result
}

// claimedFile renders an entity-declared file claim into a thumbnail URL
func (r *Resolver) claimedFile(claims model.ClaimGraph, code string) string {
	list := claims[code]
	if len(list) == 0 {
		return ""
	}
	name, ok := list[0].MainSnak.DataValue.StringValue()
	if !ok || name == "" {
		return ""
	}
	return r.lister.FilePathURL(name, r.lister.ThumbWidth())
}

// relatedImages lists and filters the gallery, degrading to nil on error
func (r *Resolver) relatedImages(ctx context.Context, title string) []string {
	images, err := r.lister.ListImages(ctx, title, r.cfg.PageSize, r.cfg.MaxPages)
	if err != nil {
		r.logger.Warn("image listing failed", zap.String("title", title), zap.Error(err))
		return nil
	}

	var urls []string
	for _, img := range images {
		if !r.keep(img) {
			continue
		}
		urls = append(urls, img.URL)
	}
	return urls
}

// keep applies the gallery filters: minimum width, decorative filenames,
// vector-only formats.
func (r *Resolver) keep(img wiki.ImageInfo) bool {
	if img.URL == "" || img.Width < r.cfg.MinWidth {
		return false
	}
	if iconLikePattern.MatchString(img.Title) {
		return false
	}
	if img.Mime == "image/svg+xml" || strings.HasSuffix(strings.ToLower(img.URL), ".svg") {
		return false
	}
	return true
}

// galleryWorthwhile reports whether the subject merits a listing call
func (r *Resolver) galleryWorthwhile(classification model.Classification) bool {
	return classification.Has(model.CategoryHuman) ||
		classification.Has(model.CategoryCountry) ||
		classification.Has(model.CategoryCompany)
}
