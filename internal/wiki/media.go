package wiki

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ImageInfo is one listed image with the metadata the gallery filter needs
type ImageInfo struct {
	Title  string
	URL    string
	Width  int
	Height int
	Mime   string
}

type imageListResponse struct {
	Continue struct {
		GimContinue string `json:"gimcontinue"`
	} `json:"continue"`
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			ImageInfo []struct {
				URL    string `json:"url"`
				Width  int    `json:"width"`
				Height int    `json:"height"`
				Mime   string `json:"mime"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// ListImages pages through the title-indexed image listing while the
// service returns a continuation token, up to maxPages listing calls.
// Each batch is sorted by file title; the page map itself is unordered.
func (c *Client) ListImages(ctx context.Context, title string, pageSize, maxPages int) ([]ImageInfo, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	var images []ImageInfo
	cont := ""
	for page := 0; page < maxPages; page++ {
		endpoint := fmt.Sprintf(
			"%s?action=query&generator=images&titles=%s&prop=imageinfo&iiprop=url%%7Csize%%7Cmime&gimlimit=%d&format=json",
			c.cfg.ActionBase, url.QueryEscape(title), pageSize)
		if cont != "" {
			endpoint += "&gimcontinue=" + url.QueryEscape(cont)
		}

		var resp imageListResponse
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, err
		}

		batch := make([]ImageInfo, 0, len(resp.Query.Pages))
		for _, p := range resp.Query.Pages {
			if len(p.ImageInfo) == 0 {
				continue
			}
			info := p.ImageInfo[0]
			batch = append(batch, ImageInfo{
				Title:  p.Title,
				URL:    info.URL,
				Width:  info.Width,
				Height: info.Height,
				Mime:   info.Mime,
			})
		}
		sort.Slice(batch, func(i, j int) bool { return batch[i].Title < batch[j].Title })
		images = append(images, batch...)

		cont = resp.Continue.GimContinue
		if cont == "" {
			break
		}
	}
	return images, nil
}

// FilePathURL renders a media-repository file name into a thumbnail URL
// at the given width.
func (c *Client) FilePathURL(filename string, width int) string {
	name := strings.TrimPrefix(filename, "File:")
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%s/%s?width=%d", c.cfg.FilePathBase, url.PathEscape(name), width)
}

// ThumbWidth returns the configured thumbnail width
func (c *Client) ThumbWidth() int { return c.cfg.ThumbWidth }
