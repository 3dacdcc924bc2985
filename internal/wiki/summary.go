package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/wikibox/internal/model"
)

// summaryResponse mirrors the REST summary payload
type summaryResponse struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Extract       string `json:"extract"`
	ExtractHTML   string `json:"extract_html"`
	PageID        int64  `json:"pageid"`
	OriginalImage *struct {
		Source string `json:"source"`
	} `json:"originalimage"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Summary fetches the canonical summary record for a subject query.
// A non-success response surfaces as an error; unknown subjects are 404s.
func (c *Client) Summary(ctx context.Context, query string) (*model.SummaryRecord, error) {
	endpoint := c.cfg.SummaryBase + "/" + url.PathEscape(query)

	var resp summaryResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Title == "" || resp.PageID == 0 {
		return nil, fmt.Errorf("summary response missing title or pageid")
	}

	extract := resp.Extract
	if extract == "" && resp.ExtractHTML != "" {
		extract = stripTags(resp.ExtractHTML)
	}

	record := &model.SummaryRecord{
		Title:       resp.Title,
		Description: resp.Description,
		Extract:     extract,
		PageID:      resp.PageID,
		PageURL:     resp.ContentURLs.Desktop.Page,
	}
	if resp.OriginalImage != nil {
		record.LeadImage = resp.OriginalImage.Source
	}
	return record, nil
}

// stripTags flattens an HTML fragment to its text content
func stripTags(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.TrimSpace(sb.String())
}
