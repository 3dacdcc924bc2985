package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/wikibox/internal/model"
)

// upstream fakes all four collaborators behind one server
type upstream struct {
	server        *http.ServeMux
	summaryCalls  atomic.Int32
	pagePropCalls atomic.Int32
	entityCalls   atomic.Int32
	listingCalls  atomic.Int32
}

func newUpstream(t *testing.T) (*httptest.Server, *upstream) {
	t.Helper()
	u := &upstream{server: http.NewServeMux()}

	u.server.HandleFunc("/summary/", func(w http.ResponseWriter, r *http.Request) {
		u.summaryCalls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/Apple") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, `{
			"title": "Apple Inc.",
			"description": "American technology company",
			"extract": "Apple Inc. is an American multinational technology company.",
			"pageid": 856,
			"originalimage": {"source": "https://upload.example.org/apple-hq.jpg"},
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Apple_Inc."}}
		}`)
	})

	u.server.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("prop") == "pageprops":
			u.pagePropCalls.Add(1)
			_, _ = fmt.Fprint(w, `{"query": {"pages": {"856": {"pageprops": {"wikibase_item": "Q312"}}}}}`)
		case q.Get("generator") == "images":
			u.listingCalls.Add(1)
			_, _ = fmt.Fprint(w, `{"query": {"pages": {
				"1": {"title": "File:Apple Park aerial.jpg", "imageinfo": [{"url": "https://img.example.org/park.jpg", "width": 1200, "height": 800, "mime": "image/jpeg"}]},
				"2": {"title": "File:Apple logo black.svg", "imageinfo": [{"url": "https://img.example.org/logo.svg", "width": 1200, "height": 1200, "mime": "image/svg+xml"}]}
			}}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	entities := map[string]string{
		"Q312": `{"entities": {"Q312": {
			"claims": {
				"P31":  [{"mainsnak": {"snaktype": "value", "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q4830453"}}}}],
				"P112": [
					{"mainsnak": {"snaktype": "value", "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q19837"}}}},
					{"mainsnak": {"snaktype": "value", "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q483382"}}}}
				],
				"P169": [{"mainsnak": {"snaktype": "value", "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q265852"}}}}],
				"P159": [{"mainsnak": {"snaktype": "value", "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q2092563"}}}}],
				"P154": [{"mainsnak": {"snaktype": "value", "datavalue": {"type": "string", "value": "Apple logo black.svg"}}}],
				"P856": [{"mainsnak": {"snaktype": "value", "datavalue": {"type": "string", "value": "https://www.apple.com"}}}]
			},
			"labels": {"en": {"value": "Apple Inc."}},
			"descriptions": {"en": {"value": "American technology company"}}
		}}}`,
		"Q19837":   entityLabelJSON("Q19837", "Steve Jobs"),
		"Q483382":  entityLabelJSON("Q483382", "Steve Wozniak"),
		"Q265852":  entityLabelJSON("Q265852", "Tim Cook"),
		"Q2092563": entityLabelJSON("Q2092563", "Cupertino"),
	}
	u.server.HandleFunc("/entity/", func(w http.ResponseWriter, r *http.Request) {
		u.entityCalls.Add(1)
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/entity/"), ".json")
		body, ok := entities[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, body)
	})

	server := httptest.NewServer(u.server)
	t.Cleanup(server.Close)
	return server, u
}

func entityLabelJSON(id, label string) string {
	return fmt.Sprintf(`{"entities": {%q: {"claims": {}, "labels": {"en": {"value": %q}}}}}`, id, label)
}

func testPipeline(serverURL string) *Pipeline {
	cfg := model.DefaultConfig()
	cfg.Wiki.SummaryBase = serverURL + "/summary"
	cfg.Wiki.ActionBase = serverURL + "/w/api.php"
	cfg.Wiki.EntityBase = serverURL + "/entity"
	cfg.Wiki.FilePathBase = "https://commons.example.org/wiki/Special:FilePath"
	cfg.RateLimit.RequestsPerSecond = 1000
	// Above the three curated company fields, so the backfill pool runs
	cfg.Infobox.MinFields = 4
	return New(cfg, nil)
}

func TestRunEmptyQuery(t *testing.T) {
	server, _ := newUpstream(t)
	p := testPipeline(server.URL)

	for _, query := range []string{"", "   ", "\t"} {
		_, err := p.Run(context.Background(), query)
		if !errors.Is(err, model.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", query, err)
		}
	}
}

func TestRunSummaryNotFoundStopsChain(t *testing.T) {
	server, u := newUpstream(t)
	p := testPipeline(server.URL)

	_, err := p.Run(context.Background(), "Nonexistent Subject")
	var re *model.ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if re.Stage != "summary" || re.Kind != model.ResolutionMissing {
		t.Errorf("Unexpected stage/kind: %s/%s", re.Stage, re.Kind)
	}
	if u.pagePropCalls.Load() != 0 || u.entityCalls.Load() != 0 {
		t.Errorf("Downstream calls attempted after summary failure: pageprops=%d entity=%d",
			u.pagePropCalls.Load(), u.entityCalls.Load())
	}
}

func TestRunSuccess(t *testing.T) {
	server, u := newUpstream(t)
	p := testPipeline(server.URL)

	record, err := p.Run(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if record.Title != "Apple Inc." {
		t.Errorf("Unexpected title: %s", record.Title)
	}
	if record.Type != "Apple Inc. - American technology company" {
		t.Errorf("Unexpected type line: %s", record.Type)
	}
	if record.Source != "Wikipedia & Wikidata" {
		t.Errorf("Unexpected source: %s", record.Source)
	}
	if record.URL != "https://en.wikipedia.org/wiki/Apple_Inc." {
		t.Errorf("Unexpected url: %s", record.URL)
	}
	if record.Logo != "https://commons.example.org/wiki/Special:FilePath/Apple_logo_black.svg?width=500" {
		t.Errorf("Unexpected logo: %s", record.Logo)
	}
	if record.Image != "https://upload.example.org/apple-hq.jpg" {
		t.Errorf("Expected summary lead image fallback, got %s", record.Image)
	}

	byLabel := make(map[string]any, len(record.Infobox))
	for _, f := range record.Infobox {
		if _, dup := byLabel[f.Label]; dup {
			t.Errorf("Duplicate label in infobox: %s", f.Label)
		}
		byLabel[f.Label] = f.Value
	}
	if got, ok := byLabel["Founders"]; !ok {
		t.Error("Missing Founders field")
	} else if !reflect.DeepEqual(got, []string{"Steve Jobs", "Steve Wozniak"}) {
		t.Errorf("Unexpected founders: %v", got)
	}
	if byLabel["CEO"] != "Tim Cook" {
		t.Errorf("Unexpected CEO: %v", byLabel["CEO"])
	}
	if byLabel["Headquarters"] != "Cupertino" {
		t.Errorf("Unexpected headquarters: %v", byLabel["Headquarters"])
	}
	if byLabel["Website"] != "https://www.apple.com" {
		t.Errorf("Expected website kept (query contained in URL), got %v", byLabel["Website"])
	}

	// Gallery listed once; svg filtered, jpeg kept
	if u.listingCalls.Load() != 1 {
		t.Errorf("Expected 1 listing call, got %d", u.listingCalls.Load())
	}
	if !reflect.DeepEqual(record.RelatedImages, []string{"https://img.example.org/park.jpg"}) {
		t.Errorf("Unexpected related images: %v", record.RelatedImages)
	}
}

func TestRunIdempotent(t *testing.T) {
	server, _ := newUpstream(t)
	p := testPipeline(server.URL)

	first, err := p.Run(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := p.Run(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Identical queries produced different records:\n%+v\n%+v", first, second)
	}
}
