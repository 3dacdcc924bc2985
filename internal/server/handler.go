package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/wikibox/internal/model"
)

// Fixed user-facing messages. Resolution failures of every kind collapse
// into the same not-found body; the internal kind only reaches the logs.
const (
	emptyQueryMessage = "query must not be empty"
	notFoundMessage   = "data not found"
)

// Runner answers one subject query. Satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, query string) (*model.InfoboxRecord, error)
}

type envelope struct {
	Query   string                 `json:"query"`
	Results []*model.InfoboxRecord `json:"results"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleInfobox(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: emptyQueryMessage})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	record, err := s.runner.Run(ctx, query)
	if err != nil {
		if errors.Is(err, model.ErrEmptyQuery) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: emptyQueryMessage})
			return
		}
		var re *model.ResolutionError
		if errors.As(err, &re) {
			s.logger.Info("resolution failed",
				zap.String("query", query),
				zap.String("stage", re.Stage),
				zap.String("kind", string(re.Kind)),
				zap.Error(re.Err))
		} else {
			s.logger.Error("request failed", zap.String("query", query), zap.Error(err))
		}
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundMessage})
		return
	}

	writeJSON(w, http.StatusOK, envelope{Query: query, Results: []*model.InfoboxRecord{record}})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
