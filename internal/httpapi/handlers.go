package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sylv/hubble/internal/imdb"
	"github.com/sylv/hubble/internal/query"
)

type queryRequest struct {
	Query string    `json:"query,omitempty"`
	IDs   []imdb.ID `json:"ids,omitempty"`
	Limit int       `json:"limit,omitempty"`
}

type titleResponse struct {
	ID             imdb.ID   `json:"id"`
	Kind           imdb.Kind `json:"kind"`
	PrimaryTitle   string    `json:"primaryTitle"`
	OriginalTitle  string    `json:"originalTitle,omitempty"`
	IsAdult        bool      `json:"isAdult"`
	StartYear      *int64    `json:"startYear,omitempty"`
	EndYear        *int64    `json:"endYear,omitempty"`
	RuntimeMinutes *int64    `json:"runtimeMinutes,omitempty"`
	Genres         []string  `json:"genres,omitempty"`
	Rank           *float64  `json:"rank,omitempty"`
}

func toTitleResponse(r query.TitleWithRank) titleResponse {
	t := r.Title
	out := titleResponse{
		ID:           t.ID,
		Kind:         t.Kind,
		PrimaryTitle: t.PrimaryTitle,
		IsAdult:      t.IsAdult,
		Genres:       t.Genres,
		Rank:         r.Rank,
	}
	if t.OriginalTitle.Valid {
		out.OriginalTitle = t.OriginalTitle.String
	}
	if t.StartYear.Valid {
		out.StartYear = &t.StartYear.Int64
	}
	if t.EndYear.Valid {
		out.EndYear = &t.EndYear.Int64
	}
	if t.RuntimeMinutes.Valid {
		out.RuntimeMinutes = &t.RuntimeMinutes.Int64
	}
	return out
}

// handleQuery implements the POST / body of spec.md §6: a query body
// resolves via the façade's text-or-ids contract.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	results, err := s.facade.GetTitles(r.Context(), req.Query, req.IDs, req.Limit)
	if err != nil {
		if errors.Is(err, query.ErrMissingInput) {
			writeJSONError(w, http.StatusBadRequest, "missing_input", err.Error())
			return
		}
		s.log.Error().Err(err).Msg("query failed")
		writeJSONError(w, http.StatusInternalServerError, "internal", "query failed")
		return
	}

	out := make([]titleResponse, len(results))
	for i, r := range results {
		out[i] = toTitleResponse(r)
	}
	writeJSON(w, http.StatusOK, out)
}
