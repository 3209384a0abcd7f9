package handler

import (
	"net/url"

	"penguinlens/internal/dashboard"
	"penguinlens/internal/filter"
	dErrors "penguinlens/pkg/domain-errors"
)

// Query parameter names of the stateless endpoints.
const (
	QuerySpecies = "species"
	QueryIsland  = "island"
)

// UpdateFiltersRequest replaces a session's selection. Both lists are
// required; an empty list selects nothing.
type UpdateFiltersRequest struct {
	Species []string `json:"species"`
	Islands []string `json:"islands"`
}

func (r *UpdateFiltersRequest) Validate() error {
	if r.Species == nil {
		return dErrors.New(dErrors.CodeBadRequest, "species is required")
	}
	if r.Islands == nil {
		return dErrors.New(dErrors.CodeBadRequest, "islands is required")
	}
	return nil
}

// Selection normalizes the request into a filter selection.
func (r *UpdateFiltersRequest) Selection() filter.Selection {
	return filter.NewSelection(r.Species, r.Islands)
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string              `json:"session_id"`
	Dashboard *dashboard.Snapshot `json:"dashboard"`
}

// withStatelessLinks points the export links at /api/exports with the
// snapshot's selection encoded in the query.
func withStatelessLinks(s *dashboard.Snapshot) *dashboard.Snapshot {
	query := selectionQuery(s.Selection)
	for i := range s.Exports {
		s.Exports[i].Href = "/api/exports/" + string(s.Exports[i].Subset) + "?" + query
	}
	return s
}

func withSessionLinks(s *dashboard.Snapshot, id string) *dashboard.Snapshot {
	for i := range s.Exports {
		s.Exports[i].Href = "/api/sessions/" + id + "/exports/" + string(s.Exports[i].Subset)
	}
	return s
}

// selectionQuery encodes sel so that an empty dimension survives as a
// present-but-empty parameter.
func selectionQuery(sel filter.Selection) string {
	q := url.Values{}
	add := func(key string, values []string) {
		if len(values) == 0 {
			q[key] = []string{""}
			return
		}
		q[key] = append([]string(nil), values...)
	}
	add(QuerySpecies, sel.Species)
	add(QueryIsland, sel.Islands)
	return q.Encode()
}
