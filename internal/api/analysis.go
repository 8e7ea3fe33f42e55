package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chat-backend/internal/analysis"
)

// AnalysisService turns raw analysis documents into ordered display
// sections, so every client renders value counts, summary statistics, and
// plots identically.
type AnalysisService struct{}

func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

func (s *AnalysisService) AddRoutes(r chi.Router) {
	r.Post("/analysis/render", RestHandler(s.Render))
}

type RenderResponse struct {
	Type     string             `json:"type"`
	Summary  string             `json:"summary,omitempty"`
	Sections []analysis.Section `json:"sections"`
}

func (s *AnalysisService) Render(r *http.Request) (any, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "unable to read request body")
	}

	payload, err := analysis.Parse(body)
	if err != nil {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "invalid analysis payload: %v", err)
	}

	return RenderResponse{
		Type:     payload.Type,
		Summary:  payload.Summary,
		Sections: analysis.Render(payload),
	}, nil
}
