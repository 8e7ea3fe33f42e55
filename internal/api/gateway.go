package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chat-backend/internal/inference"
	"chat-backend/pkg/api"
)

// GatewayService exposes the serverless-style function endpoint backing the
// "aanum" model. The reply contract is HTTP 200 always: upstream exhaustion
// comes back as a conversational apology plus a machine-readable error tag.
type GatewayService struct {
	backend inference.Backend
}

func NewGatewayService(backend inference.Backend) *GatewayService {
	return &GatewayService{backend: backend}
}

func (s *GatewayService) AddRoutes(r chi.Router) {
	r.Post("/functions/aanum", RestHandler(s.Invoke))
}

func (s *GatewayService) Invoke(r *http.Request) (any, error) {
	req, err := ParseRequest[api.InvokeGatewayRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Message == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "message cannot be empty")
	}

	reply, err := s.backend.Reply(r.Context(), inference.Request{
		Text:   req.Message,
		ChatID: req.ChatID,
	})
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error invoking gateway backend")
	}

	return api.InvokeGatewayResponse{Response: reply.Text, Error: reply.Err}, nil
}
