// Package handler implements the HTTP handlers for the gift catalog API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, certificate.go, tag.go) but share the same dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/gift-catalog/internal/domain"
)

// CertificateServicer defines the certificate operations the handlers depend on.
// *service.CatalogService satisfies it; tests inject a mock.
type CertificateServicer interface {
	Create(ctx context.Context, in domain.CertificateInput) (domain.Certificate, error)
	Update(ctx context.Context, id int64, in domain.CertificateInput) (domain.Certificate, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (domain.Certificate, error)
	List(ctx context.Context) ([]domain.Certificate, error)
	Search(ctx context.Context, p domain.SearchParams) ([]domain.Certificate, error)
	ListByTagName(ctx context.Context, name string) ([]domain.Certificate, error)
}

// TagServicer defines the tag operations the handlers depend on.
type TagServicer interface {
	Create(ctx context.Context, name string) (domain.Tag, error)
	GetByID(ctx context.Context, id int64) (domain.Tag, error)
	GetByName(ctx context.Context, name string) (domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	certificates CertificateServicer
	tags         TagServicer
	logger       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(certificates CertificateServicer, tags TagServicer, logger *slog.Logger) *Server {
	return &Server{certificates: certificates, tags: tags, logger: logger}
}

// Routes returns the API routes. Cross-cutting middleware (request IDs,
// logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/certificates", func(r chi.Router) {
		r.Get("/", s.ListCertificates)
		r.Post("/", s.CreateCertificate)
		r.Get("/{id}", s.GetCertificate)
		r.Patch("/{id}", s.UpdateCertificate)
		r.Delete("/{id}", s.DeleteCertificate)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", s.ListTags)
		r.Post("/", s.CreateTag)
		r.Get("/{id}", s.GetTag)
		r.Delete("/{id}", s.DeleteTag)
	})

	return r
}
