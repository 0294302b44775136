package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/gift-catalog/internal/domain"
	"github.com/pkordes/gift-catalog/internal/handler"
)

// mockCertificateServicer is a test double for handler.CertificateServicer.
// Set only the method fields your test needs.
type mockCertificateServicer struct {
	create        func(ctx context.Context, in domain.CertificateInput) (domain.Certificate, error)
	update        func(ctx context.Context, id int64, in domain.CertificateInput) (domain.Certificate, error)
	delete        func(ctx context.Context, id int64) error
	getByID       func(ctx context.Context, id int64) (domain.Certificate, error)
	list          func(ctx context.Context) ([]domain.Certificate, error)
	search        func(ctx context.Context, p domain.SearchParams) ([]domain.Certificate, error)
	listByTagName func(ctx context.Context, name string) ([]domain.Certificate, error)
}

func (m *mockCertificateServicer) Create(ctx context.Context, in domain.CertificateInput) (domain.Certificate, error) {
	return m.create(ctx, in)
}
func (m *mockCertificateServicer) Update(ctx context.Context, id int64, in domain.CertificateInput) (domain.Certificate, error) {
	return m.update(ctx, id, in)
}
func (m *mockCertificateServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockCertificateServicer) GetByID(ctx context.Context, id int64) (domain.Certificate, error) {
	return m.getByID(ctx, id)
}
func (m *mockCertificateServicer) List(ctx context.Context) ([]domain.Certificate, error) {
	return m.list(ctx)
}
func (m *mockCertificateServicer) Search(ctx context.Context, p domain.SearchParams) ([]domain.Certificate, error) {
	return m.search(ctx, p)
}
func (m *mockCertificateServicer) ListByTagName(ctx context.Context, name string) ([]domain.Certificate, error) {
	return m.listByTagName(ctx, name)
}

// mockTagServicer is a test double for handler.TagServicer.
type mockTagServicer struct {
	create    func(ctx context.Context, name string) (domain.Tag, error)
	getByID   func(ctx context.Context, id int64) (domain.Tag, error)
	getByName func(ctx context.Context, name string) (domain.Tag, error)
	list      func(ctx context.Context) ([]domain.Tag, error)
	delete    func(ctx context.Context, id int64) error
}

func (m *mockTagServicer) Create(ctx context.Context, name string) (domain.Tag, error) {
	return m.create(ctx, name)
}
func (m *mockTagServicer) GetByID(ctx context.Context, id int64) (domain.Tag, error) {
	return m.getByID(ctx, id)
}
func (m *mockTagServicer) GetByName(ctx context.Context, name string) (domain.Tag, error) {
	return m.getByName(ctx, name)
}
func (m *mockTagServicer) List(ctx context.Context) ([]domain.Tag, error) {
	return m.list(ctx)
}
func (m *mockTagServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.CertificateServicer = (*mockCertificateServicer)(nil)
	_ handler.TagServicer         = (*mockTagServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the real router.
func newHTTPHandler(certs handler.CertificateServicer, tags handler.TagServicer) http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return handler.NewServer(certs, tags, logger).Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func certificateFixture() domain.Certificate {
	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return domain.Certificate{
		ID:          5,
		Name:        "Spa day",
		Description: "Full day at the spa",
		Price:       15000,
		Duration:    90,
		CreatedAt:   at,
		UpdatedAt:   at,
		Tags:        []domain.Tag{{ID: 2, Name: "new"}, {ID: 1, Name: "sale"}},
	}
}
