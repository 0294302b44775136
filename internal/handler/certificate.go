package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/gift-catalog/internal/domain"
)

// ListCertificates handles GET /certificates.
//
//	?tag=sale                                certificates linked to the tag
//	?field=name&contains=spa&sort=price&order=desc   filtered and/or sorted
//
// With no parameters every certificate is returned ordered by id.
func (s *Server) ListCertificates(w http.ResponseWriter, r *http.Request) {
	params := map[string]*string{}
	for _, name := range []string{"tag", "field", "contains", "sort", "order"} {
		v, err := queryString(r, name)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
			return
		}
		params[name] = v
	}
	tag, field, contains, sortBy, order := params["tag"], params["field"], params["contains"], params["sort"], params["order"]

	var (
		certs []domain.Certificate
		err   error
	)
	switch {
	case tag != nil:
		if field != nil || contains != nil || sortBy != nil || order != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "tag cannot be combined with field, contains, sort or order")
			return
		}
		certs, err = s.certificates.ListByTagName(r.Context(), *tag)
		if err != nil {
			s.writeServiceError(w, r, err, "tag")
			return
		}

	case field != nil || sortBy != nil:
		p, msg := searchParams(field, contains, sortBy, order)
		if msg != "" {
			writeError(w, http.StatusBadRequest, codeBadRequest, msg)
			return
		}
		certs, err = s.certificates.Search(r.Context(), p)
		if err != nil {
			s.writeServiceError(w, r, err, "certificate")
			return
		}

	default:
		if contains != nil || order != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "contains requires field and order requires sort")
			return
		}
		certs, err = s.certificates.List(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err, "certificate")
			return
		}
	}

	writeJSON(w, http.StatusOK, nonNil(certs))
}

// searchParams assembles SearchParams from optional query values and returns
// a message describing the first inconsistency, if any.
func searchParams(field, contains, sortBy, order *string) (domain.SearchParams, string) {
	p := domain.SearchParams{Asc: true}
	if contains != nil && field == nil {
		return p, "contains requires field"
	}
	if order != nil && sortBy == nil {
		return p, "order requires sort"
	}
	if field != nil {
		p.Field = *field
		if contains != nil {
			p.Contains = *contains
		}
	}
	if sortBy != nil {
		p.SortBy = *sortBy
	}
	if order != nil {
		switch strings.ToLower(*order) {
		case "asc":
		case "desc":
			p.Asc = false
		default:
			return p, `order must be "asc" or "desc"`
		}
	}
	return p, ""
}

// CreateCertificate handles POST /certificates.
func (s *Server) CreateCertificate(w http.ResponseWriter, r *http.Request) {
	var in domain.CertificateInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := s.certificates.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "certificate")
		return
	}

	w.Header().Set("Location", "/certificates/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// GetCertificate handles GET /certificates/{id}.
func (s *Server) GetCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	c, err := s.certificates.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "certificate")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCertificate handles PATCH /certificates/{id}.
// Only the fields present in the body are changed. "tags": [] removes every
// link; omitting "tags" leaves the links as they are.
func (s *Server) UpdateCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	var in domain.CertificateInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	updated, err := s.certificates.Update(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, r, err, "certificate")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCertificate handles DELETE /certificates/{id}.
func (s *Server) DeleteCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	if err := s.certificates.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "certificate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
