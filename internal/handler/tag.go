package handler

import (
	"net/http"
	"strconv"
)

// createTagRequest is the body of POST /tags.
type createTagRequest struct {
	Name string `json:"name"`
}

// ListTags handles GET /tags. Tags are ordered by name.
// With ?name= it returns that single tag instead, or 404.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	name, err := queryString(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if name != nil {
		tag, err := s.tags.GetByName(r.Context(), *name)
		if err != nil {
			s.writeServiceError(w, r, err, "tag")
			return
		}
		writeJSON(w, http.StatusOK, tag)
		return
	}

	tags, err := s.tags.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "tag")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tags))
}

// CreateTag handles POST /tags.
// Returns 409 if a tag with the same name exists.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	tag, err := s.tags.Create(r.Context(), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err, "tag")
		return
	}

	w.Header().Set("Location", "/tags/"+strconv.FormatInt(tag.ID, 10))
	writeJSON(w, http.StatusCreated, tag)
}

// GetTag handles GET /tags/{id}.
func (s *Server) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	tag, err := s.tags.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "tag")
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// DeleteTag handles DELETE /tags/{id}. Links to certificates are removed with it.
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	if err := s.tags.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

