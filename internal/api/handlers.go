package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/pipeline"
	"github.com/matzehuels/tiltmaze/pkg/store"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createRequest is the subset of pipeline.Options accepted by POST /v1/levels.
type createRequest struct {
	Name                 string         `json:"name"`
	Size                 int            `json:"size"`
	Seed                 uint64         `json:"seed"`
	FloorHoleProbability float64        `json:"floor_hole_probability"`
	DeathWallProbability float64        `json:"death_wall_probability"`
	NextLevel            string         `json:"next_level"`
	Palette              *level.Palette `json:"palette"`
}

func (req createRequest) options() pipeline.Options {
	o := pipeline.Options{
		Name:                 req.Name,
		Size:                 req.Size,
		Seed:                 req.Seed,
		FloorHoleProbability: req.FloorHoleProbability,
		DeathWallProbability: req.DeathWallProbability,
		NextLevel:            req.NextLevel,
	}
	if req.Palette != nil {
		o.Palette = *req.Palette
	}
	return o
}

func (s *Server) createLevel(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, badRequest("invalid request body: %v", err))
		return
	}

	l, _, err := s.runner.Generate(r.Context(), req.options())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), l); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/levels/"+l.ID)
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) listLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": levels})
}

func (s *Server) getLevel(w http.ResponseWriter, r *http.Request) {
	l, err := store.Resolve(r.Context(), s.store, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteLevel(w http.ResponseWriter, r *http.Request) {
	l, err := store.Resolve(r.Context(), s.store, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), l.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// renderLevel renders one format. Query parameters: type (floorplan or
// nodelink), solution, detailed, cell_size.
func (s *Server) renderLevel(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		VizType: q.Get("type"),
		Formats: []string{format},
	}
	var err error
	if opts.Solution, err = boolParam(q.Get("solution")); err != nil {
		s.writeError(w, r, badRequest("solution: %v", err))
		return
	}
	if opts.Detailed, err = boolParam(q.Get("detailed")); err != nil {
		s.writeError(w, r, badRequest("detailed: %v", err))
		return
	}
	if v := q.Get("cell_size"); v != "" {
		if opts.CellSize, err = strconv.ParseFloat(v, 64); err != nil {
			s.writeError(w, r, badRequest("cell_size: %v", err))
			return
		}
	}

	l, err := store.Resolve(r.Context(), s.store, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.RenderLevel(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
