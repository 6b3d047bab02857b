package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hyperpart/pkg/buildinfo"
	"github.com/matzehuels/hyperpart/pkg/engine"
	"github.com/matzehuels/hyperpart/pkg/engine/builtin"
	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
	"github.com/matzehuels/hyperpart/pkg/partition"
	"github.com/matzehuels/hyperpart/pkg/pipeline"
	"github.com/matzehuels/hyperpart/pkg/render"
)

// apiFormats are the artifact formats the API returns inline as text.
var apiFormats = []string{pipeline.FormatDOT, pipeline.FormatSVG}

// PartitionRequest is the body of POST /v1/partition.
type PartitionRequest struct {
	Hypergraph *hypergraph.Hypergraph `json:"hypergraph"`
	K          int                    `json:"k"`
	Epsilon    *float64               `json:"epsilon,omitempty"`
	Engine     string                 `json:"engine,omitempty"`
	Preset     string                 `json:"preset,omitempty"`
	Config     string                 `json:"config,omitempty"`
	Seed       *int32                 `json:"seed,omitempty"`
	Refresh    bool                   `json:"refresh,omitempty"`
	Formats    []string               `json:"formats,omitempty"`
	Render     render.Options         `json:"render,omitempty"`
}

// PartitionResponse is the body of a successful POST /v1/partition.
type PartitionResponse struct {
	RequestID string            `json:"request_id"`
	Report    *pipeline.Report  `json:"report"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// options converts the request to pipeline options. File inputs are not
// reachable over HTTP.
func (req *PartitionRequest) options() (pipeline.Options, error) {
	if req.Hypergraph == nil {
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "hypergraph is required")
	}
	for _, f := range req.Formats {
		if !slices.Contains(apiFormats, f) {
			return pipeline.Options{}, errs.New(errs.ErrCodeInvalidFormat, "format %q is not available over HTTP (use one of %v)", f, apiFormats)
		}
	}
	return pipeline.Options{
		Hypergraph: req.Hypergraph,
		K:          req.K,
		Epsilon:    req.Epsilon,
		Engine:     req.Engine,
		Preset:     req.Preset,
		ConfigText: req.Config,
		Seed:       req.Seed,
		Refresh:    req.Refresh,
		Formats:    req.Formats,
		Render:     req.Render,
	}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type engineInfo struct {
	Name    string   `json:"name"`
	Default bool     `json:"default"`
	Presets []string `json:"presets,omitempty"`
}

func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	names := engine.Names()
	out := make([]engineInfo, 0, len(names))
	for _, name := range names {
		info := engineInfo{Name: name, Default: name == engine.DefaultName}
		if name == builtin.Name {
			info.Presets = builtin.Presets()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"engines": out})
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := pipeline.ValidatePreset(name); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			RequestID: RequestID(r.Context()),
			Code:      string(errs.ErrCodeConfig),
			Message:   errs.UserMessage(err),
		})
		return
	}
	text, err := builtin.Preset(name)
	if err != nil {
		writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "load preset"))
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctrl := s.cfg.Runner.Controller
	if ctrl == nil {
		ctrl = partition.Resources()
	}
	writeJSON(w, http.StatusOK, ctrl.Stats())
}

func (s *Server) handlePartition(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req PartitionRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				RequestID: RequestID(r.Context()),
				Code:      string(errs.ErrCodeInvalidInput),
				Message:   "request body too large",
			})
			return
		}
		writeError(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request: %v", err))
		return
	}

	opts, err := req.options()
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Logger = s.cfg.Logger.With("request", RequestID(r.Context()))

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	res, err := s.cfg.Runner.Execute(ctx, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := PartitionResponse{
		RequestID: RequestID(r.Context()),
		Report:    pipeline.NewReport(res),
	}
	if len(res.Artifacts) > 0 {
		resp.Artifacts = make(map[string]string, len(res.Artifacts))
		for format, data := range res.Artifacts {
			resp.Artifacts[format] = string(data)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
