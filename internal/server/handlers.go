package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/mazeroute/pkg/buildinfo"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/pipeline"
)

// outputs maps the output query parameter to a pipeline output.
var outputs = map[string]string{
	"json":  pipeline.OutputSolution,
	"path":  pipeline.OutputPath,
	"nodes": pipeline.OutputNodes,
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code      errs.Code `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("output")
	if name == "" {
		name = "json"
	}
	output, ok := outputs[name]
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "unknown output %q (want json, path or nodes)", name))
		return
	}

	opts := s.base
	if err := applyQuery(&opts, q); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, errs.New(errs.ErrCodeTooLarge, "maze exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(data) == 0 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "empty request body"))
		return
	}

	opts.Data = data
	opts.Outputs = []string{output}
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.SolutionHit {
		cacheStatus = "hit"
	}
	w.Header().Set("X-Cache", cacheStatus)

	if output == pipeline.OutputSolution {
		writeJSON(w, http.StatusOK, res.Solution)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[output])
}

// applyQuery overrides solver and render settings from query parameters.
func applyQuery(opts *pipeline.Options, q url.Values) error {
	if v := q.Get("frontier"); v != "" {
		opts.Frontier = v
	}
	if v := q.Get("entrance_weight"); v != "" {
		opts.EntranceWeight = v
	}
	if v := q.Get("palette"); v != "" {
		opts.Palette = v
	}
	if v := q.Get("threshold"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return errs.New(errs.ErrCodeInvalidConfig, "threshold must be 0-255, got %q", v)
		}
		opts.Threshold = uint8(n)
	}
	if v := q.Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.New(errs.ErrCodeInvalidConfig, "scale must be an integer, got %q", v)
		}
		opts.Scale = n
	}
	if v := q.Get("verify"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.New(errs.ErrCodeInvalidConfig, "verify must be a boolean, got %q", v)
		}
		opts.Verify = b
	}
	return nil
}

// writeError maps err to a status and a JSON body. Errors without a code
// are reported as internal and their text is only logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	resp := errorResponse{
		Code:      errs.GetCode(err),
		Message:   errs.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	}
	if resp.Code == "" {
		resp.Code = errs.ErrCodeInternal
		resp.Message = "internal error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("solve failed", "error", err, "request_id", resp.RequestID)
	} else {
		s.logger.Debug("solve rejected", "code", resp.Code, "error", err, "request_id", resp.RequestID)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
