package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/shaderinc/pkg/buildinfo"
	"github.com/matzehuels/shaderinc/pkg/cache"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
	"github.com/matzehuels/shaderinc/pkg/pipeline"
	"github.com/matzehuels/shaderinc/pkg/source"
)

type resolveRequest struct {
	Path     string            `json:"path"`
	Files    map[string]string `json:"files,omitempty"`
	Relative *bool             `json:"relative,omitempty"`
	MaxDepth int               `json:"max_depth,omitempty"`
	Formats  []string          `json:"formats,omitempty"`
	Refresh  bool              `json:"refresh,omitempty"`
}

type resolveResponse struct {
	RunID     string            `json:"run_id"`
	Root      string            `json:"root"`
	Text      string            `json:"text"`
	Files     []string          `json:"files"`
	Stats     statsResponse     `json:"stats"`
	Cached    bool              `json:"cached"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

type statsResponse struct {
	Documents  int   `json:"documents"`
	Includes   int   `json:"includes"`
	Edges      int   `json:"edges"`
	DurationMS int64 `json:"duration_ms"`
}

type checkRequest struct {
	Paths    []string          `json:"paths"`
	Files    map[string]string `json:"files,omitempty"`
	Relative *bool             `json:"relative,omitempty"`
	MaxDepth int               `json:"max_depth,omitempty"`
}

type checkResponse struct {
	OK      bool          `json:"ok"`
	Failed  int           `json:"failed"`
	Results []checkResult `json:"results"`
}

type checkResult struct {
	Path      string     `json:"path"`
	Root      string     `json:"root,omitempty"`
	OK        bool       `json:"ok"`
	Documents int        `json:"documents,omitempty"`
	Error     *errorBody `json:"error,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Cycle   []string `json:"cycle,omitempty"`
	RunID   string   `json:"run_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	opts, err := s.options(req.Path, req.Files, req.Relative, req.MaxDepth)
	if err != nil {
		writeError(w, err, "")
		return
	}
	opts.Formats = req.Formats
	opts.Refresh = req.Refresh

	key := cache.Hash(mustMarshal(req))
	v, err, shared := s.group.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.opts.Timeout)
		defer cancel()
		return s.runner.Execute(ctx, opts)
	})
	res, _ := v.(*pipeline.Result)
	if shared {
		s.logger.Debug("resolve request deduplicated", "path", req.Path)
	}
	if err != nil {
		runID := ""
		if res != nil {
			runID = res.RunID
		}
		writeError(w, err, runID)
		return
	}

	resp := resolveResponse{
		RunID:  res.RunID,
		Root:   res.Root,
		Text:   res.Text,
		Files:  res.Files,
		Cached: res.CacheInfo.OutputHit,
		Stats: statsResponse{
			Documents:  res.Stats.Documents,
			Includes:   res.Stats.Includes,
			Edges:      res.Stats.EdgeCount,
			DurationMS: res.Stats.ResolveTime.Milliseconds(),
		},
	}
	if len(res.Artifacts) > 0 {
		resp.Artifacts = make(map[string]string, len(res.Artifacts))
		for f, data := range res.Artifacts {
			resp.Artifacts[f] = string(data)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	if len(req.Paths) == 0 {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "paths is required"), "")
		return
	}
	if len(req.Paths) > maxCheckPaths {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "too many paths: %d (max %d)", len(req.Paths), maxCheckPaths), "")
		return
	}

	all := make([]pipeline.Options, 0, len(req.Paths))
	for _, p := range req.Paths {
		opts, err := s.options(p, req.Files, req.Relative, req.MaxDepth)
		if err != nil {
			writeError(w, err, "")
			return
		}
		all = append(all, opts)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()
	results, err := s.runner.Check(ctx, all, 0)
	if err != nil {
		writeError(w, err, "")
		return
	}

	resp := checkResponse{Results: make([]checkResult, len(results))}
	for i, cr := range results {
		out := checkResult{Path: cr.Path, Root: cr.Root, OK: cr.OK(), Documents: cr.Documents}
		if !cr.OK() {
			body := toErrorBody(cr.Err, "")
			out.Error = &body
		}
		resp.Results[i] = out
	}
	resp.Failed = pipeline.Failed(results)
	resp.OK = resp.Failed == 0
	writeJSON(w, http.StatusOK, resp)
}

// options builds pipeline options for one root. Inline files are served
// from memory; otherwise the path and every include it pulls in must stay
// inside the server root.
func (s *Server) options(path string, files map[string]string, relative *bool, maxDepth int) (pipeline.Options, error) {
	if err := errs.ValidateIncludeLiteral(path); err != nil {
		return pipeline.Options{}, err
	}
	rel := s.opts.Relative
	if relative != nil {
		rel = *relative
	}
	if maxDepth == 0 {
		maxDepth = s.opts.MaxDepth
	}
	opts := pipeline.Options{
		Path:     path,
		Relative: rel,
		MaxDepth: maxDepth,
		Logger:   s.logger,
	}

	if len(files) > 0 {
		opts.Store = source.NewMemory(files, rel)
		opts.StoreID = "mem:" + cache.Hash(mustMarshal(files))
		return opts, nil
	}
	if err := errs.ValidatePath(path); err != nil {
		return pipeline.Options{}, err
	}
	opts.Root = s.opts.Root
	opts.Confine = true
	return opts, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error, runID string) {
	writeJSON(w, statusFor(err), errorResponse{Error: toErrorBody(err, runID)})
}

func toErrorBody(err error, runID string) errorBody {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return errorBody{
		Code:    string(code),
		Message: errs.UserMessage(err),
		Cycle:   errs.CyclePath(err),
		RunID:   runID,
	}
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidPath, errs.ErrCodeMalformedInvocation:
		return http.StatusBadRequest
	case errs.ErrCodePathUnresolvable:
		return http.StatusNotFound
	case errs.ErrCodeCircularDependency, errs.ErrCodeMaxDepthExceeded, errs.ErrCodeDocumentUnreadable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func mustMarshal(v any) []byte {
	data, _ := json.Marshal(v)
	return data
}
