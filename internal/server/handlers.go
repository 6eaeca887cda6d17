package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lectura/mindmap/pkg/buildinfo"
	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/generate"
	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/pipeline"
	"github.com/lectura/mindmap/pkg/store"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatNodelink: "image/svg+xml",
}

// treeRequest is the body of the layout and render endpoints. The tree may
// be given as "tree" or, as the generator returns it, "mindMap".
type treeRequest struct {
	Tree     *mindmap.Node `json:"tree"`
	MindMap  *mindmap.Node `json:"mindMap"`
	Title    string        `json:"title"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	MaxDepth int           `json:"max_depth"`
}

func (t treeRequest) root() *mindmap.Node {
	if t.Tree != nil {
		return t.Tree
	}
	return t.MindMap
}

type layoutResponse struct {
	mindmap.Layout
	Bounds    mindmap.Rect  `json:"bounds"`
	AutoScale float64       `json:"autoScale"`
	Stats     mindmap.Stats `json:"stats"`
	Cached    bool          `json:"cached"`
}

type mindMapResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	MindMap   *mindmap.Node `json:"mindMap"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type mindMapSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Nodes     int       `json:"nodes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(m *store.MindMap) mindMapResponse {
	return mindMapResponse{ID: m.ID, Title: m.Title, MindMap: m.Root, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// containerSize applies the server defaults and raises the result to the
// minimum container size.
func (s *Server) containerSize(width, height float64) (float64, float64) {
	if width == 0 {
		width = s.defaultWidth
	}
	if height == 0 {
		height = s.defaultHeight
	}
	return mindmap.ClampContainer(width, height)
}

func (s *Server) layoutOptions(width, height float64, maxDepth int) pipeline.Options {
	w, h := s.containerSize(width, height)
	if maxDepth == 0 {
		maxDepth = s.maxDepth
	}
	return pipeline.Options{Width: w, Height: h, MaxDepth: maxDepth, Logger: s.logger}
}

func (s *Server) writeLayout(w http.ResponseWriter, r *http.Request, root *mindmap.Node, opts pipeline.Options) {
	if root.IsZero() {
		s.writeError(w, r, apperr.New(apperr.ErrCodeNoData, "No mind map data available"))
		return
	}
	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), root, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout:    l,
		Bounds:    mindmap.Bounds(l),
		AutoScale: mindmap.AutoFitScale(l, l.ContainerWidth, l.ContainerHeight),
		Stats:     pipeline.LayoutStats(l),
		Cached:    hit,
	})
}

// layout positions a posted tree.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeLayout(w, r, req.root(), s.layoutOptions(req.Width, req.Height, req.MaxDepth))
}

// render draws a posted tree in the format named by ?format= (default svg).
// ?fit=true frames it fit-to-width, ?view=true with the automatic fit.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, r, req.root(), req.Title, s.layoutOptions(req.Width, req.Height, req.MaxDepth))
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, root *mindmap.Node, title string, opts pipeline.Options) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Tree = root
	opts.Title = title
	opts.Formats = []string{format}
	opts.Fit = queryBool(r, "fit")
	opts.View = queryBool(r, "view")
	opts.Background = r.URL.Query().Get("background")

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// createMindMap generates a tree from notes and stores it.
func (s *Server) createMindMap(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.generator == nil {
		s.writeError(w, r, apperr.New(apperr.ErrCodeUnsupported, "mind map generation is not configured"))
		return
	}

	root, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m := &store.MindMap{Title: req.RootTitle(), Root: root}
	if err := s.store.Save(r.Context(), m); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("mind map created", "id", m.ID, "title", m.Title)
	writeJSON(w, http.StatusCreated, toResponse(m))
}

func (s *Server) listMindMaps(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = n
	}
	all, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]mindMapSummary, 0, len(all))
	for _, m := range all {
		st, _ := mindmap.TreeStats(m.Root)
		out = append(out, mindMapSummary{ID: m.ID, Title: m.Title, Nodes: st.Nodes, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.MindMap, bool) {
	m, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return m, true
}

func (s *Server) getMindMap(w http.ResponseWriter, r *http.Request) {
	if m, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, toResponse(m))
	}
}

func (s *Server) deleteMindMap(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mindMapLayout lays out a stored mind map for ?width= and ?height=.
func (s *Server) mindMapLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.queryLayoutOptions(w, r)
	if !ok {
		return
	}
	if m, ok := s.lookup(w, r); ok {
		s.writeLayout(w, r, m.Root, opts)
	}
}

func (s *Server) mindMapSVG(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.queryLayoutOptions(w, r)
	if !ok {
		return
	}
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	q.Set("format", pipeline.FormatSVG)
	r.URL.RawQuery = q.Encode()
	s.writeArtifact(w, r, m.Root, m.Title, opts)
}

func (s *Server) queryLayoutOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	width, err := queryFloat(r, "width")
	if err != nil {
		s.writeError(w, r, err)
		return pipeline.Options{}, false
	}
	height, err := queryFloat(r, "height")
	if err != nil {
		s.writeError(w, r, err)
		return pipeline.Options{}, false
	}
	return s.layoutOptions(width, height, 0), true
}

