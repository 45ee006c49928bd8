package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hupe1980/clusterviz"
	"github.com/hupe1980/clusterviz/codec"
	"github.com/hupe1980/clusterviz/internal/chart"
	"github.com/hupe1980/clusterviz/internal/pointcloud"
	"github.com/hupe1980/clusterviz/internal/session"
)

// runRequest is a clustering request as sent by the browser, either as form
// fields on POST /kmeans or as a JSON message on /ws/kmeans.
type runRequest struct {
	Session          string      `json:"session"`
	NumClusters      int         `json:"num_clusters"`
	InitMethod       string      `json:"init_method"`
	RunToConvergence bool        `json:"run_to_convergence"`
	Centroids        [][]float64 `json:"centroids,omitempty"`
	MaxIterations    int         `json:"max_iterations,omitempty"`
}

// newRunRequest returns a request holding the defaults for absent fields.
func newRunRequest() runRequest {
	return runRequest{NumClusters: DefaultNumClusters, InitMethod: DefaultInitMethod}
}

// mode maps run_to_convergence to an engine mode. The browser sets it on its
// "step" button, so true means a single iteration.
func (r *runRequest) mode() clusterviz.Mode {
	if r.RunToConvergence {
		return clusterviz.ModeStep
	}
	return clusterviz.ModeFull
}

// SessionCookie remembers the session of a browser that does not pass one
// explicitly.
const SessionCookie = "clusterviz_session"

// sessionID returns explicit, or the session cookie when explicit is empty.
func sessionID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type initialDataResponse struct {
	Session string            `json:"session"`
	Data    [][]float64       `json:"data"`
	Bounds  pointcloud.Bounds `json:"bounds"`
}

type statsResponse struct {
	ClusterSizes  []int   `json:"cluster_sizes"`
	EmptyClusters []int   `json:"empty_clusters,omitempty"`
	Reassigned    int     `json:"reassigned"`
	Inertia       float64 `json:"inertia"`
}

type kmeansResponse struct {
	Centroids  [][][]float64   `json:"centroids"`
	Labels     [][]int         `json:"labels"`
	Data       [][]float64     `json:"data"`
	Outcome    string          `json:"outcome"`
	Iterations int             `json:"iterations"`
	Stats      []statsResponse `json:"stats"`
}

func newKMeansResponse(data [][]float64, res *clusterviz.Result) *kmeansResponse {
	stats := make([]statsResponse, len(res.Stats))
	for i, st := range res.Stats {
		stats[i] = statsResponse{
			ClusterSizes:  st.ClusterSizes,
			EmptyClusters: st.EmptyClusters,
			Reassigned:    st.Reassigned,
			Inertia:       st.Inertia,
		}
	}
	return &kmeansResponse{
		Centroids:  res.Centroids,
		Labels:     res.Labels,
		Data:       data,
		Outcome:    res.Outcome.String(),
		Iterations: res.Iterations,
		Stats:      stats,
	}
}

func (s *Server) handleInitialData(w http.ResponseWriter, r *http.Request) {
	cloud, err := s.generate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Put(sessionID(r, r.URL.Query().Get("session")), cloud.Points)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setSessionCookie(w, sess.ID, 0)

	s.opts.logger.WithSession(sess.ID).WithCount(len(sess.Data)).
		DebugContext(r.Context(), "dataset generated")

	s.writeJSON(w, r, http.StatusOK, initialDataResponse{
		Session: sess.ID,
		Data:    sess.Data,
		Bounds:  cloud.Domain,
	})
}

func (s *Server) handleKMeans(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.cluster(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess, err := s.lookup(sessionID(r, q.Get("session")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	extent := pointcloud.Extent(sess.Data)
	plot := chart.Plot{
		Title:  "Generated Data",
		Points: sess.Data,
		Min:    extent.Min,
		Max:    extent.Max,
	}

	if q.Has("num_clusters") || q.Has("init_method") {
		req := newRunRequest()
		req.Session = sess.ID
		if v := q.Get("init_method"); v != "" {
			req.InitMethod = v
		}
		if v := q.Get("num_clusters"); v != "" {
			if req.NumClusters, err = strconv.Atoi(v); err != nil {
				s.writeError(w, r, fmt.Errorf("%w: num_clusters: %w", errBadRequest, err))
				return
			}
		}

		resp, err := s.cluster(r.Context(), &req)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		last := len(resp.Labels) - 1
		plot.Title = fmt.Sprintf("K-Means (%s, k=%d, %s)", req.InitMethod, req.NumClusters, resp.Outcome)
		plot.Labels = resp.Labels[last]
		plot.Centroids = resp.Centroids[len(resp.Centroids)-1]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(w, plot); err != nil {
		s.opts.logger.ErrorContext(r.Context(), "chart render failed", "error", err)
	}
}

// handleDeleteSession drops the dataset of a session and expires its cookie.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r, r.URL.Query().Get("session"))
	if id == "" || !s.sessions.Delete(id) {
		s.writeError(w, r, session.ErrNotFound)
		return
	}
	setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// parseForm reads a runRequest from urlencoded or multipart form fields.
func (s *Server) parseForm(r *http.Request) (*runRequest, error) {
	req := newRunRequest()
	req.Session = sessionID(r, r.FormValue("session"))
	req.RunToConvergence = strings.EqualFold(strings.TrimSpace(r.FormValue("run_to_convergence")), "true")
	if v := r.FormValue("init_method"); v != "" {
		req.InitMethod = v
	}

	if v := r.FormValue("num_clusters"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: num_clusters: %w", errBadRequest, err)
		}
		req.NumClusters = n
	}
	if v := r.FormValue("max_iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: max_iterations: %w", errBadRequest, err)
		}
		req.MaxIterations = n
	}

	if strings.EqualFold(strings.TrimSpace(req.InitMethod), clusterviz.StrategyManual.String()) {
		v := r.FormValue("centroids")
		if v == "" {
			return nil, fmt.Errorf("%w: centroids are required for manual initialization", errBadRequest)
		}
		if err := s.opts.codec.Unmarshal([]byte(v), &req.Centroids); err != nil {
			return nil, fmt.Errorf("%w: centroids: %w", errBadRequest, err)
		}
	}
	return &req, nil
}

func (s *Server) lookup(id string) (*session.Session, error) {
	if id == "" {
		return nil, session.ErrNotFound
	}
	return s.sessions.Get(id)
}

// cluster runs req against its session dataset, consulting the result cache
// for manual runs.
func (s *Server) cluster(ctx context.Context, req *runRequest) (*kmeansResponse, error) {
	sess, err := s.lookup(req.Session)
	if err != nil {
		return nil, err
	}

	if req.MaxIterations < 0 {
		return nil, fmt.Errorf("%w: max_iterations must not be negative", errBadRequest)
	}

	init, err := clusterviz.ParseStrategy(req.InitMethod, req.Centroids)
	if err != nil {
		return nil, err
	}

	var key string
	if s.results != nil && init.Strategy() == clusterviz.StrategyManual {
		key = s.cacheKey(sess, req)
		if v, ok := s.results.Get(key); ok {
			return v.(*kmeansResponse), nil
		}
	}

	if err := s.admit(ctx); err != nil {
		return nil, err
	}
	defer s.opts.rc.ReleaseRun()

	res, err := s.clusterer.Run(ctx, clusterviz.Request{
		Dataset:       sess.Data,
		K:             req.NumClusters,
		Init:          init,
		MaxIterations: req.MaxIterations,
		Mode:          req.mode(),
	})
	if err != nil {
		return nil, err
	}

	resp := newKMeansResponse(sess.Data, res)
	if key != "" {
		s.results.SetDefault(key, resp)
	}
	return resp, nil
}

// admit waits for a run slot for at most the configured run wait timeout.
func (s *Server) admit(ctx context.Context) error {
	if s.opts.runWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.runWait)
		defer cancel()
	}
	return s.opts.rc.AcquireRun(ctx)
}

func (s *Server) cacheKey(sess *session.Session, req *runRequest) string {
	return fmt.Sprintf("%s/%d/%s", sess.ID, sess.Generation, codec.MustMarshal(s.opts.codec, req))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	b, err := s.opts.codec.Marshal(v)
	if err != nil {
		s.opts.logger.ErrorContext(r.Context(), "encode response failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", codec.ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.opts.logger.ErrorContext(r.Context(), "request error", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}
