package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadLimit    = 1 << 20
	wsWriteTimeout = 10 * time.Second
)

// frame is one recorded iteration. Iteration 0 carries the initial centroids
// of a full run and has no labels.
type frame struct {
	Iteration int            `json:"iteration"`
	Centroids [][]float64    `json:"centroids"`
	Labels    []int          `json:"labels,omitempty"`
	Stats     *statsResponse `json:"stats,omitempty"`
}

// doneFrame terminates the frames of one run.
type doneFrame struct {
	Done       bool   `json:"done"`
	Outcome    string `json:"outcome"`
	Iterations int    `json:"iterations"`
}

type errorFrame struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// handleWebSocket serves one connection. Each text message is a runRequest;
// the reply is the run's frames followed by a doneFrame, or an errorFrame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.opts.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	ctx := r.Context()
	cookieSession := sessionID(r, "")
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.opts.logger.DebugContext(ctx, "websocket read failed", "error", err)
			}
			return
		}

		if err := s.opts.rc.Allow(); err != nil {
			if !s.sendError(conn, err) {
				return
			}
			continue
		}

		req := newRunRequest()
		if err := s.opts.codec.Unmarshal(msg, &req); err != nil {
			if !s.sendError(conn, fmt.Errorf("%w: %w", errBadRequest, err)) {
				return
			}
			continue
		}
		if req.Session == "" {
			req.Session = cookieSession
		}

		resp, err := s.cluster(ctx, &req)
		if err != nil {
			if !s.sendError(conn, err) {
				return
			}
			continue
		}

		if err := s.stream(conn, resp); err != nil {
			s.opts.logger.DebugContext(ctx, "websocket write failed", "error", err)
			return
		}
	}
}

// stream writes the frames of resp. Labels[i] pairs with the centroid set
// produced in the same iteration; a full run additionally has the initial set.
func (s *Server) stream(conn *websocket.Conn, resp *kmeansResponse) error {
	offset := len(resp.Centroids) - len(resp.Labels)
	if offset == 1 {
		if err := s.send(conn, frame{Iteration: 0, Centroids: resp.Centroids[0]}); err != nil {
			return err
		}
	}

	for i, labels := range resp.Labels {
		f := frame{
			Iteration: i + 1,
			Centroids: resp.Centroids[offset+i],
			Labels:    labels,
		}
		if i < len(resp.Stats) {
			f.Stats = &resp.Stats[i]
		}
		if err := s.send(conn, f); err != nil {
			return err
		}
	}

	return s.send(conn, doneFrame{Done: true, Outcome: resp.Outcome, Iterations: resp.Iterations})
}

func (s *Server) send(conn *websocket.Conn, v any) error {
	b, err := s.opts.codec.Marshal(v)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}

// sendError reports err to the client and returns whether the connection is
// still usable.
func (s *Server) sendError(conn *websocket.Conn, err error) bool {
	status, msg := statusFor(err)
	return s.send(conn, errorFrame{Error: msg, Status: status}) == nil
}
