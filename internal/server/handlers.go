package server

import (
	"net/http"
	"strconv"

	"github.com/SublimeIbanez/Overseer/internal/sse"
)

type healthData struct {
	Status  string `json:"status"`
	Root    string `json:"root"`
	Clients int    `json:"clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthData{
		Status:  "ok",
		Root:    s.overseer.RootPath(),
		Clients: s.manager.ClientCount(),
	}, s.logger)
}

type treeData struct {
	Root       string   `json:"root"`
	Path       string   `json:"path"`
	SnapshotID string   `json:"snapshot_id,omitempty"`
	Lines      []string `json:"lines"`
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, treeData{
		Root:       s.overseer.RootName(),
		Path:       s.overseer.RootPath(),
		SnapshotID: s.overseer.SnapshotID(),
		Lines:      s.overseer.Render(s.renderer),
	}, s.logger)
}

type walkData struct {
	SnapshotID string `json:"snapshot_id"`
	Entries    uint64 `json:"entries"`
}

// handleWalk re-walks the root, saves the sidecar, reindexes and announces
// the fresh tree on the feed.
func (s *Server) handleWalk(w http.ResponseWriter, r *http.Request) {
	if err := s.overseer.Walk(r.Context(), s.strategy); err != nil {
		handleError(w, err, s.logger)
		return
	}
	if err := s.overseer.Save(); err != nil {
		handleError(w, err, s.logger)
		return
	}
	if err := s.index.IndexTree(s.overseer.Tree()); err != nil {
		handleError(w, err, s.logger)
		return
	}

	s.manager.Emit(sse.NewTreeUpdatedEvent(s.overseer.RootPath(), s.overseer.SnapshotID()))

	count, err := s.index.Count()
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, walkData{
		SnapshotID: s.overseer.SnapshotID(),
		Entries:    count,
	}, s.logger)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q", s.logger)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit", s.logger)
			return
		}
		limit = n
	}

	hits, err := s.index.Query(q, limit)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, hits, s.logger)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit", s.logger)
			return
		}
		limit = n
	}

	records, err := s.history.Recent(limit)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, records, s.logger)
}
