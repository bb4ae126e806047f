package server

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
)

// handleEvents streams feed events to the client until it disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", s.logger)
		return
	}

	client, err := s.manager.Connect()
	if err != nil {
		handleError(w, err, s.logger)
		return
	}
	defer s.manager.Disconnect(client.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.Done:
			return

		case event, open := <-client.EventChan:
			if !open {
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("failed to encode feed event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		}
	}
}
