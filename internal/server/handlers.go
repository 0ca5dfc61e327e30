package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ragchat/internal/domain"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type streamEvent struct {
	Type    string `json:"type"`
	Content any    `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "message and sessionId required")
		return
	}

	answer, err := s.chat.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.log.Error().Err(err).Msg("chat send failed")
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":    answer.Text,
		"context":   contextOrEmpty(answer.Context),
		"sessionId": req.SessionID,
	})
}

// handleStream answers over server-sent events. Event order: an optional
// context event, answer_chunk events, then a single done event. Errors
// before any output are sent as an error event so the stream always closes
// with something the client can act on.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "message and sessionId required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(ev streamEvent) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	_, err := s.chat.Stream(r.Context(), req.SessionID, req.Message,
		func(items []domain.ContextItem) error {
			return send(streamEvent{Type: "context", Content: items})
		},
		func(chunk string) error {
			return send(streamEvent{Type: "answer_chunk", Content: chunk})
		},
	)
	if err != nil {
		// Consumer may already be gone; a best-effort error event.
		s.log.Warn().Err(err).Msg("chat stream aborted")
		_ = send(streamEvent{Type: "error", Error: "failed to process message"})
		return
	}
	_ = send(streamEvent{Type: "done"})
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": uuid.NewString(),
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"message":   "Session created successfully",
	})
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	msgs := s.history(id, 1)
	resp := map[string]any{
		"sessionId": id,
		"isActive":  len(msgs) > 0,
	}
	if len(msgs) > 0 {
		resp["lastActivity"] = msgs[0].Timestamp
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	msgs := s.history(id, limit)
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": id,
		"history":   msgs,
		"count":     len(msgs),
	})
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.sessions != nil {
		if err := s.sessions.Clear(id); err != nil {
			s.log.Warn().Err(err).Str("session", id).Msg("failed to clear session")
			writeError(w, http.StatusInternalServerError, "failed to clear session")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": id,
		"message":   "Session cleared successfully",
		"clearedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"documents": s.store.Count(),
		"llm":       s.cfg.LLMConfigured,
		"sessions":  s.sessions != nil,
	})
}

// history reads session history, treating store failures as empty: history
// is a convenience and must not fail reads.
func (s *Server) history(id string, limit int) []domain.Message {
	if s.sessions == nil {
		return nil
	}
	msgs, err := s.sessions.History(id, limit)
	if err != nil {
		s.log.Warn().Err(err).Str("session", id).Msg("failed to read session history")
		return nil
	}
	return msgs
}

func contextOrEmpty(items []domain.ContextItem) []domain.ContextItem {
	if items == nil {
		return []domain.ContextItem{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
