package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// RegisterRoutes mounts the chat API routes. The caller identity travels
// with every request (empty user_id = anonymous guest) and is forwarded to
// the engine before processing.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/message", handleMessage(engine))
		r.Post("/reset", handleReset(engine))
		r.Get("/state", handleState(engine))
		r.Get("/escalation", handleEscalation(engine))
		r.Get("/ws", handleWebSocket(engine))
	})
}

type messageRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func handleMessage(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		engine.SetIdentity(r.Context(), req.UserID)

		reply, err := engine.SendMessage(r.Context(), req.Message)
		switch {
		case errors.Is(err, ErrEmptyMessage):
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		case errors.Is(err, ErrBusy):
			http.Error(w, `{"error":"still working on the previous message"}`, http.StatusTooManyRequests)
			return
		case errors.Is(err, ErrConversationReset):
			http.Error(w, `{"error":"conversation was reset"}`, http.StatusConflict)
			return
		case err != nil:
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}
}

type resetRequest struct {
	UserID string `json:"user_id"`
}

func handleReset(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req.UserID = ""
		}

		engine.SetIdentity(r.Context(), req.UserID)
		engine.Reset(r.Context())

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.State())
	}
}

func handleState(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.SetIdentity(r.Context(), r.URL.Query().Get("user_id"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.State())
	}
}

func handleEscalation(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.SetIdentity(r.Context(), r.URL.Query().Get("user_id"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"escalate": engine.ShouldShowEscalationOption()})
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type    string `json:"type"` // "message" or "reset"
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type  string `json:"type"` // "reply", "state", or "error"
	Reply *Reply `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

func handleWebSocket(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("chat: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("chat: websocket read: %v", err)
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendWS(conn, wsResponse{Type: "error", Error: "invalid message format"})
				continue
			}

			engine.SetIdentity(r.Context(), req.UserID)

			switch req.Type {
			case "message":
				reply, err := engine.SendMessage(r.Context(), req.Content)
				if err != nil {
					sendWS(conn, wsResponse{Type: "error", Error: err.Error()})
					continue
				}
				sendWS(conn, wsResponse{Type: "reply", Reply: reply})
			case "reset":
				engine.Reset(r.Context())
				sendWS(conn, wsResponse{Type: "state"})
			default:
				sendWS(conn, wsResponse{Type: "error", Error: "unknown message type: " + req.Type})
			}
		}
	}
}

func sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("chat: websocket write: %v", err)
	}
}
