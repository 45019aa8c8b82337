package ws

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"superchat/internal/domain"
	"superchat/internal/realtime"
	"superchat/internal/security"
	"superchat/internal/service"
)

// event is the JSON frame pushed to subscribed clients.
type event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	eventNewMessage     = "new_message"
	eventUpdateMessage  = "update_message"
	eventReactionUpdate = "reaction_update"
)

func normalizeAllowedOrigins(origins []string) map[string]struct{} {
	res := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		o := strings.TrimSpace(strings.ToLower(origin))
		if o != "" {
			res[o] = struct{}{}
		}
	}
	return res
}

func makeCheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := normalizeAllowedOrigins(allowedOrigins)
	if len(allowed) == 0 {
		return func(r *http.Request) bool {
			return false
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(strings.ToLower(r.Header.Get("Origin")))
		if origin == "" {
			return false
		}
		if _, ok := allowed[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		normalized := strings.ToLower(fmt.Sprintf("%s://%s", u.Scheme, u.Host))
		_, ok := allowed[normalized]
		return ok
	}
}

// extractToken reads the bearer token from the Authorization header, or from
// the Sec-WebSocket-Protocol header for browser clients that cannot set
// arbitrary headers on a websocket dial.
func extractToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		token := strings.TrimSpace(authHeader[len("Bearer "):])
		if token != "" {
			return token, true
		}
	}

	protocolHeader := r.Header.Get("Sec-WebSocket-Protocol")
	if protocolHeader != "" {
		parts := strings.Split(protocolHeader, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) >= 2 && strings.EqualFold(parts[0], "bearer") {
			if parts[1] != "" {
				return parts[1], true
			}
		}
	}

	return "", false
}

// MakeHandler returns the /ws endpoint handler. It authenticates the caller,
// validates the room, and streams new_message / update_message /
// reaction_update frames for that room until the client disconnects.
func MakeHandler(
	hub *Hub,
	tokens *security.TokenService,
	rooms domain.RoomRepository,
	bridge *realtime.Bridge,
	allowedOrigins []string,
) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin:  makeCheckOrigin(allowedOrigins),
		Subprotocols: []string{"bearer"},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := extractToken(r)
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		payload, err := tokens.Parse(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		roomID, err := strconv.ParseInt(r.URL.Query().Get("room_id"), 10, 64)
		if err != nil || roomID < 1 {
			http.Error(w, "invalid room_id", http.StatusBadRequest)
			return
		}
		room, err := rooms.GetByID(r.Context(), roomID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if room == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("ws: upgrade failed")
			return
		}

		hub.Register(roomID, conn)

		// WriteJSON is not safe for concurrent use; bridge callbacks run on
		// the subscription goroutine while pings may come from elsewhere.
		var writeMu sync.Mutex
		send := func(ev event) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(ev); err != nil {
				log.Debug().Err(err).Int64("roomId", roomID).Msg("ws: write failed")
			}
		}

		unsubscribe := bridge.Subscribe(r.Context(), roomID, payload.UserID, realtime.Handlers{
			OnNewMessage: func(v *domain.MessageView) {
				send(event{Type: eventNewMessage, Data: service.NewMessageResponse(v)})
			},
			OnUpdateMessage: func(v *domain.MessageView) {
				send(event{Type: eventUpdateMessage, Data: service.NewMessageResponse(v)})
			},
			OnReactionUpdate: func(u realtime.ReactionUpdate) {
				send(event{Type: eventReactionUpdate, Data: u})
			},
		})

		defer func() {
			unsubscribe()
			hub.Unregister(roomID, conn)
			conn.Close()
		}()

		// Drain client frames; the stream is server-to-client only, so the
		// read loop exists to observe disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
