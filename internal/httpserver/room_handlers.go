package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"superchat/internal/apperror"
	"superchat/internal/service"
)

type createRoomRequest struct {
	Name string `json:"name"`
}

// @Summary      Create a chat room
// @Tags         rooms
// @Security     BearerAuth
// @Router       /rooms [post]
func handleCreateRoom(roomSvc *service.RoomService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentIdentity(r)
		if !ok {
			writeError(w, apperror.Unauthorized())
			return
		}
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperror.Validation("Invalid JSON body."))
			return
		}
		name := strings.TrimSpace(req.Name)
		if n := len([]rune(name)); n < 1 || n > 100 {
			writeError(w, apperror.Validation("Room name must be 1-100 characters."))
			return
		}

		room, err := roomSvc.CreateRoom(r.Context(), name, identity.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, room)
	}
}

// @Summary      List chat rooms
// @Tags         rooms
// @Security     BearerAuth
// @Router       /rooms [get]
func handleListRooms(roomSvc *service.RoomService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := roomSvc.ListRooms(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, rooms)
	}
}

// @Summary      Room detail
// @Tags         rooms
// @Security     BearerAuth
// @Router       /rooms/{roomID} [get]
func handleGetRoom(roomSvc *service.RoomService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := parseRoomID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		room, err := roomSvc.GetRoomDetail(r.Context(), roomID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, room)
	}
}

// @Summary      List room messages
// @Description  Cursor-paginated, returned in chronological order
// @Tags         messages
// @Security     BearerAuth
// @Router       /rooms/{roomID}/messages [get]
func handleListMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentIdentity(r)
		if !ok {
			writeError(w, apperror.Unauthorized())
			return
		}
		roomID, err := parseRoomID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		limit := service.MessageListDefaultLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, err = strconv.Atoi(v)
			if err != nil || limit < 1 || limit > service.MessageListMaxLimit {
				writeError(w, apperror.Validation("limit must be between 1 and 200."))
				return
			}
		}

		var before int64
		if v := r.URL.Query().Get("before"); v != "" {
			before, err = strconv.ParseInt(v, 10, 64)
			if err != nil || before < 1 {
				writeError(w, apperror.Validation("before must be a positive message id."))
				return
			}
		}

		list, err := msgSvc.ListMessages(r.Context(), roomID, identity.UserID, limit, before)
		if err != nil {
			writeError(w, err)
			return
		}
		writePaged(w, http.StatusOK, list.Messages, list.Total, list.HasMore)
	}
}

func parseRoomID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "roomID")
	roomID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || roomID < 1 {
		return 0, apperror.Validation("Invalid chat room id.")
	}
	return roomID, nil
}
