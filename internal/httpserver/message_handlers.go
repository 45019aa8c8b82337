package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"superchat/internal/apperror"
	"superchat/internal/domain"
	"superchat/internal/metrics"
	"superchat/internal/service"
)

type sendMessageRequest struct {
	RoomID          int64  `json:"roomId"`
	Content         string `json:"content"`
	ParentMessageID *int64 `json:"parentMessageId"`
}

// @Summary      Send a message
// @Description  Optionally a reply; the parent must live in the same room
// @Tags         messages
// @Security     BearerAuth
// @Router       /messages [post]
func handleSendMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentIdentity(r)
		if !ok {
			writeError(w, apperror.Unauthorized())
			return
		}
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperror.Validation("Invalid JSON body."))
			return
		}
		if req.RoomID < 1 {
			writeError(w, apperror.Validation("roomId must be a positive integer."))
			return
		}
		if req.ParentMessageID != nil && *req.ParentMessageID < 1 {
			writeError(w, apperror.Validation("parentMessageId must be a positive integer."))
			return
		}

		msg, err := msgSvc.SendMessage(r.Context(), service.SendMessageInput{
			RoomID:          req.RoomID,
			Content:         req.Content,
			ParentMessageID: req.ParentMessageID,
		}, identity.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		metrics.MessagesSentTotal.Inc()
		writeSuccess(w, http.StatusCreated, msg)
	}
}

// @Summary      Toggle a reaction
// @Description  Flips the caller's like on a message and returns the new count
// @Tags         messages
// @Security     BearerAuth
// @Router       /messages/{messageID}/reactions [post]
func handleToggleReaction(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentIdentity(r)
		if !ok {
			writeError(w, apperror.Unauthorized())
			return
		}
		idStr := chi.URLParam(r, "messageID")
		messageID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || messageID < 1 {
			writeError(w, apperror.Validation("Invalid message id."))
			return
		}

		result, err := msgSvc.ToggleReaction(r.Context(), messageID, identity.UserID, domain.DefaultReactionType)
		if err != nil {
			writeError(w, err)
			return
		}
		metrics.ReactionTogglesTotal.Inc()
		writeSuccess(w, http.StatusOK, result)
	}
}
