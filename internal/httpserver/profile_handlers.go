package httpserver

import (
	"encoding/json"
	"net/http"

	"superchat/internal/apperror"
	"superchat/internal/service"
)

type updateNicknameRequest struct {
	Nickname string `json:"nickname"`
}

// @Summary      Update nickname
// @Tags         profile
// @Security     BearerAuth
// @Router       /profile/nickname [patch]
func handleUpdateNickname(profileSvc *service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentIdentity(r)
		if !ok {
			writeError(w, apperror.Unauthorized())
			return
		}
		var req updateNicknameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperror.Validation("Invalid JSON body."))
			return
		}

		profile, err := profileSvc.UpdateNickname(r.Context(), identity.UserID, req.Nickname)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, profile)
	}
}
