package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"superchat/internal/apperror"
	"superchat/internal/service"
)

type signupRequest struct {
	Nickname        string `json:"nickname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (r *signupRequest) validate() error {
	if err := service.ValidateNickname(r.Nickname); err != nil {
		return apperror.Validation(fmt.Sprintf(
			"Nickname must be %d-%d characters of letters, digits, or Hangul.",
			service.NicknameMinLength, service.NicknameMaxLength))
	}
	if err := service.ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := service.ValidatePassword(r.Password); err != nil {
		return err
	}
	// The client validates this too; the server re-checks.
	if r.Password != r.PasswordConfirm {
		return apperror.Validation("Passwords do not match.")
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary      Sign up
// @Description  Create a pending account and log a mock verification link
// @Tags         auth
// @Router       /auth/signup [post]
func handleSignup(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperror.Validation("Invalid JSON body."))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, err)
			return
		}

		result, err := authSvc.Signup(r.Context(), service.SignupInput{
			Nickname: req.Nickname,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, result)
	}
}

// @Summary      Log in
// @Description  Validate credentials and issue a 7-day token
// @Tags         auth
// @Router       /auth/login [post]
func handleLogin(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperror.Validation("Invalid JSON body."))
			return
		}
		if req.Email == "" {
			writeError(w, apperror.Validation("Please enter an email address."))
			return
		}
		if req.Password == "" {
			writeError(w, apperror.Validation("Please enter a password."))
			return
		}

		result, err := authSvc.Login(r.Context(), service.LoginInput{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, result)
	}
}

// @Summary      Current user
// @Tags         auth
// @Security     BearerAuth
// @Router       /auth/me [get]
func handleMe(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentIdentity(r)
		if !ok {
			writeError(w, apperror.Unauthorized())
			return
		}
		user, err := authSvc.Me(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, user)
	}
}
