package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"superchat/internal/apperror"
	"superchat/internal/domain"
	"superchat/internal/security"
)

// AuthService handles signup and login.
type AuthService struct {
	users  domain.UserRepository
	tokens *security.TokenService
	hash   *security.PasswordHasher
}

func NewAuthService(users domain.UserRepository, tokens *security.TokenService, hash *security.PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hash:   hash,
	}
}

type SignupInput struct {
	Nickname string
	Email    string
	Password string
}

type SignupResult struct {
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
}

type LoginInput struct {
	Email    string
	Password string
}

// PublicUser is the user shape returned by auth endpoints.
type PublicUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"createdAt"`
}

type LoginResult struct {
	Token      string     `json:"token"`
	User       PublicUser `json:"user"`
	RedirectTo string     `json:"redirectTo"`
}

func publicUser(u *domain.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Signup creates a pending account after duplicate checks. Email delivery is
// mocked: the verification link is only logged.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	existing, err := s.users.GetByNickname(ctx, in.Nickname)
	if err != nil {
		return nil, apperror.DBError(err)
	}
	if existing != nil {
		log.Warn().Str("nickname", in.Nickname).Msg("signup attempt with duplicate nickname")
		return nil, apperror.DuplicateNickname()
	}

	existing, err = s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.DBError(err)
	}
	if existing != nil {
		log.Warn().Str("email", in.Email).Msg("signup attempt with duplicate email")
		return nil, apperror.DuplicateEmail()
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Email:        in.Email,
		Nickname:     in.Nickname,
		PasswordHash: hashed,
		Status:       domain.UserStatusPending,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.DBError(err)
	}

	log.Info().
		Str("email", in.Email).
		Msgf("[MOCK] Email verification link for %s: /verify-email?token=mock-token-%d", in.Email, user.ID)
	log.Info().Str("email", in.Email).Msg("new user signed up")

	return &SignupResult{
		Message:    "Signup complete. Please check your email.",
		RedirectTo: "/login",
	}, nil
}

// Login validates credentials and issues a 7-day token. Unknown emails and
// wrong passwords fail identically; only the inactive-account branch differs.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		log.Warn().Str("email", in.Email).Msg("login attempt for non-existent email")
		return nil, apperror.AuthFailed()
	}

	if user.Status != domain.UserStatusActive {
		log.Warn().Str("email", in.Email).Str("status", user.Status).Msg("login attempt for inactive account")
		return nil, apperror.AccountInactive(user.Status)
	}

	if err := s.hash.Verify(in.Password, user.PasswordHash); err != nil {
		log.Warn().Str("email", in.Email).Msg("invalid password")
		return nil, apperror.AuthFailed()
	}

	token, err := s.tokens.Create(security.TokenPayload{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	log.Info().Str("email", in.Email).Msg("successful login")

	return &LoginResult{
		Token:      token,
		User:       publicUser(user),
		RedirectTo: "/rooms",
	}, nil
}

// Me returns the public profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int64) (*PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.UserNotFound()
	}
	u := publicUser(user)
	return &u, nil
}
