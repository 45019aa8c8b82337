package service

import (
	"net/mail"
	"regexp"
	"strings"

	"superchat/internal/apperror"
)

// Validation limits shared between signup and profile flows.
const (
	NicknameMinLength = 2
	NicknameMaxLength = 50
	PasswordMinLength = 8

	MessageContentMaxLength = 2000

	MessageListDefaultLimit = 100
	MessageListMaxLimit     = 200
)

// Nicknames allow latin letters, digits, and Hangul syllables only.
var nicknameRE = regexp.MustCompile(`^[a-zA-Z0-9가-힣]+$`)

func ValidateNickname(nickname string) error {
	n := []rune(nickname)
	if len(n) < NicknameMinLength || len(n) > NicknameMaxLength {
		return apperror.InvalidNicknameFormat()
	}
	if !nicknameRE.MatchString(nickname) {
		return apperror.InvalidNicknameFormat()
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return apperror.Validation("Please enter an email address.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperror.Validation("Please enter a valid email address.")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return apperror.Validation("Please enter a password.")
	}
	if len(password) < PasswordMinLength {
		return apperror.Validation("Password must be at least 8 characters.")
	}
	return nil
}

// ValidateMessageContent trims the content and enforces the length bounds.
// Returns the trimmed content.
func ValidateMessageContent(content string) (string, error) {
	if len([]rune(content)) > MessageContentMaxLength {
		return "", apperror.MessageTooLong()
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperror.MessageEmpty()
	}
	return trimmed, nil
}
