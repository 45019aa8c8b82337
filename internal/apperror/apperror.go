// Package apperror defines the tagged errors the service layer returns.
// Every error carries the HTTP status and the machine-readable code that the
// response envelope exposes; handlers never invent status codes themselves.
package apperror

import "net/http"

type Error struct {
	Status  int    // HTTP status the handler should respond with
	Code    string // machine-readable code, e.g. "ROOM_NOT_FOUND"
	Message string // human-readable description
	Err     error  // underlying cause, never sent to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap attaches an underlying cause to a tagged error.
func Wrap(err error, status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

// --- validation / auth ---

func Validation(message string) *Error {
	return New(http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// AuthFailed is deliberately identical for unknown emails and wrong passwords
// so login responses carry no enumeration signal.
func AuthFailed() *Error {
	return New(http.StatusUnauthorized, "AUTH_FAILED", "Incorrect email or password.")
}

func AccountInactive(status string) *Error {
	msg := "This account has been deactivated. Please contact support."
	if status == "pending" {
		msg = "Email verification required. Please check your inbox."
	}
	return New(http.StatusForbidden, "ACCOUNT_INACTIVE", msg)
}

func Unauthorized() *Error {
	return New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
}

// --- conflicts ---

func DuplicateNickname() *Error {
	return New(http.StatusConflict, "DUPLICATE_NICKNAME", "This nickname is already in use.")
}

func DuplicateEmail() *Error {
	return New(http.StatusConflict, "DUPLICATE_EMAIL", "This email is already registered.")
}

func RoomNameDuplicate() *Error {
	return New(http.StatusConflict, "ROOM_NAME_DUPLICATE", "A room with this name already exists.")
}

func NicknameAlreadyExists() *Error {
	return New(http.StatusConflict, "NICKNAME_ALREADY_EXISTS", "This nickname is already in use. Please pick another one.")
}

// --- not found ---

func RoomNotFound() *Error {
	return New(http.StatusNotFound, "ROOM_NOT_FOUND", "Chat room not found.")
}

func MessageNotFound() *Error {
	return New(http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found.")
}

func ParentMessageNotFound() *Error {
	return New(http.StatusNotFound, "PARENT_MESSAGE_NOT_FOUND", "The message you are replying to no longer exists.")
}

func UserNotFound() *Error {
	return New(http.StatusNotFound, "USER_NOT_FOUND", "User not found.")
}

// --- bad requests ---

func InvalidParentMessage() *Error {
	return New(http.StatusBadRequest, "INVALID_PARENT_MESSAGE", "The parent message belongs to a different room.")
}

func InvalidNicknameFormat() *Error {
	return New(http.StatusBadRequest, "INVALID_NICKNAME_FORMAT", "Nickname format is invalid.")
}

func MessageEmpty() *Error {
	return New(http.StatusBadRequest, "MESSAGE_EMPTY", "Message content must not be empty.")
}

func MessageTooLong() *Error {
	return New(http.StatusBadRequest, "MESSAGE_TOO_LONG", "Message is too long. Please keep it under 2000 characters.")
}

// --- server failures ---

func DBError(err error) *Error {
	return Wrap(err, http.StatusInternalServerError, "DB_ERROR", "A database error occurred. Please try again later.")
}

func DBSaveFailed(err error) *Error {
	return Wrap(err, http.StatusInternalServerError, "DB_SAVE_FAILED", "Failed to send the message. Please try again later.")
}

func MessageFetchFailed(err error) *Error {
	return Wrap(err, http.StatusInternalServerError, "MESSAGE_FETCH_FAILED", "Failed to load messages.")
}

func ReactionToggleFailed(err error) *Error {
	return Wrap(err, http.StatusInternalServerError, "REACTION_TOGGLE_FAILED", "Failed to update the reaction. Please try again later.")
}

func NicknameUpdateFailed(err error) *Error {
	return Wrap(err, http.StatusInternalServerError, "NICKNAME_UPDATE_FAILED", "Failed to update the nickname. Please try again later.")
}

func Internal(err error) *Error {
	return Wrap(err, http.StatusInternalServerError, "SERVER_ERROR", "A temporary error occurred. Please try again later.")
}
