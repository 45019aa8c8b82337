// Package client is a Go client for the SuperChat API. It wraps the HTTP
// endpoints with typed calls, keeps a per-room message cache, and supports
// optimistic sends that roll back on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// APIError is a failure envelope decoded from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// User is the public user shape returned by auth and profile endpoints.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"createdAt"`
}

// Room is a chat room.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatorID int64     `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author is the message author slice embedded in messages.
type Author struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

// ParentPreview is the reply-target preview attached to replies.
type ParentPreview struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	User      Author    `json:"user"`
}

// Message is a chat message as the API returns it. LocalID and Pending are
// client-side only; they mark an optimistic entry that the server has not
// confirmed yet.
type Message struct {
	ID              int64          `json:"id"`
	RoomID          int64          `json:"roomId"`
	UserID          int64          `json:"userId"`
	User            Author         `json:"user"`
	Content         string         `json:"content"`
	ParentMessageID *int64         `json:"parentMessageId"`
	CreatedAt       time.Time      `json:"createdAt"`
	ReactionCount   int            `json:"reactionCount"`
	HasUserReacted  bool           `json:"hasUserReacted"`
	ParentMessage   *ParentPreview `json:"parentMessage,omitempty"`

	LocalID string `json:"-"`
	Pending bool   `json:"-"`
}

// MessagePage is one page of a room's history in chronological order.
type MessagePage struct {
	Messages []Message
	Total    int
	HasMore  bool
}

// SignupResult is the server's answer to a successful signup.
type SignupResult struct {
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
}

// LoginResult carries the issued token and the logged-in user.
type LoginResult struct {
	Token      string `json:"token"`
	User       User   `json:"user"`
	RedirectTo string `json:"redirectTo"`
}

// ReactionResult is the aggregate state after a reaction toggle.
type ReactionResult struct {
	MessageID    int64  `json:"messageId"`
	ReactionType string `json:"reactionType"`
	TotalCount   int    `json:"totalCount"`
	IsActive     bool   `json:"isActive"`
}

// ReactionUpdate is a realtime reaction frame.
type ReactionUpdate struct {
	MessageID      int64 `json:"messageId"`
	ReactionCount  int   `json:"reactionCount"`
	HasUserReacted bool  `json:"hasUserReacted"`
}

// Client calls the SuperChat HTTP API. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
	user  *User
}

// New builds a client for the given base URL, e.g. "http://localhost:8000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient swaps the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// SetToken installs a bearer token for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// CurrentUser returns the user captured from the last successful Login or Me
// call, or nil.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Pagination *struct {
		Total   int  `json:"total"`
		HasMore bool `json:"hasMore"`
	} `json:"pagination"`
}

// do performs one API call and decodes the envelope. Failure envelopes come
// back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: res.StatusCode, Code: "SERVER_ERROR", Message: "invalid response body"}
	}

	if !env.Success {
		apiErr := &APIError{Status: res.StatusCode, Code: "SERVER_ERROR"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return &env, nil
}

type signupRequest struct {
	Nickname        string `json:"nickname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// Signup registers a new account. The account starts pending until verified.
func (c *Client) Signup(ctx context.Context, nickname, email, password string) (*SignupResult, error) {
	var out SignupResult
	_, err := c.do(ctx, http.MethodPost, "/api/auth/signup", signupRequest{
		Nickname:        nickname,
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	_, err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = out.Token
	u := out.User
	c.user = &u
	c.mu.Unlock()

	return &out, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	_, err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	u := out
	c.user = &u
	c.mu.Unlock()

	return &out, nil
}

type createRoomRequest struct {
	Name string `json:"name"`
}

// CreateRoom creates a chat room with a unique name.
func (c *Client) CreateRoom(ctx context.Context, name string) (*Room, error) {
	var out Room
	_, err := c.do(ctx, http.MethodPost, "/api/rooms", createRoomRequest{Name: name}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRooms returns all rooms.
func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var out []Room
	_, err := c.do(ctx, http.MethodGet, "/api/rooms", nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetRoom fetches one room by id.
func (c *Client) GetRoom(ctx context.Context, roomID int64) (*Room, error) {
	var out Room
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/rooms/%d", roomID), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages fetches a page of a room's history. limit <= 0 uses the server
// default; before > 0 returns only messages older than that id.
func (c *Client) ListMessages(ctx context.Context, roomID int64, limit int, before int64) (*MessagePage, error) {
	path := fmt.Sprintf("/api/rooms/%d/messages", roomID)
	sep := "?"
	if limit > 0 {
		path += fmt.Sprintf("%slimit=%d", sep, limit)
		sep = "&"
	}
	if before > 0 {
		path += fmt.Sprintf("%sbefore=%d", sep, before)
	}

	var msgs []Message
	env, err := c.do(ctx, http.MethodGet, path, nil, &msgs)
	if err != nil {
		return nil, err
	}

	page := &MessagePage{Messages: msgs, Total: len(msgs)}
	if env.Pagination != nil {
		page.Total = env.Pagination.Total
		page.HasMore = env.Pagination.HasMore
	}
	return page, nil
}

type sendMessageRequest struct {
	RoomID          int64  `json:"roomId"`
	Content         string `json:"content"`
	ParentMessageID *int64 `json:"parentMessageId,omitempty"`
}

// SendMessage posts a message, optionally as a reply.
func (c *Client) SendMessage(ctx context.Context, roomID int64, content string, parentMessageID *int64) (*Message, error) {
	var out Message
	_, err := c.do(ctx, http.MethodPost, "/api/messages", sendMessageRequest{
		RoomID:          roomID,
		Content:         content,
		ParentMessageID: parentMessageID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleReaction flips the caller's like on a message.
func (c *Client) ToggleReaction(ctx context.Context, messageID int64) (*ReactionResult, error) {
	var out ReactionResult
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/messages/%d/reactions", messageID), struct{}{}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type updateNicknameRequest struct {
	Nickname string `json:"nickname"`
}

// UpdateNickname changes the authenticated user's nickname.
func (c *Client) UpdateNickname(ctx context.Context, nickname string) (*User, error) {
	var out User
	_, err := c.do(ctx, http.MethodPatch, "/api/profile/nickname", updateNicknameRequest{Nickname: nickname}, &out)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	u := out
	c.user = &u
	c.mu.Unlock()

	return &out, nil
}
