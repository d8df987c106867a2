// Package client talks to the point map API and keeps the client-side
// session and annotation caches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "pointmap/internal/errors"
	"pointmap/internal/model"
)

// DefaultTimeout bounds a single API round trip.
const DefaultTimeout = 15 * time.Second

// User is the identity returned by a successful login.
type User struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Session is a token plus the identity it was issued for.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// NewPoint is the body sent when creating a point.
type NewPoint struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Timestamp   string            `json:"timestamp"`
	Image       string            `json:"image"`
	Coordinates model.Coordinates `json:"coordinates"`
}

// API is a thin JSON client for the /api endpoints.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI builds an API client. A non-positive timeout uses DefaultTimeout.
func NewAPI(baseURL string, timeout time.Duration) *API {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a session.
func (a *API) Login(ctx context.Context, username, password string) (*Session, error) {
	body := map[string]string{"username": username, "password": password}

	var session Session
	if err := a.do(ctx, http.MethodPost, "/api/login", "", body, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &session, nil
}

// ListPoints returns the points visible to the token's user.
func (a *API) ListPoints(ctx context.Context, token string) ([]model.Point, error) {
	var points []model.Point
	if err := a.do(ctx, http.MethodGet, "/api/points", token, nil, &points); err != nil {
		return nil, err
	}
	if points == nil {
		points = []model.Point{}
	}
	return points, nil
}

// CreatePoint stores a point and returns its ID.
func (a *API) CreatePoint(ctx context.Context, token string, p NewPoint) (uint, error) {
	var resp struct {
		ID uint `json:"id"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/points", token, p, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// ClearPoints removes every point. The server rejects non-admin tokens.
func (a *API) ClearPoints(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodDelete, "/api/points", token, nil, nil)
}

func (a *API) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error envelope back into the matching sentinel.
func decodeError(resp *http.Response) error {
	var envelope apperrors.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &envelope)

	message := envelope.Error
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	var sentinel error
	switch envelope.Code {
	case "INVALID_CREDENTIALS":
		sentinel = apperrors.ErrInvalidCredentials
	case "UNAUTHENTICATED":
		sentinel = apperrors.ErrUnauthenticated
	case "FORBIDDEN":
		sentinel = apperrors.ErrForbidden
	case "VALIDATION_ERROR":
		sentinel = apperrors.ErrValidation
	case "USER_ALREADY_EXISTS":
		sentinel = apperrors.ErrUserAlreadyExists
	case "STORAGE_FAILURE":
		sentinel = apperrors.ErrStorage
	}

	if sentinel == nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			sentinel = apperrors.ErrUnauthenticated
		case http.StatusForbidden:
			sentinel = apperrors.ErrForbidden
		case http.StatusBadRequest:
			sentinel = apperrors.ErrValidation
		default:
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, message)
		}
	}
	if message == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}
