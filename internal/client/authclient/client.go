// Package authclient talks to the gallery token server over HTTP/JSON.
package authclient

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

	"github.com/dmitrijs2005/gophgallery/internal/common"
)

// Session is returned by sign-up and login.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Identity is returned by check.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client is an HTTP client for /api/signup, /api/login and /api/check.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SignUp(ctx context.Context, email string, password []byte) (*Session, error) {
	var s Session
	if err := c.post(ctx, "/api/signup", credentials{Email: email, Password: string(password)}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	var s Session
	if err := c.post(ctx, "/api/login", credentials{Email: email, Password: string(password)}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Check validates token and returns the identity it belongs to.
func (c *Client) Check(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/check", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	var id Identity
	if err := c.do(req, &id); err != nil {
		if errors.Is(err, common.ErrInvalidCredential) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	return &id, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mapStatus(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	var eb errorBody
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(b, &eb)
	msg := eb.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrInvalidCredential, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, msg)
	}
}
