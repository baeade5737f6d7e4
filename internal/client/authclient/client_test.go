package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/signup", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		switch {
		case c.Email == "" || c.Password == "":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Email and password are required"}`))
		case c.Email == "taken@example.com":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"User already exists"}`))
		default:
			_ = json.NewEncoder(w).Encode(Session{ID: "abc", Email: c.Email, Token: "tok"})
		}
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "pw1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid email or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Session{ID: "abc", Email: c.Email, Token: "tok"})
	})
	mux.HandleFunc("GET /api/check", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Identity{ID: "abc", Email: "a@example.com"})
	})
	mux.HandleFunc("GET /api/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestSignUp(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL + "/")
	ctx := context.Background()

	s, err := c.SignUp(ctx, "a@example.com", []byte("pw1"))
	require.NoError(t, err)
	require.Equal(t, &Session{ID: "abc", Email: "a@example.com", Token: "tok"}, s)

	_, err = c.SignUp(ctx, "taken@example.com", []byte("pw1"))
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	require.ErrorContains(t, err, "User already exists")

	_, err = c.SignUp(ctx, "", nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL)

	s, err := c.Login(context.Background(), "a@example.com", []byte("pw1"))
	require.NoError(t, err)
	require.Equal(t, "tok", s.Token)

	_, err = c.Login(context.Background(), "a@example.com", []byte("nope"))
	require.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestCheck(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL)

	id, err := c.Check(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "abc", id.ID)

	_, err = c.Check(context.Background(), "stale")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUnavailableAndInternal(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/boom", nil)
	require.NoError(t, err)
	require.ErrorIs(t, c.do(req, &Identity{}), common.ErrorInternal)

	ts.Close()
	_, err = c.Login(context.Background(), "a@example.com", []byte("pw1"))
	require.ErrorIs(t, err, common.ErrBackendUnavailable)
}
