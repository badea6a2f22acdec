package userclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hey-sainty/cmd/web/httpclient"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(httpclient.NewBaseClient(srv.URL))
}

func TestLoginReturnsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		var in LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a@b.c", in.Email)
		_, _ = w.Write([]byte(`{"success":true,"authtoken":"tok-1"}`))
	})

	token, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestLoginRejected(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"success false": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"error":"Please try to login with correct credentials"}`))
		},
		"status 401": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"empty token": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h)
			_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "bad"})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestCreateUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/createuser", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"authtoken":"new-tok"}`))
	})

	token, err := c.CreateUser(context.Background(), SignupRequest{Name: "Ann", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "new-tok", token)
}

func TestGetUserSendsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/getuser", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get(httpclient.AuthTokenHeader))
		_, _ = w.Write([]byte(`{"_id":"u1","name":"Ann","email":"a@b.c","date":"2024-01-02T00:00:00Z","notifications":{"newsletter":true}}`))
	})

	u, err := c.GetUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.True(t, u.Notifications.Newsletter)
	assert.Equal(t, 2024, u.Date.Year())
}

func TestGetUserUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GetUser(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/changepassword", r.URL.Path)
		http.Error(w, `{"error":"Current password is incorrect"}`, http.StatusBadRequest)
	})

	err := c.ChangePassword(context.Background(), "tok", ChangePasswordRequest{CurrentPassword: "x", NewPassword: "y"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateNotificationsAndDelete(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.UpdateNotifications(context.Background(), "tok", NotificationSettings{NewFollowers: true}))
	require.NoError(t, c.DeleteUser(context.Background(), "tok"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /auth/notifications", "DELETE /auth/deleteuser"}, calls)
}

func TestUpdateUserServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.UpdateUser(context.Background(), "tok", UpdateProfileRequest{Name: "Ann", Email: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}
