package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hey-sainty/cmd/web/clients/userclient"
	"hey-sainty/cmd/web/httpclient"
	"hey-sainty/cmd/web/profile"
)

func newUserClient(t *testing.T, h http.HandlerFunc) *userclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return userclient.New(httpclient.NewBaseClient(srv.URL))
}

func TestCurrentMapsUser(t *testing.T) {
	svc := NewUserService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"u1","name":"Ann","email":"a@b.c","date":"2024-03-05T10:00:00Z","notifications":{"commentReplies":true}}`))
	}))

	u, err := svc.Current(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "5 Mar 2024", u.MemberSince)
	assert.True(t, u.Notify.CommentReplies)
}

func TestCurrentRejectedToken(t *testing.T) {
	svc := NewUserService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := svc.Current(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrSessionRejected)
}

func TestUserFormsValidateBeforeCalling(t *testing.T) {
	svc := NewUserService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s %s", r.Method, r.URL.Path)
	}))
	var ferr *profile.FormError

	_, err := svc.UpdateProfile(context.Background(), "tok", profile.EditProfileForm{})
	assert.True(t, errors.As(err, &ferr))

	err = svc.ChangePassword(context.Background(), "tok", profile.ChangePasswordForm{CurrentPassword: "a", NewPassword: "b", ConfirmPassword: "c"})
	assert.True(t, errors.As(err, &ferr))

	err = svc.DeleteAccount(context.Background(), "tok", profile.DeleteAccountForm{Confirm: "yes"})
	assert.True(t, errors.As(err, &ferr))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc := NewUserService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	err := svc.ChangePassword(context.Background(), "tok", profile.ChangePasswordForm{CurrentPassword: "a", NewPassword: "b", ConfirmPassword: "b"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFetchesDisplayName(t *testing.T) {
	svc := NewAuthService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_, _ = w.Write([]byte(`{"success":true,"authtoken":"tok"}`))
		case "/auth/getuser":
			assert.Equal(t, "tok", r.Header.Get(httpclient.AuthTokenHeader))
			_, _ = w.Write([]byte(`{"_id":"u1","name":"Ann"}`))
		}
	}))

	token, name, err := svc.Login(context.Background(), profile.LoginForm{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "Ann", name)
}

func TestLoginFallsBackToEmail(t *testing.T) {
	svc := NewAuthService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			_, _ = w.Write([]byte(`{"success":true,"authtoken":"tok"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, name, err := svc.Login(context.Background(), profile.LoginForm{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", name)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := NewAuthService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))

	_, _, err := svc.Login(context.Background(), profile.LoginForm{Email: "a@b.c", Password: "bad"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupReturnsToken(t *testing.T) {
	svc := NewAuthService(newUserClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/createuser", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"authtoken":"new"}`))
	}))

	token, name, err := svc.Signup(context.Background(), profile.SignupForm{Name: "Ann", Email: "ann@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "new", token)
	assert.Equal(t, "Ann", name)
}
