package profile

import (
	"strings"

	"hey-sainty/cmd/web/clients/userclient"
)

const (
	MsgCredentialsRequired = "Email and password are required"
	MsgSignupRequired      = "Name, email and password are required"
	MsgBadCredentials      = "Please try to login with correct credentials"
	MsgEmailTaken          = "Could not create the account. The email may already be registered."
)

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	// Next is where to go after signing in.
	Next string `form:"next"`
}

func (f LoginForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return check([]string{MsgCredentialsRequired})
	}
	return nil
}

func (f LoginForm) Request() userclient.LoginRequest {
	return userclient.LoginRequest{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

type SignupForm struct {
	Name            string `form:"name"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

func (f SignupForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return check([]string{MsgSignupRequired})
	}
	var msgs []string
	if !validEmail(strings.TrimSpace(f.Email)) {
		msgs = append(msgs, MsgEmailInvalid)
	}
	if f.Password != f.ConfirmPassword {
		msgs = append(msgs, MsgPasswordMismatch)
	}
	return check(msgs)
}

func (f SignupForm) Request() userclient.SignupRequest {
	return userclient.SignupRequest{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

// SafeNext returns next when it is a local path, otherwise "/".
func SafeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\") {
		return next
	}
	return "/"
}
