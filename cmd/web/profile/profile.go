// Package profile holds the account panel's tab list and the validation of
// each tab's form. Forms only check presence; everything else is left to
// the user API.
package profile

import (
	"net/mail"
	"strings"

	"hey-sainty/cmd/web/clients/userclient"
)

// DeleteConfirmation must be typed to delete the account.
const DeleteConfirmation = "DELETE"

const (
	MsgNameRequired      = "Name is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Enter a valid email address"
	MsgPasswordsRequired = "All password fields are required"
	MsgPasswordMismatch  = "New password and confirmation do not match"
	MsgDeleteConfirm     = "Type DELETE to confirm"
	MsgWrongPassword     = "Current password is incorrect"
)

type Tab struct {
	Slug  string
	Title string
}

// Tabs in display order. The first one is the default.
var Tabs = []Tab{
	{Slug: "my-profile", Title: "My Profile"},
	{Slug: "edit-profile", Title: "Edit Profile"},
	{Slug: "change-password", Title: "Change Password"},
	{Slug: "notifications", Title: "Notification Settings"},
	{Slug: "account", Title: "Account Settings"},
}

// TabFor returns the tab with the given slug, or My Profile when unknown.
func TabFor(slug string) Tab {
	for _, t := range Tabs {
		if t.Slug == slug {
			return t
		}
	}
	return Tabs[0]
}

type NavItem struct {
	Tab
	Active bool
}

// Nav returns the side navigation with the active tab marked.
func Nav(active Tab) []NavItem {
	items := make([]NavItem, len(Tabs))
	for i, t := range Tabs {
		items[i] = NavItem{Tab: t, Active: t.Slug == active.Slug}
	}
	return items
}

// FormError carries the inline messages of a rejected form.
type FormError struct {
	Messages []string
}

func (e *FormError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func check(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &FormError{Messages: msgs}
}

type EditProfileForm struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	Bio   string `form:"bio"`
}

func (f EditProfileForm) Validate() error {
	var msgs []string
	if strings.TrimSpace(f.Name) == "" {
		msgs = append(msgs, MsgNameRequired)
	}
	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		msgs = append(msgs, MsgEmailRequired)
	case !validEmail(email):
		msgs = append(msgs, MsgEmailInvalid)
	}
	return check(msgs)
}

func (f EditProfileForm) Request() userclient.UpdateProfileRequest {
	return userclient.UpdateProfileRequest{
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
		Bio:   strings.TrimSpace(f.Bio),
	}
}

type ChangePasswordForm struct {
	CurrentPassword string `form:"current_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

func (f ChangePasswordForm) Validate() error {
	if f.CurrentPassword == "" || f.NewPassword == "" || f.ConfirmPassword == "" {
		return check([]string{MsgPasswordsRequired})
	}
	if f.NewPassword != f.ConfirmPassword {
		return check([]string{MsgPasswordMismatch})
	}
	return nil
}

func (f ChangePasswordForm) Request() userclient.ChangePasswordRequest {
	return userclient.ChangePasswordRequest{CurrentPassword: f.CurrentPassword, NewPassword: f.NewPassword}
}

// NotificationForm has no required fields; unchecked boxes are simply absent.
type NotificationForm struct {
	Newsletter     bool `form:"newsletter"`
	CommentReplies bool `form:"comment_replies"`
	NewFollowers   bool `form:"new_followers"`
}

func (f NotificationForm) Settings() userclient.NotificationSettings {
	return userclient.NotificationSettings{
		Newsletter:     f.Newsletter,
		CommentReplies: f.CommentReplies,
		NewFollowers:   f.NewFollowers,
	}
}

type DeleteAccountForm struct {
	Confirm string `form:"confirm"`
}

func (f DeleteAccountForm) Validate() error {
	if strings.TrimSpace(f.Confirm) != DeleteConfirmation {
		return check([]string{MsgDeleteConfirm})
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
