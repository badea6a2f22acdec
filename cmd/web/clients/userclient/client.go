package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"hey-sainty/cmd/web/httpclient"
)

// Client는 원격 API 의 /auth 계열 엔드포인트를 호출하는 얇은 클라이언트다.
//
//   - 세션 보관/만료 판단은 session 패키지가 담당하고, 이 클라이언트는
//     토큰 발급과 유저 데이터 조회/수정만 호출한다.
type Client struct {
	base *httpclient.BaseClient
}

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func New(base *httpclient.BaseClient) *Client {
	return &Client{base: base}
}

// -------------------- DTOs --------------------

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse 는 로그인/회원가입 응답이다. success 가 false 이면 error 에 사유가 담긴다.
type AuthResponse struct {
	Success   bool   `json:"success"`
	AuthToken string `json:"authtoken"`
	Error     string `json:"error,omitempty"`
}

type NotificationSettings struct {
	Newsletter     bool `json:"newsletter"`
	CommentReplies bool `json:"commentReplies"`
	NewFollowers   bool `json:"newFollowers"`
}

type User struct {
	ID            string               `json:"_id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Bio           string               `json:"bio,omitempty"`
	Date          time.Time            `json:"date"`
	Notifications NotificationSettings `json:"notifications"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// -------------------- Methods --------------------

// Login 은 POST /auth/login 을 호출해 세션 토큰을 발급받는다.
func (c *Client) Login(ctx context.Context, in LoginRequest) (string, error) {
	return c.authenticate(ctx, "/auth/login", in, "user-api Login")
}

// CreateUser 는 POST /auth/createuser 를 호출해 가입과 동시에 토큰을 발급받는다.
func (c *Client) CreateUser(ctx context.Context, in SignupRequest) (string, error) {
	return c.authenticate(ctx, "/auth/createuser", in, "user-api CreateUser")
}

func (c *Client) authenticate(ctx context.Context, relPath string, in any, op string) (string, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, relPath, "", in, &out, op)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !out.Success || out.AuthToken == "" {
		return "", ErrInvalidCredentials
	}
	return out.AuthToken, nil
}

// GetUser 는 POST /auth/getuser 를 호출해 토큰 주인의 정보를 조회한다.
func (c *Client) GetUser(ctx context.Context, token string) (User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/getuser", token, nil, &out, "user-api GetUser"); err != nil {
		return User{}, err
	}
	return out, nil
}

// UpdateUser 는 PUT /auth/updateuser 를 호출한다.
func (c *Client) UpdateUser(ctx context.Context, token string, in UpdateProfileRequest) (User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPut, "/auth/updateuser", token, in, &out, "user-api UpdateUser"); err != nil {
		return User{}, err
	}
	return out, nil
}

// ChangePassword 는 PUT /auth/changepassword 를 호출한다.
// 현재 비밀번호가 틀리면 ErrInvalidCredentials 를 반환한다.
func (c *Client) ChangePassword(ctx context.Context, token string, in ChangePasswordRequest) error {
	err := c.doJSON(ctx, http.MethodPut, "/auth/changepassword", token, in, nil, "user-api ChangePassword")
	if errors.Is(err, errBadRequest) {
		return ErrInvalidCredentials
	}
	return err
}

// UpdateNotifications 는 PUT /auth/notifications 를 호출한다.
func (c *Client) UpdateNotifications(ctx context.Context, token string, in NotificationSettings) error {
	return c.doJSON(ctx, http.MethodPut, "/auth/notifications", token, in, nil, "user-api UpdateNotifications")
}

// DeleteUser 는 DELETE /auth/deleteuser 를 호출해 계정을 삭제한다.
func (c *Client) DeleteUser(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodDelete, "/auth/deleteuser", token, nil, nil, "user-api DeleteUser")
}

var errBadRequest = errors.New("bad request")

// doJSON 은 in 을 JSON 바디로 보내고 200/201 응답을 out 으로 디코딩한다.
// in, out 이 nil 이면 해당 단계를 건너뛴다.
func (c *Client) doJSON(ctx context.Context, method, relPath, token string, in, out any, op string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.base.NewRequest(ctx, method, relPath, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	httpclient.SetAuthToken(req, token)

	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusBadRequest:
		return errors.Join(errBadRequest, httpclient.StatusError(op, resp))
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return httpclient.StatusError(op, resp)
	}
}
