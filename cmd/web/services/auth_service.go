package services

import (
	"context"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/clients/userclient"
	"hey-sainty/cmd/web/profile"
)

// AuthService 는 로그인/회원가입으로 원격 API 토큰을 발급받는다.
// 발급된 토큰을 쿠키 세션으로 만드는 일은 핸들러가 session.Manager 로 수행한다.
type AuthService struct {
	userClient *userclient.Client
}

func NewAuthService(userClient *userclient.Client) *AuthService {
	return &AuthService{userClient: userClient}
}

// Login 은 자격 증명을 검증받고 (토큰, 표시 이름) 을 반환한다.
func (s *AuthService) Login(ctx context.Context, form profile.LoginForm) (string, string, error) {
	if err := form.Validate(); err != nil {
		return "", "", err
	}
	token, err := s.userClient.Login(ctx, form.Request())
	if err != nil {
		return "", "", mapUserErr(err)
	}
	return token, s.displayName(ctx, token, form.Request().Email), nil
}

// Signup 은 계정을 만들고 곧바로 로그인 상태가 되도록 토큰을 반환한다.
func (s *AuthService) Signup(ctx context.Context, form profile.SignupForm) (string, string, error) {
	if err := form.Validate(); err != nil {
		return "", "", err
	}
	req := form.Request()
	token, err := s.userClient.CreateUser(ctx, req)
	if err != nil {
		return "", "", mapUserErr(err)
	}
	return token, req.Name, nil
}

// displayName 은 내비게이션에 보여줄 이름을 조회한다. 실패하면 이메일로 대신한다.
func (s *AuthService) displayName(ctx context.Context, token, fallback string) string {
	u, err := s.userClient.GetUser(ctx, token)
	if err != nil || u.Name == "" {
		if err != nil {
			logger.WarnWithFields("fetch user after login failed", logger.Fields{"error": err.Error()})
		}
		return fallback
	}
	return u.Name
}
