package services

import (
	"context"
	"errors"

	"hey-sainty/cmd/web/clients/userclient"
	"hey-sainty/cmd/web/dto"
	"hey-sainty/cmd/web/profile"
)

// UserService 는 프로필 화면의 각 탭이 호출하는 유저 API 작업을 묶는다.
// 모든 메서드는 세션 토큰을 받아 authtoken 헤더로 전달한다.
type UserService struct {
	userClient *userclient.Client
}

func NewUserService(userClient *userclient.Client) *UserService {
	return &UserService{
		userClient: userClient,
	}
}

// Current 는 토큰 주인의 프로필을 조회한다.
func (s *UserService) Current(ctx context.Context, token string) (dto.UserProfileDTO, error) {
	u, err := s.userClient.GetUser(ctx, token)
	if err != nil {
		return dto.UserProfileDTO{}, mapUserErr(err)
	}
	return mapUser(u), nil
}

// UpdateProfile 은 Edit Profile 탭 폼을 검증한 뒤 저장한다.
func (s *UserService) UpdateProfile(ctx context.Context, token string, form profile.EditProfileForm) (dto.UserProfileDTO, error) {
	if err := form.Validate(); err != nil {
		return dto.UserProfileDTO{}, err
	}
	u, err := s.userClient.UpdateUser(ctx, token, form.Request())
	if err != nil {
		return dto.UserProfileDTO{}, mapUserErr(err)
	}
	return mapUser(u), nil
}

// ChangePassword 는 Change Password 탭 폼을 검증한 뒤 저장한다.
// 현재 비밀번호가 틀리면 ErrInvalidCredentials 를 반환한다.
func (s *UserService) ChangePassword(ctx context.Context, token string, form profile.ChangePasswordForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return mapUserErr(s.userClient.ChangePassword(ctx, token, form.Request()))
}

// UpdateNotifications 는 Notification Settings 탭 값을 그대로 저장한다.
func (s *UserService) UpdateNotifications(ctx context.Context, token string, form profile.NotificationForm) error {
	return mapUserErr(s.userClient.UpdateNotifications(ctx, token, form.Settings()))
}

// DeleteAccount 는 DELETE 확인 문구를 검사한 뒤 계정을 삭제한다.
func (s *UserService) DeleteAccount(ctx context.Context, token string, form profile.DeleteAccountForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return mapUserErr(s.userClient.DeleteUser(ctx, token))
}

func mapUserErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, userclient.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, userclient.ErrUnauthorized):
		return ErrSessionRejected
	case errors.Is(err, userclient.ErrInvalidCredentials):
		return ErrInvalidCredentials
	default:
		return err
	}
}

func mapUser(u userclient.User) dto.UserProfileDTO {
	out := dto.UserProfileDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Bio:   u.Bio,
		Notify: dto.NotificationsDTO{
			Newsletter:     u.Notifications.Newsletter,
			CommentReplies: u.Notifications.CommentReplies,
			NewFollowers:   u.Notifications.NewFollowers,
		},
	}
	if !u.Date.IsZero() {
		out.MemberSince = u.Date.Format(cardDateLayout)
	}
	return out
}
