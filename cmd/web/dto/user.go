package dto

// UserProfileDTO is the user shown on the My Profile tab.
type UserProfileDTO struct {
	ID          string           `json:"id" example:"64f0c1a2b3"`
	Name        string           `json:"name" example:"Sainty"`
	Email       string           `json:"email" example:"user@example.com"`
	Bio         string           `json:"bio"`
	MemberSince string           `json:"member_since" example:"2 Jan 2024"`
	Notify      NotificationsDTO `json:"notifications"`
}

type NotificationsDTO struct {
	Newsletter     bool `json:"newsletter"`
	CommentReplies bool `json:"comment_replies"`
	NewFollowers   bool `json:"new_followers"`
}
