package handler

import (
	"time"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
)

// userView is the wire representation of a user. The password hash has no
// field here, so it cannot leak regardless of struct tags upstream.
type userView struct {
	ID          string    `json:"id"`
	Username    string    `json:"username,omitempty"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Role        string    `json:"role"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	HasPassword bool      `json:"has_password"`
	ExternalID  string    `json:"external_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserView(u *domain.User) *userView {
	if u == nil {
		return nil
	}
	return &userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Role:        string(u.Role),
		Address:     u.Address,
		Phone:       u.Phone,
		HasPassword: u.PasswordHash != "",
		ExternalID:  u.ExternalID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserViews(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, *toUserView(&users[i]))
	}
	return views
}
