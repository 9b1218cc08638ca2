package handler

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin staff staff_warehouse staff_shipping"`
}

type authResponse struct {
	Token string    `json:"token,omitempty"`
	User  *userView `json:"user,omitempty"`
}
