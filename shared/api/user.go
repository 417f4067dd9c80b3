package api

// UpdateUserRequest is a partial profile update; absent fields stay untouched.
// Avatar is managed by the avatar upload endpoint.
type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=150,username"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
}
