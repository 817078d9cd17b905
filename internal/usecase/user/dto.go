package user

// UserDTO is the transfer representation of a user used in request and
// response bodies.
type UserDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}
