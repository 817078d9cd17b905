package grpc

import "user-api/internal/usecase/user"

// GetUserRequest asks for a single user.
type GetUserRequest struct {
	ID int64 `json:"id"`
}

// ListUsersRequest asks for every user.
type ListUsersRequest struct{}

// ListUsersResponse holds every stored user.
type ListUsersResponse struct {
	Users []user.UserDTO `json:"users"`
}

// DeleteUserRequest asks for the removal of a single user.
type DeleteUserRequest struct {
	ID int64 `json:"id"`
}

// DeleteUserResponse is empty on success.
type DeleteUserResponse struct{}
