package grpc

import (
	"context"

	"google.golang.org/grpc"

	"user-api/internal/usecase/user"
)

// UserServiceClient calls the user service over a client connection using
// the JSON codec.
type UserServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewUserServiceClient creates a client for the user service on cc.
func NewUserServiceClient(cc grpc.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

func (c *UserServiceClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *UserServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*user.UserDTO, error) {
	out := new(user.UserDTO)
	if err := c.invoke(ctx, "GetUser", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	out := new(ListUsersResponse)
	if err := c.invoke(ctx, "ListUsers", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) CreateUser(ctx context.Context, in *user.UserDTO, opts ...grpc.CallOption) (*user.UserDTO, error) {
	out := new(user.UserDTO)
	if err := c.invoke(ctx, "CreateUser", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) UpdateUser(ctx context.Context, in *user.UserDTO, opts ...grpc.CallOption) (*user.UserDTO, error) {
	out := new(user.UserDTO)
	if err := c.invoke(ctx, "UpdateUser", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*DeleteUserResponse, error) {
	out := new(DeleteUserResponse)
	if err := c.invoke(ctx, "DeleteUser", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
