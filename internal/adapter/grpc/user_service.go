package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"user-api/internal/usecase/user"
	apperrors "user-api/pkg/errors"
	"user-api/pkg/logger"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "user.v1.UserService"

// UserServiceServer is the server API for the user service.
type UserServiceServer interface {
	GetUser(context.Context, *GetUserRequest) (*user.UserDTO, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	CreateUser(context.Context, *user.UserDTO) (*user.UserDTO, error)
	UpdateUser(context.Context, *user.UserDTO) (*user.UserDTO, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error)
}

// UserServer implements the gRPC user service on top of the user usecase.
type UserServer struct {
	uc     user.Usecase
	mapper user.Mapper
	log    *zap.Logger
}

var _ UserServiceServer = (*UserServer)(nil)

// NewUserServer creates a new gRPC user service server
func NewUserServer(uc user.Usecase, mapper user.Mapper, log *zap.Logger) *UserServer {
	return &UserServer{uc: uc, mapper: mapper, log: log}
}

// GetUser handles gRPC GetUser request
func (s *UserServer) GetUser(ctx context.Context, req *GetUserRequest) (*user.UserDTO, error) {
	u, err := s.uc.FindByID(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "GetUser", err)
	}

	dto := s.mapper.ToDTO(*u)
	return &dto, nil
}

// ListUsers handles gRPC ListUsers request
func (s *UserServer) ListUsers(ctx context.Context, _ *ListUsersRequest) (*ListUsersResponse, error) {
	users, err := s.uc.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, "ListUsers", err)
	}

	return &ListUsersResponse{Users: user.ToDTOs(s.mapper, users)}, nil
}

// CreateUser handles gRPC CreateUser request
func (s *UserServer) CreateUser(ctx context.Context, req *user.UserDTO) (*user.UserDTO, error) {
	u, err := s.uc.Create(ctx, *req)
	if err != nil {
		return nil, s.fail(ctx, "CreateUser", err)
	}

	dto := s.mapper.ToDTO(*u)
	return &dto, nil
}

// UpdateUser handles gRPC UpdateUser request. The id of the message selects
// the user to update.
func (s *UserServer) UpdateUser(ctx context.Context, req *user.UserDTO) (*user.UserDTO, error) {
	u, err := s.uc.Update(ctx, *req)
	if err != nil {
		return nil, s.fail(ctx, "UpdateUser", err)
	}

	dto := s.mapper.ToDTO(*u)
	return &dto, nil
}

// DeleteUser handles gRPC DeleteUser request
func (s *UserServer) DeleteUser(ctx context.Context, req *DeleteUserRequest) (*DeleteUserResponse, error) {
	if err := s.uc.Delete(ctx, req.ID); err != nil {
		return nil, s.fail(ctx, "DeleteUser", err)
	}

	return &DeleteUserResponse{}, nil
}

func (s *UserServer) fail(ctx context.Context, method string, err error) error {
	log := logger.WithContext(ctx, s.log)
	if apperrors.KindOf(err) == apperrors.KindInternal {
		log.Error("grpc request failed", zap.String("method", method), zap.Error(err))
	} else {
		log.Debug("grpc request rejected", zap.String("method", method), zap.Error(err))
	}
	return apperrors.ToGRPCError(err)
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserServiceDesc, srv)
}

// UserServiceDesc describes the user service for grpc.Server.
var UserServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUser", Handler: getUserHandler},
		{MethodName: "ListUsers", Handler: listUsersHandler},
		{MethodName: "CreateUser", Handler: createUserHandler},
		{MethodName: "UpdateUser", Handler: updateUserHandler},
		{MethodName: "DeleteUser", Handler: deleteUserHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "user/v1/user.json",
}

// unary adapts a typed service method to grpc.MethodHandler.
func unary[Req any, Resp any](
	method string,
	call func(UserServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	getUserHandler    = unary("GetUser", UserServiceServer.GetUser)
	listUsersHandler  = unary("ListUsers", UserServiceServer.ListUsers)
	createUserHandler = unary("CreateUser", UserServiceServer.CreateUser)
	updateUserHandler = unary("UpdateUser", UserServiceServer.UpdateUser)
	deleteUserHandler = unary("DeleteUser", UserServiceServer.DeleteUser)
)
