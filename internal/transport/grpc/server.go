package grpcx

import (
	"context"
	"errors"

	"github.com/cwrk-planet/course-relay/internal/domain"
	"github.com/cwrk-planet/course-relay/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "registry.v1.Registry"

// RegistryServer exposes the resource registry. Messages are free-form
// google.protobuf.Struct values carrying the same fields as the HTTP JSON.
type RegistryServer interface {
	CreateUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	CreateCourse(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListCourses(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var registryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUser", Handler: unary("CreateUser", RegistryServer.CreateUser)},
		{MethodName: "GetUser", Handler: unary("GetUser", RegistryServer.GetUser)},
		{MethodName: "CreateCourse", Handler: unary("CreateCourse", RegistryServer.CreateCourse)},
		{MethodName: "ListCourses", Handler: unary("ListCourses", RegistryServer.ListCourses)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "registry/v1/registry.proto",
}

func unary(method string, call func(RegistryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RegistryServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type Server struct {
	registry *service.RegistryService
}

func NewServer(registry *service.RegistryService) *Server {
	return &Server{registry: registry}
}

// Register adds the registry and the standard health service to gs.
func Register(gs *grpc.Server, s *Server) *health.Server {
	gs.RegisterService(&registryServiceDesc, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return hs
}

// -------- helpers --------

func str(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func strList(in *structpb.Struct, key string) []string {
	values := in.GetFields()[key].GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.GetStringValue())
	}
	return out
}

func toAnyList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func userFields(u *domain.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"bio":      u.Bio,
		"skills":   toAnyList(u.Skills),
	}
}

func courseFields(c *domain.Course) map[string]any {
	return map[string]any{
		"id":     c.ID,
		"userId": c.UserID,
		"title":  c.Title,
		"desc":   c.Desc,
		"image":  c.Image,
	}
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidCursor):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// -------- methods --------

func (s *Server) CreateUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.registry.CreateUser(ctx, str(in, "username"), str(in, "bio"), strList(in, "skills"))
	if err != nil {
		return nil, mapErr(err)
	}

	return toStruct(userFields(u))
}

func (s *Server) GetUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.registry.GetUser(ctx, str(in, "id"))
	if err != nil {
		return nil, mapErr(err)
	}

	return toStruct(userFields(u))
}

func (s *Server) CreateCourse(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	c, err := s.registry.CreateCourse(ctx, str(in, "userId"), str(in, "title"), str(in, "desc"), str(in, "image"))
	if err != nil {
		return nil, mapErr(err)
	}

	return toStruct(courseFields(c))
}

func (s *Server) ListCourses(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	limit := int(in.GetFields()["limit"].GetNumberValue())
	items, next, err := s.registry.ListCoursesPage(ctx, limit, str(in, "cursor"))
	if err != nil {
		return nil, mapErr(err)
	}

	list := make([]any, 0, len(items))
	for i := range items {
		m := courseFields(&items[i].Course)
		m["creator"] = items[i].Creator
		list = append(list, m)
	}

	return toStruct(map[string]any{
		"items":      list,
		"nextCursor": next,
	})
}
