// Package grpcserver exposes the procedure tree over gRPC, one service per namespace.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/stonesign/plaque-cms/internal/errs"
	"github.com/stonesign/plaque-cms/internal/identity"
	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/procedure"
)

// ServicePrefix qualifies every generated service name.
const ServicePrefix = "plaquecms.v1."

// Resolver maps a bearer token to a caller.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Invoker is the handler type of every generated service.
type Invoker interface {
	Invoke(ctx context.Context, procedure string, input json.RawMessage) (any, error)
}

// Server dispatches gRPC calls into the procedure router.
type Server struct {
	router *procedure.Router
	ident  Resolver
	log    *zap.Logger
}

// New constructs a Server.
func New(router *procedure.Router, ident Resolver, log *zap.Logger) *Server {
	return &Server{router: router, ident: ident, log: log}
}

// Register adds one service per procedure namespace to reg.
func (s *Server) Register(reg grpc.ServiceRegistrar) {
	for _, sd := range ServiceDescs(s.router) {
		reg.RegisterService(sd, s)
	}
}

// Invoke runs the procedure for the caller that IdentityUnary stored in ctx.
func (s *Server) Invoke(ctx context.Context, name string, input json.RawMessage) (any, error) {
	out, err := s.router.Invoke(ctx, name, identity.UserFromCtx(ctx), input)
	if err != nil {
		return nil, toStatus(err)
	}
	return out, nil
}

// IdentityUnary resolves the bearer token in the call metadata and stores the
// caller in context. A missing or unusable token leaves the call anonymous.
func (s *Server) IdentityUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if u := s.callerFromMD(ctx); u != nil {
			ctx = identity.WithUser(ctx, u)
		}
		return next(ctx, req)
	}
}

// Interceptors is the unary chain every listener serving s should install.
func (s *Server) Interceptors() grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		RecoverUnary(s.log),
		s.IdentityUnary(),
		LoggingUnary(s.log),
	)
}

func (s *Server) callerFromMD(ctx context.Context) *model.User {
	tok, ok := bearerTokenFromMD(ctx)
	if !ok || s.ident == nil {
		return nil
	}
	u, err := s.ident.Resolve(ctx, tok)
	if err != nil {
		s.log.Debug("identity not resolved", zap.Error(err))
		return nil
	}
	return u
}

func bearerTokenFromMD(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	for _, v := range md.Get("authorization") {
		if t, ok := identity.BearerToken(v); ok {
			return t, true
		}
	}
	return "", false
}

func toStatus(err error) error {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		st := status.New(codes.InvalidArgument, err.Error())
		var ve *errs.ValidationError
		if errors.As(err, &ve) {
			br := &errdetails.BadRequest{}
			for _, f := range ve.Fields {
				br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
					Field:       f.Field,
					Description: f.Reason,
				})
			}
			if withDetails, derr := st.WithDetails(br); derr == nil {
				st = withDetails
			}
		}
		return st.Err()
	case errs.KindUnauthenticated:
		return status.Error(codes.Unauthenticated, "authentication required")
	case errs.KindForbidden:
		return status.Error(codes.PermissionDenied, "admin access required")
	case errs.KindNotFound:
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal: %v", err)
	}
}

// MethodPath maps "content.getByPage" to "/plaquecms.v1.Content/GetByPage".
func MethodPath(name string) (string, error) {
	ns, method, ok := strings.Cut(name, ".")
	if !ok || ns == "" || method == "" {
		return "", fmt.Errorf("bad procedure name %q", name)
	}
	return "/" + ServicePrefix + upperFirst(ns) + "/" + upperFirst(method), nil
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

// ServiceDescs builds a service description per namespace of router.
func ServiceDescs(router *procedure.Router) []*grpc.ServiceDesc {
	byNS := map[string]*grpc.ServiceDesc{}
	var order []string
	for _, p := range router.Procedures() {
		ns, method, _ := strings.Cut(p.Name(), ".")
		sd, ok := byNS[ns]
		if !ok {
			sd = &grpc.ServiceDesc{
				ServiceName: ServicePrefix + upperFirst(ns),
				HandlerType: (*Invoker)(nil),
				Metadata:    "plaquecms/v1/" + ns,
			}
			byNS[ns] = sd
			order = append(order, ns)
		}
		sd.Methods = append(sd.Methods, grpc.MethodDesc{
			MethodName: upperFirst(method),
			Handler:    methodHandler(p.Name(), "/"+sd.ServiceName+"/"+upperFirst(method)),
		})
	}
	out := make([]*grpc.ServiceDesc, 0, len(order))
	for _, ns := range order {
		out = append(out, byNS[ns])
	}
	return out
}

func methodHandler(name, fullMethod string) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		var in json.RawMessage
		if err := dec(&in); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "decode: %v", err)
		}
		inv := srv.(Invoker)
		if interceptor == nil {
			return inv.Invoke(ctx, name, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return inv.Invoke(ctx, name, *req.(*json.RawMessage))
		}
		return interceptor(ctx, &in, info, handler)
	}
}
