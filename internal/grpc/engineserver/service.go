package engineserver

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "quoridor.engine.v1.EngineService"

// EngineServiceServer is the server API for the engine service. Every call is
// stateless: the full game state travels with the request.
type EngineServiceServer interface {
	NewGame(context.Context, *NewGameRequest) (*NewGameResponse, error)
	ValidateMove(context.Context, *ValidateMoveRequest) (*ValidateMoveResponse, error)
	ApplyMove(context.Context, *ApplyMoveRequest) (*ApplyMoveResponse, error)
	AvailableMoves(context.Context, *AvailableMovesRequest) (*AvailableMovesResponse, error)
	BotMove(context.Context, *BotMoveRequest) (*BotMoveResponse, error)
}

// ServiceDesc describes the engine service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("NewGame", EngineServiceServer.NewGame),
		unary("ValidateMove", EngineServiceServer.ValidateMove),
		unary("ApplyMove", EngineServiceServer.ApplyMove),
		unary("AvailableMoves", EngineServiceServer.AvailableMoves),
		unary("BotMove", EngineServiceServer.BotMove),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quoridor/engine/v1/engine.proto",
}

// RegisterEngineServiceServer registers srv with s
func RegisterEngineServiceServer(s grpc.ServiceRegistrar, srv EngineServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor that decodes Req, runs the interceptor
// chain and dispatches to call.
func unary[Req, Resp any](name string, call func(EngineServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	method := fullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EngineServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(EngineServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls the engine service over the JSON codec
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) NewGame(ctx context.Context, in *NewGameRequest, opts ...grpc.CallOption) (*NewGameResponse, error) {
	return invoke[NewGameResponse](ctx, c.cc, "NewGame", in, opts)
}

func (c *Client) ValidateMove(ctx context.Context, in *ValidateMoveRequest, opts ...grpc.CallOption) (*ValidateMoveResponse, error) {
	return invoke[ValidateMoveResponse](ctx, c.cc, "ValidateMove", in, opts)
}

func (c *Client) ApplyMove(ctx context.Context, in *ApplyMoveRequest, opts ...grpc.CallOption) (*ApplyMoveResponse, error) {
	return invoke[ApplyMoveResponse](ctx, c.cc, "ApplyMove", in, opts)
}

func (c *Client) AvailableMoves(ctx context.Context, in *AvailableMovesRequest, opts ...grpc.CallOption) (*AvailableMovesResponse, error) {
	return invoke[AvailableMovesResponse](ctx, c.cc, "AvailableMoves", in, opts)
}

func (c *Client) BotMove(ctx context.Context, in *BotMoveRequest, opts ...grpc.CallOption) (*BotMoveResponse, error) {
	return invoke[BotMoveResponse](ctx, c.cc, "BotMove", in, opts)
}
