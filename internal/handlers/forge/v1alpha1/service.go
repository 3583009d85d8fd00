package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "cryptea.forge.v1alpha1.ForgeService"

// ForgeServiceServer is the server API for the forge service
type ForgeServiceServer interface {
	GetCatalog(context.Context, *GetCatalogRequest) (*GetCatalogResponse, error)
	StartSession(context.Context, *StartSessionRequest) (*SessionResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*SessionResponse, error)
	SetActiveCategory(context.Context, *SetActiveCategoryRequest) (*SessionResponse, error)
	ToggleTrait(context.Context, *ToggleTraitRequest) (*SessionResponse, error)
	Randomize(context.Context, *RandomizeRequest) (*SessionResponse, error)
	ResetSelection(context.Context, *ResetSelectionRequest) (*SessionResponse, error)
	Compose(context.Context, *ComposeRequest) (*ComposeResponse, error)
	Preview(context.Context, *PreviewRequest) (*PreviewResponse, error)
	Publish(context.Context, *PublishRequest) (*PublishResponse, error)
	ConfirmMint(context.Context, *ConfirmMintRequest) (*ConfirmMintResponse, error)
	EndSession(context.Context, *EndSessionRequest) (*EndSessionResponse, error)
}

// ForgeService_ServiceDesc describes the forge service for grpc.Server
var ForgeService_ServiceDesc = grpc.ServiceDesc{ //nolint:revive
	ServiceName: ServiceName,
	HandlerType: (*ForgeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetCatalog", ForgeServiceServer.GetCatalog),
		unary("StartSession", ForgeServiceServer.StartSession),
		unary("GetSession", ForgeServiceServer.GetSession),
		unary("SetActiveCategory", ForgeServiceServer.SetActiveCategory),
		unary("ToggleTrait", ForgeServiceServer.ToggleTrait),
		unary("Randomize", ForgeServiceServer.Randomize),
		unary("ResetSelection", ForgeServiceServer.ResetSelection),
		unary("Compose", ForgeServiceServer.Compose),
		unary("Preview", ForgeServiceServer.Preview),
		unary("Publish", ForgeServiceServer.Publish),
		unary("ConfirmMint", ForgeServiceServer.ConfirmMint),
		unary("EndSession", ForgeServiceServer.EndSession),
	},
	Streams:     []grpc.StreamDesc{},
}

// RegisterForgeServiceServer registers srv with s
func RegisterForgeServiceServer(s grpc.ServiceRegistrar, srv ForgeServiceServer) {
	s.RegisterService(&ForgeService_ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the method descriptor for one request/response call
func unary[Req, Resp any](
	method string,
	call func(ForgeServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ForgeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ForgeServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ForgeServiceClient is the client API for the forge service
type ForgeServiceClient interface {
	GetCatalog(ctx context.Context, in *GetCatalogRequest, opts ...grpc.CallOption) (*GetCatalogResponse, error)
	StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	SetActiveCategory(ctx context.Context, in *SetActiveCategoryRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	ToggleTrait(ctx context.Context, in *ToggleTraitRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	Randomize(ctx context.Context, in *RandomizeRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	ResetSelection(ctx context.Context, in *ResetSelectionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	Compose(ctx context.Context, in *ComposeRequest, opts ...grpc.CallOption) (*ComposeResponse, error)
	Preview(ctx context.Context, in *PreviewRequest, opts ...grpc.CallOption) (*PreviewResponse, error)
	Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error)
	ConfirmMint(ctx context.Context, in *ConfirmMintRequest, opts ...grpc.CallOption) (*ConfirmMintResponse, error)
	EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error)
}

type forgeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewForgeClient returns a client that speaks the JSON codec over conn
func NewForgeClient(conn grpc.ClientConnInterface) ForgeServiceClient {
	return &forgeServiceClient{cc: conn}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *forgeServiceClient) GetCatalog(ctx context.Context, in *GetCatalogRequest, opts ...grpc.CallOption) (*GetCatalogResponse, error) {
	return invoke[GetCatalogResponse](ctx, c.cc, "GetCatalog", in, opts)
}

func (c *forgeServiceClient) StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "StartSession", in, opts)
}

func (c *forgeServiceClient) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "GetSession", in, opts)
}

func (c *forgeServiceClient) SetActiveCategory(ctx context.Context, in *SetActiveCategoryRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "SetActiveCategory", in, opts)
}

func (c *forgeServiceClient) ToggleTrait(ctx context.Context, in *ToggleTraitRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "ToggleTrait", in, opts)
}

func (c *forgeServiceClient) Randomize(ctx context.Context, in *RandomizeRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "Randomize", in, opts)
}

func (c *forgeServiceClient) ResetSelection(ctx context.Context, in *ResetSelectionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "ResetSelection", in, opts)
}

func (c *forgeServiceClient) Compose(ctx context.Context, in *ComposeRequest, opts ...grpc.CallOption) (*ComposeResponse, error) {
	return invoke[ComposeResponse](ctx, c.cc, "Compose", in, opts)
}

func (c *forgeServiceClient) Preview(ctx context.Context, in *PreviewRequest, opts ...grpc.CallOption) (*PreviewResponse, error) {
	return invoke[PreviewResponse](ctx, c.cc, "Preview", in, opts)
}

func (c *forgeServiceClient) Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error) {
	return invoke[PublishResponse](ctx, c.cc, "Publish", in, opts)
}

func (c *forgeServiceClient) ConfirmMint(ctx context.Context, in *ConfirmMintRequest, opts ...grpc.CallOption) (*ConfirmMintResponse, error) {
	return invoke[ConfirmMintResponse](ctx, c.cc, "ConfirmMint", in, opts)
}

func (c *forgeServiceClient) EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error) {
	return invoke[EndSessionResponse](ctx, c.cc, "EndSession", in, opts)
}
