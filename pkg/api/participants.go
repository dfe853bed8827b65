package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ParticipantServiceHandler manages the caller's friends list.
type ParticipantServiceHandler interface {
	CreateParticipant(context.Context, *connect.Request[CreateParticipantRequest]) (*connect.Response[CreateParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error)
	RenameParticipant(context.Context, *connect.Request[RenameParticipantRequest]) (*connect.Response[RenameParticipantResponse], error)
	DeleteParticipant(context.Context, *connect.Request[DeleteParticipantRequest]) (*connect.Response[DeleteParticipantResponse], error)
}

// NewParticipantServiceHandler builds an HTTP handler for svc and returns the
// path to mount it on.
func NewParticipantServiceHandler(svc ParticipantServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ParticipantServiceName + "/", procedureMux{
		ParticipantServiceCreateParticipantProcedure: connect.NewUnaryHandler(ParticipantServiceCreateParticipantProcedure, svc.CreateParticipant, opts...),
		ParticipantServiceListParticipantsProcedure:  connect.NewUnaryHandler(ParticipantServiceListParticipantsProcedure, svc.ListParticipants, opts...),
		ParticipantServiceRenameParticipantProcedure: connect.NewUnaryHandler(ParticipantServiceRenameParticipantProcedure, svc.RenameParticipant, opts...),
		ParticipantServiceDeleteParticipantProcedure: connect.NewUnaryHandler(ParticipantServiceDeleteParticipantProcedure, svc.DeleteParticipant, opts...),
	}
}

// ParticipantServiceClient calls a ParticipantService.
type ParticipantServiceClient struct {
	create *connect.Client[CreateParticipantRequest, CreateParticipantResponse]
	list   *connect.Client[ListParticipantsRequest, ListParticipantsResponse]
	rename *connect.Client[RenameParticipantRequest, RenameParticipantResponse]
	delete *connect.Client[DeleteParticipantRequest, DeleteParticipantResponse]
}

// NewParticipantServiceClient creates a client for the server at baseURL.
func NewParticipantServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ParticipantServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ParticipantServiceClient{
		create: connect.NewClient[CreateParticipantRequest, CreateParticipantResponse](httpClient, baseURL+ParticipantServiceCreateParticipantProcedure, opts...),
		list:   connect.NewClient[ListParticipantsRequest, ListParticipantsResponse](httpClient, baseURL+ParticipantServiceListParticipantsProcedure, opts...),
		rename: connect.NewClient[RenameParticipantRequest, RenameParticipantResponse](httpClient, baseURL+ParticipantServiceRenameParticipantProcedure, opts...),
		delete: connect.NewClient[DeleteParticipantRequest, DeleteParticipantResponse](httpClient, baseURL+ParticipantServiceDeleteParticipantProcedure, opts...),
	}
}

func (c *ParticipantServiceClient) CreateParticipant(ctx context.Context, req *connect.Request[CreateParticipantRequest]) (*connect.Response[CreateParticipantResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *ParticipantServiceClient) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *ParticipantServiceClient) RenameParticipant(ctx context.Context, req *connect.Request[RenameParticipantRequest]) (*connect.Response[RenameParticipantResponse], error) {
	return c.rename.CallUnary(ctx, req)
}

func (c *ParticipantServiceClient) DeleteParticipant(ctx context.Context, req *connect.Request[DeleteParticipantRequest]) (*connect.Response[DeleteParticipantResponse], error) {
	return c.delete.CallUnary(ctx, req)
}
