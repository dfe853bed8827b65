package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// SplitBillServiceName is the fully-qualified name of the SplitBillService.
	SplitBillServiceName = "splitbill.v1.SplitBillService"
	// ParticipantServiceName is the fully-qualified name of the ParticipantService.
	ParticipantServiceName = "splitbill.v1.ParticipantService"
	// AuthServiceName is the fully-qualified name of the AuthService.
	AuthServiceName = "splitbill.v1.AuthService"
)

// Procedure paths.
const (
	SplitBillServiceCalculateProcedure    = "/" + SplitBillServiceName + "/Calculate"
	SplitBillServiceCreateRecordProcedure = "/" + SplitBillServiceName + "/CreateRecord"
	SplitBillServiceGetRecordProcedure    = "/" + SplitBillServiceName + "/GetRecord"
	SplitBillServiceUpdateRecordProcedure = "/" + SplitBillServiceName + "/UpdateRecord"
	SplitBillServiceDeleteRecordProcedure = "/" + SplitBillServiceName + "/DeleteRecord"
	SplitBillServiceListRecordsProcedure  = "/" + SplitBillServiceName + "/ListRecords"

	ParticipantServiceCreateParticipantProcedure = "/" + ParticipantServiceName + "/CreateParticipant"
	ParticipantServiceListParticipantsProcedure  = "/" + ParticipantServiceName + "/ListParticipants"
	ParticipantServiceRenameParticipantProcedure = "/" + ParticipantServiceName + "/RenameParticipant"
	ParticipantServiceDeleteParticipantProcedure = "/" + ParticipantServiceName + "/DeleteParticipant"

	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// IsProcedure reports whether path addresses one of the splitbill services.
func IsProcedure(path string) bool {
	return strings.HasPrefix(path, "/splitbill.v1.")
}

// procedureMux dispatches to per-procedure handlers under one service path.
type procedureMux map[string]http.Handler

func (m procedureMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.URL.Path]; ok {
		h.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

// SplitBillServiceHandler is implemented by the settlement calculation and
// record persistence service.
type SplitBillServiceHandler interface {
	Calculate(context.Context, *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error)
	CreateRecord(context.Context, *connect.Request[CreateRecordRequest]) (*connect.Response[CreateRecordResponse], error)
	GetRecord(context.Context, *connect.Request[GetRecordRequest]) (*connect.Response[GetRecordResponse], error)
	UpdateRecord(context.Context, *connect.Request[UpdateRecordRequest]) (*connect.Response[UpdateRecordResponse], error)
	DeleteRecord(context.Context, *connect.Request[DeleteRecordRequest]) (*connect.Response[DeleteRecordResponse], error)
	ListRecords(context.Context, *connect.Request[ListRecordsRequest]) (*connect.Response[ListRecordsResponse], error)
}

// NewSplitBillServiceHandler builds an HTTP handler for svc and returns the
// path to mount it on.
func NewSplitBillServiceHandler(svc SplitBillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SplitBillServiceName + "/", procedureMux{
		SplitBillServiceCalculateProcedure:    connect.NewUnaryHandler(SplitBillServiceCalculateProcedure, svc.Calculate, opts...),
		SplitBillServiceCreateRecordProcedure: connect.NewUnaryHandler(SplitBillServiceCreateRecordProcedure, svc.CreateRecord, opts...),
		SplitBillServiceGetRecordProcedure:    connect.NewUnaryHandler(SplitBillServiceGetRecordProcedure, svc.GetRecord, opts...),
		SplitBillServiceUpdateRecordProcedure: connect.NewUnaryHandler(SplitBillServiceUpdateRecordProcedure, svc.UpdateRecord, opts...),
		SplitBillServiceDeleteRecordProcedure: connect.NewUnaryHandler(SplitBillServiceDeleteRecordProcedure, svc.DeleteRecord, opts...),
		SplitBillServiceListRecordsProcedure:  connect.NewUnaryHandler(SplitBillServiceListRecordsProcedure, svc.ListRecords, opts...),
	}
}

// SplitBillServiceClient calls a SplitBillService.
type SplitBillServiceClient struct {
	calculate    *connect.Client[CalculateRequest, CalculateResponse]
	createRecord *connect.Client[CreateRecordRequest, CreateRecordResponse]
	getRecord    *connect.Client[GetRecordRequest, GetRecordResponse]
	updateRecord *connect.Client[UpdateRecordRequest, UpdateRecordResponse]
	deleteRecord *connect.Client[DeleteRecordRequest, DeleteRecordResponse]
	listRecords  *connect.Client[ListRecordsRequest, ListRecordsResponse]
}

// NewSplitBillServiceClient creates a client for the server at baseURL
// (for example, http://localhost:8080).
func NewSplitBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SplitBillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &SplitBillServiceClient{
		calculate:    connect.NewClient[CalculateRequest, CalculateResponse](httpClient, baseURL+SplitBillServiceCalculateProcedure, opts...),
		createRecord: connect.NewClient[CreateRecordRequest, CreateRecordResponse](httpClient, baseURL+SplitBillServiceCreateRecordProcedure, opts...),
		getRecord:    connect.NewClient[GetRecordRequest, GetRecordResponse](httpClient, baseURL+SplitBillServiceGetRecordProcedure, opts...),
		updateRecord: connect.NewClient[UpdateRecordRequest, UpdateRecordResponse](httpClient, baseURL+SplitBillServiceUpdateRecordProcedure, opts...),
		deleteRecord: connect.NewClient[DeleteRecordRequest, DeleteRecordResponse](httpClient, baseURL+SplitBillServiceDeleteRecordProcedure, opts...),
		listRecords:  connect.NewClient[ListRecordsRequest, ListRecordsResponse](httpClient, baseURL+SplitBillServiceListRecordsProcedure, opts...),
	}
}

func (c *SplitBillServiceClient) Calculate(ctx context.Context, req *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *SplitBillServiceClient) CreateRecord(ctx context.Context, req *connect.Request[CreateRecordRequest]) (*connect.Response[CreateRecordResponse], error) {
	return c.createRecord.CallUnary(ctx, req)
}

func (c *SplitBillServiceClient) GetRecord(ctx context.Context, req *connect.Request[GetRecordRequest]) (*connect.Response[GetRecordResponse], error) {
	return c.getRecord.CallUnary(ctx, req)
}

func (c *SplitBillServiceClient) UpdateRecord(ctx context.Context, req *connect.Request[UpdateRecordRequest]) (*connect.Response[UpdateRecordResponse], error) {
	return c.updateRecord.CallUnary(ctx, req)
}

func (c *SplitBillServiceClient) DeleteRecord(ctx context.Context, req *connect.Request[DeleteRecordRequest]) (*connect.Response[DeleteRecordResponse], error) {
	return c.deleteRecord.CallUnary(ctx, req)
}

func (c *SplitBillServiceClient) ListRecords(ctx context.Context, req *connect.Request[ListRecordsRequest]) (*connect.Response[ListRecordsResponse], error) {
	return c.listRecords.CallUnary(ctx, req)
}
