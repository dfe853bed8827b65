// Package service implements the splitbill Connect services on top of the
// settlement engine and the storage layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/pkg/api"
)

var _ api.SplitBillServiceHandler = (*SplitBillService)(nil)

// SplitBillService runs the settlement engine and persists records.
type SplitBillService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewSplitBillService creates a SplitBillService. m may be nil.
func NewSplitBillService(store storage.Store, m *metrics.Metrics) *SplitBillService {
	return &SplitBillService{store: store, metrics: m}
}

// requireUser returns the authenticated user ID or an Unauthenticated error.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

// storeError maps a storage error to a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// calculate runs the engine, recording metrics and logging every skipped
// reference at DEBUG.
func (s *SplitBillService) calculate(source string, participants []models.Participant, expenses []models.Expense, additional []models.AdditionalExpense) (models.SplitBillSummary, []calculator.Diagnostic) {
	diags := []calculator.Diagnostic{}
	start := time.Now()
	summary := calculator.Calculate(participants, expenses, additional,
		calculator.WithDiagnostics(func(d calculator.Diagnostic) {
			diags = append(diags, d)
		}),
	)
	s.metrics.ObserveCalculation(source, time.Since(start), diags)

	for _, d := range diags {
		slog.Debug("Skipped reference",
			"kind", d.Kind,
			"expense_id", d.ExpenseID,
			"additional", d.Additional,
			"participant_id", d.ParticipantID,
		)
	}
	slog.Debug("Calculated summary",
		"source", source,
		"participants", len(participants),
		"expenses", len(expenses),
		"additional_expenses", len(additional),
		"total", summary.Total,
		"settlements", len(summary.Settlements),
	)
	return summary, diags
}

// Calculate runs the engine without persisting anything. The engine accepts
// any input shape, so no validation happens here.
func (s *SplitBillService) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	summary, diags := s.calculate("rpc", req.Msg.Participants, req.Msg.Expenses, req.Msg.AdditionalExpenses)
	return connect.NewResponse(&api.CalculateResponse{
		Summary:     summary,
		Diagnostics: diags,
	}), nil
}

// recordInput is the validated, normalized body of a create/update request.
type recordInput struct {
	title        string
	participants []models.Participant
	expenses     []models.Expense
	additional   []models.AdditionalExpense
}

// validateRecordInput enforces what the engine leaves to callers: every
// participant has an ID and a name, every expense is described, has sharers
// and a usable amount. Expense IDs are generated when missing.
func validateRecordInput(title string, participants []models.Participant, expenses []models.Expense, additional []models.AdditionalExpense) (*recordInput, error) {
	in := &recordInput{
		title:        strings.TrimSpace(title),
		participants: make([]models.Participant, 0, len(participants)),
		expenses:     make([]models.Expense, 0, len(expenses)),
		additional:   make([]models.AdditionalExpense, 0, len(additional)),
	}

	seen := make(map[string]bool, len(participants))
	for i, p := range participants {
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		if p.ID == "" {
			return nil, fmt.Errorf("participant %d: id is required", i+1)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("participant %q: name is required", p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("participant %q listed twice", p.ID)
		}
		seen[p.ID] = true
		in.participants = append(in.participants, p)
	}

	for i, e := range expenses {
		e, err := normalizeExpense(e)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}
		if e.Amount <= 0 {
			return nil, fmt.Errorf("expense %d: amount must be positive", i+1)
		}
		in.expenses = append(in.expenses, e)
	}

	for i, e := range additional {
		e, err := normalizeExpense(models.Expense(e))
		if err != nil {
			return nil, fmt.Errorf("additional expense %d: %w", i+1, err)
		}
		// Negative additional expenses are discounts
		if e.Amount == 0 {
			return nil, fmt.Errorf("additional expense %d: amount must not be zero", i+1)
		}
		in.additional = append(in.additional, models.AdditionalExpense(e))
	}

	return in, nil
}

func normalizeExpense(e models.Expense) (models.Expense, error) {
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		return e, fmt.Errorf("description is required")
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return e, fmt.Errorf("amount must be a finite number")
	}
	if len(e.Participants) == 0 {
		return e, fmt.Errorf("at least one participant must share %q", e.Description)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.Participants = append([]string(nil), e.Participants...)
	return e, nil
}

// CreateRecord validates the inputs, computes the summary and saves both.
func (s *SplitBillService) CreateRecord(ctx context.Context, req *connect.Request[api.CreateRecordRequest]) (*connect.Response[api.CreateRecordResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	in, err := validateRecordInput(req.Msg.Title, req.Msg.Participants, req.Msg.Expenses, req.Msg.AdditionalExpenses)
	if err != nil {
		slog.Warn("CreateRecord validation failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	summary, _ := s.calculate("create_record", in.participants, in.expenses, in.additional)
	record := &models.Record{
		OwnerID:            userID,
		Title:              in.title,
		Participants:       in.participants,
		Expenses:           in.expenses,
		AdditionalExpenses: in.additional,
		Summary:            summary,
	}

	// Save to storage (generates ID, title and timestamps)
	if err := s.store.CreateRecord(ctx, record); err != nil {
		slog.Error("CreateRecord failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Record created", "record_id", record.ID, "user_id", userID, "total", summary.Total)
	return connect.NewResponse(&api.CreateRecordResponse{Record: record}), nil
}

// ownedRecord loads a record and checks that userID owns it.
func (s *SplitBillService) ownedRecord(ctx context.Context, userID, recordID string) (*models.Record, error) {
	if recordID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("record_id required"))
	}

	record, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		slog.Warn("Failed to get record", "record_id", recordID, "error", err)
		return nil, storeError(err)
	}
	if record.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you do not own this record"))
	}
	return record, nil
}

// GetRecord returns a saved record with its stored summary.
func (s *SplitBillService) GetRecord(ctx context.Context, req *connect.Request[api.GetRecordRequest]) (*connect.Response[api.GetRecordResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.ownedRecord(ctx, userID, req.Msg.RecordID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetRecordResponse{Record: record}), nil
}

// UpdateRecord replaces a record's inputs and recomputes its summary.
func (s *SplitBillService) UpdateRecord(ctx context.Context, req *connect.Request[api.UpdateRecordRequest]) (*connect.Response[api.UpdateRecordResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.ownedRecord(ctx, userID, req.Msg.RecordID)
	if err != nil {
		return nil, err
	}

	in, err := validateRecordInput(req.Msg.Title, req.Msg.Participants, req.Msg.Expenses, req.Msg.AdditionalExpenses)
	if err != nil {
		slog.Warn("UpdateRecord validation failed", "record_id", record.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	summary, _ := s.calculate("update_record", in.participants, in.expenses, in.additional)
	record.Title = in.title
	record.Participants = in.participants
	record.Expenses = in.expenses
	record.AdditionalExpenses = in.additional
	record.Summary = summary

	if err := s.store.UpdateRecord(ctx, record); err != nil {
		slog.Error("UpdateRecord failed", "record_id", record.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Record updated", "record_id", record.ID, "user_id", userID, "total", summary.Total)
	return connect.NewResponse(&api.UpdateRecordResponse{Record: record}), nil
}

// DeleteRecord deletes a record.
func (s *SplitBillService) DeleteRecord(ctx context.Context, req *connect.Request[api.DeleteRecordRequest]) (*connect.Response[api.DeleteRecordResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.ownedRecord(ctx, userID, req.Msg.RecordID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteRecord(ctx, record.ID); err != nil {
		slog.Error("DeleteRecord failed", "record_id", record.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Record deleted", "record_id", record.ID, "user_id", userID)
	return connect.NewResponse(&api.DeleteRecordResponse{}), nil
}

// ListRecords lists the caller's records, newest first.
func (s *SplitBillService) ListRecords(ctx context.Context, req *connect.Request[api.ListRecordsRequest]) (*connect.Response[api.ListRecordsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListRecordsByOwner(ctx, userID)
	if err != nil {
		slog.Error("ListRecords failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	summaries := make([]api.RecordSummary, len(records))
	for i, r := range records {
		summaries[i] = api.RecordSummary{
			ID:               r.ID,
			Title:            r.Title,
			Total:            r.Summary.Total,
			ParticipantCount: len(r.Participants),
			CreatedAt:        r.CreatedAt,
		}
	}

	return connect.NewResponse(&api.ListRecordsResponse{Records: summaries}), nil
}
