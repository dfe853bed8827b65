package api

import (
	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/models"
)

// CalculateRequest carries the three engine inputs.
type CalculateRequest struct {
	Participants       []models.Participant       `json:"participants"`
	Expenses           []models.Expense           `json:"expenses"`
	AdditionalExpenses []models.AdditionalExpense `json:"additionalExpenses"`
}

// CalculateResponse returns the summary and every reference the engine skipped.
type CalculateResponse struct {
	Summary     models.SplitBillSummary `json:"summary"`
	Diagnostics []calculator.Diagnostic `json:"diagnostics"`
}

type CreateRecordRequest struct {
	// Title is optional; an empty title is generated from participant names.
	Title              string                     `json:"title,omitempty"`
	Participants       []models.Participant       `json:"participants"`
	Expenses           []models.Expense           `json:"expenses"`
	AdditionalExpenses []models.AdditionalExpense `json:"additionalExpenses"`
}

type CreateRecordResponse struct {
	Record *models.Record `json:"record"`
}

type GetRecordRequest struct {
	RecordID string `json:"recordId"`
}

type GetRecordResponse struct {
	Record *models.Record `json:"record"`
}

type UpdateRecordRequest struct {
	RecordID           string                     `json:"recordId"`
	Title              string                     `json:"title,omitempty"`
	Participants       []models.Participant       `json:"participants"`
	Expenses           []models.Expense           `json:"expenses"`
	AdditionalExpenses []models.AdditionalExpense `json:"additionalExpenses"`
}

type UpdateRecordResponse struct {
	Record *models.Record `json:"record"`
}

type DeleteRecordRequest struct {
	RecordID string `json:"recordId"`
}

type DeleteRecordResponse struct{}

type ListRecordsRequest struct{}

// RecordSummary is the list view of a record.
type RecordSummary struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Total            float64 `json:"total"`
	ParticipantCount int     `json:"participantCount"`
	CreatedAt        int64   `json:"createdAt"`
}

type ListRecordsResponse struct {
	Records []RecordSummary `json:"records"`
}

type CreateParticipantRequest struct {
	Name string `json:"name"`
}

type CreateParticipantResponse struct {
	Participant *models.Friend `json:"participant"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []*models.Friend `json:"participants"`
}

type RenameParticipantRequest struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
}

type RenameParticipantResponse struct {
	Participant *models.Friend `json:"participant"`
}

type DeleteParticipantRequest struct {
	ParticipantID string `json:"participantId"`
}

type DeleteParticipantResponse struct{}

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}
