package models

// Record is a saved bill: the calculation inputs together with the summary
// computed from them. The summary is stored verbatim and is not recomputed
// on read.
type Record struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who created the record.
	OwnerID string `json:"ownerId"`

	// Title is the human-readable name. Auto-generated from participant
	// names when left empty.
	Title string `json:"title"`

	Participants       []Participant       `json:"participants"`
	Expenses           []Expense           `json:"expenses"`
	AdditionalExpenses []AdditionalExpense `json:"additionalExpenses"`

	Summary SplitBillSummary `json:"summary"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// ParticipantNames returns the participant display names in record order.
func (r *Record) ParticipantNames() []string {
	names := make([]string, len(r.Participants))
	for i, p := range r.Participants {
		names[i] = p.Name
	}
	return names
}
