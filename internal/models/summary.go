package models

// ParticipantSummary is one participant's computed figures.
type ParticipantSummary struct {
	ParticipantID string `json:"participantId"`

	// Paid is the sum of amounts this participant paid (direct + additional).
	Paid float64 `json:"paid"`

	// Owed is the sum of this participant's shares across all owed items.
	Owed float64 `json:"owed"`

	// Balance is Paid - Owed rounded to cents.
	// Positive = is owed money, Negative = owes money.
	Balance float64 `json:"balance"`

	OwedItems []OwedItem `json:"owedItems"`
}

// Settlement is a single directed transfer of the settlement plan.
type Settlement struct {
	// From is the debtor's participant ID.
	From string `json:"from"`

	// To is the creditor's participant ID.
	To string `json:"to"`

	Amount float64 `json:"amount"`
}

// SplitBillSummary is the full output of a calculation.
type SplitBillSummary struct {
	// Total is the sum of all counted direct and additional expense amounts.
	Total float64 `json:"total"`

	// PerParticipant follows the order of the input participant list.
	PerParticipant []ParticipantSummary `json:"perParticipant"`

	Settlements []Settlement `json:"settlements"`
}

// Participant returns the summary entry for the given participant ID.
func (s SplitBillSummary) Participant(id string) (ParticipantSummary, bool) {
	for _, p := range s.PerParticipant {
		if p.ParticipantID == id {
			return p, true
		}
	}
	return ParticipantSummary{}, false
}
