package models

// Participant is one person taking part in a split.
// The calculator treats the participant list as a fixed snapshot.
type Participant struct {
	// ID is an opaque identifier, unique within one calculation.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`
}

// Expense is a cost paid by one participant and shared equally by a subset
// of participants.
type Expense struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	// Amount is in decimal currency units. Any sign is accepted; a negative
	// amount acts as a credit.
	Amount float64 `json:"amount"`

	// PaidBy is the participant ID of the payer. The payer does not need to
	// be one of the sharers.
	PaidBy string `json:"paidBy"`

	// Participants are the IDs of the people sharing this cost, in the order
	// used for remainder-cent allocation.
	Participants []string `json:"participants"`
}

// AdditionalExpense has the same shape as Expense but is distributed in
// proportion to each sharer's direct-expense burden (tax, service, discount).
type AdditionalExpense Expense

// OwedItemType tags which split produced an OwedItem.
type OwedItemType string

const (
	OwedItemBase       OwedItemType = "base"
	OwedItemAdditional OwedItemType = "additional"
)

// OwedItem attributes one component of a participant's owed total to the
// expense it came from.
type OwedItem struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	Type        OwedItemType `json:"type"`
}
