package models

// Friend is a participant stored under an owner's account. Friends are the
// participant source records are assembled from.
type Friend struct {
	// ID is the unique identifier (UUID format). It doubles as the
	// Participant ID when the friend is added to a record.
	ID string `json:"id"`

	// OwnerID is the user who registered this friend.
	OwnerID string `json:"ownerId"`

	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the friend was created.
	CreatedAt int64 `json:"createdAt"`
}

// Participant returns the calculation view of the friend.
func (f Friend) Participant() Participant {
	return Participant{ID: f.ID, Name: f.Name}
}
