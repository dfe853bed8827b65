package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func dinnerRecord(ownerID string) *models.Record {
	participants := []models.Participant{
		{ID: "p1", Name: "Alice"},
		{ID: "p2", Name: "Bob"},
		{ID: "p3", Name: "Charlie"},
	}
	expenses := []models.Expense{
		{ID: "e1", Description: "Dinner", Amount: 100, PaidBy: "p1", Participants: []string{"p1", "p2", "p3"}},
		{ID: "e2", Description: "Wine", Amount: 30, PaidBy: "p2", Participants: []string{"p2", "p1"}},
	}
	additional := []models.AdditionalExpense{
		{ID: "x1", Description: "Service", Amount: 13, PaidBy: "p1", Participants: []string{"p1", "p2", "p3"}},
	}
	return &models.Record{
		OwnerID:            ownerID,
		Participants:       participants,
		Expenses:           expenses,
		AdditionalExpenses: additional,
		Summary:            calculator.Calculate(participants, expenses, additional),
	}
}

func TestSQLiteStore_Records(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, store, "owner@example.com")

	t.Run("CreateRecord generates ID and title", func(t *testing.T) {
		record := dinnerRecord(owner.ID)
		if err := store.CreateRecord(ctx, record); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}

		if record.ID == "" {
			t.Error("Expected record ID to be generated")
		}
		if record.Title != "Split with Alice, Bob, Charlie" {
			t.Errorf("Title = %q", record.Title)
		}
		if record.CreatedAt == 0 || record.UpdatedAt != record.CreatedAt {
			t.Errorf("timestamps not set: created=%d updated=%d", record.CreatedAt, record.UpdatedAt)
		}
	})

	t.Run("GetRecord round-trips inputs and summary", func(t *testing.T) {
		original := dinnerRecord(owner.ID)
		original.Title = "Friday dinner"
		if err := store.CreateRecord(ctx, original); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}

		got, err := store.GetRecord(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetRecord failed: %v", err)
		}

		if got.Title != "Friday dinner" || got.OwnerID != owner.ID {
			t.Errorf("header mismatch: %+v", got)
		}
		if !reflect.DeepEqual(got.Participants, original.Participants) {
			t.Errorf("Participants = %+v, want %+v", got.Participants, original.Participants)
		}
		if !reflect.DeepEqual(got.Expenses, original.Expenses) {
			t.Errorf("Expenses = %+v, want %+v", got.Expenses, original.Expenses)
		}
		if !reflect.DeepEqual(got.AdditionalExpenses, original.AdditionalExpenses) {
			t.Errorf("AdditionalExpenses = %+v, want %+v", got.AdditionalExpenses, original.AdditionalExpenses)
		}
		if !reflect.DeepEqual(got.Summary, original.Summary) {
			t.Errorf("Summary = %+v, want %+v", got.Summary, original.Summary)
		}
	})

	t.Run("GetRecord returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetRecord(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateRecord replaces inputs", func(t *testing.T) {
		record := dinnerRecord(owner.ID)
		if err := store.CreateRecord(ctx, record); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}

		record.Title = "Lunch"
		record.Participants = record.Participants[:2]
		record.Expenses = []models.Expense{
			{ID: "e9", Description: "Sandwiches", Amount: 12, PaidBy: "p2", Participants: []string{"p1", "p2"}},
		}
		record.AdditionalExpenses = []models.AdditionalExpense{}
		record.Summary = calculator.Calculate(record.Participants, record.Expenses, nil)

		if err := store.UpdateRecord(ctx, record); err != nil {
			t.Fatalf("UpdateRecord failed: %v", err)
		}

		got, err := store.GetRecord(ctx, record.ID)
		if err != nil {
			t.Fatalf("GetRecord failed: %v", err)
		}
		if got.Title != "Lunch" {
			t.Errorf("Title = %q, want Lunch", got.Title)
		}
		if len(got.Participants) != 2 || len(got.Expenses) != 1 || len(got.AdditionalExpenses) != 0 {
			t.Errorf("unexpected body: %d participants, %d expenses, %d additional",
				len(got.Participants), len(got.Expenses), len(got.AdditionalExpenses))
		}
		if got.Summary.Total != 12 {
			t.Errorf("Summary.Total = %v, want 12", got.Summary.Total)
		}
	})

	t.Run("UpdateRecord on missing record", func(t *testing.T) {
		record := dinnerRecord(owner.ID)
		record.ID = "missing"
		if err := store.UpdateRecord(ctx, record); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteRecord cascades", func(t *testing.T) {
		record := dinnerRecord(owner.ID)
		if err := store.CreateRecord(ctx, record); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
		if err := store.DeleteRecord(ctx, record.ID); err != nil {
			t.Fatalf("DeleteRecord failed: %v", err)
		}
		if _, err := store.GetRecord(ctx, record.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		var orphans int
		if err := store.db.QueryRow("SELECT COUNT(*) FROM expenses WHERE record_id = ?", record.ID).Scan(&orphans); err != nil {
			t.Fatalf("count expenses: %v", err)
		}
		if orphans != 0 {
			t.Errorf("%d expenses left after delete", orphans)
		}

		if err := store.DeleteRecord(ctx, record.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_ListRecordsByOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, store, "lister@example.com")
	other := newTestUser(t, store, "other@example.com")

	for i, createdAt := range []int64{100, 300, 200} {
		record := dinnerRecord(owner.ID)
		record.Title = []string{"first", "third", "second"}[i]
		record.CreatedAt = createdAt
		if err := store.CreateRecord(ctx, record); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}
	if err := store.CreateRecord(ctx, dinnerRecord(other.ID)); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	records, err := store.ListRecordsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListRecordsByOwner failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, want := range []string{"third", "second", "first"} {
		if records[i].Title != want {
			t.Errorf("records[%d] = %q, want %q", i, records[i].Title, want)
		}
		if len(records[i].Participants) != 3 {
			t.Errorf("records[%d] has %d participants", i, len(records[i].Participants))
		}
		if records[i].Summary.Total != 143 {
			t.Errorf("records[%d] total = %v, want 143", i, records[i].Summary.Total)
		}
	}
}

func TestSQLiteStore_Friends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, store, "friends@example.com")

	var ids []string
	for _, name := range []string{"charlie", "Alice", "bob"} {
		f := &models.Friend{OwnerID: owner.ID, Name: name}
		if err := store.CreateFriend(ctx, f); err != nil {
			t.Fatalf("CreateFriend failed: %v", err)
		}
		if f.ID == "" || f.CreatedAt == 0 {
			t.Errorf("friend %s missing generated fields", name)
		}
		ids = append(ids, f.ID)
	}

	friends, err := store.ListFriends(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	var names []string
	for _, f := range friends {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "Alice,bob,charlie" {
		t.Errorf("names = %v, want case-insensitive order", names)
	}

	if err := store.RenameFriend(ctx, ids[0], "Carol"); err != nil {
		t.Fatalf("RenameFriend failed: %v", err)
	}
	f, err := store.GetFriend(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetFriend failed: %v", err)
	}
	if f.Name != "Carol" {
		t.Errorf("Name = %q, want Carol", f.Name)
	}

	if err := store.DeleteFriend(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteFriend failed: %v", err)
	}
	if _, err := store.GetFriend(ctx, ids[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.RenameFriend(ctx, ids[0], "Ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("rename deleted friend: expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("  Dana@Example.COM ", "Dana", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "dana@example.com")
	if err != nil || got == nil {
		t.Fatalf("GetUserByEmail = %v, %v", got, err)
	}
	if got.ID != user.ID || got.DisplayName != "Dana" {
		t.Errorf("unexpected user: %+v", got)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil || byID == nil || byID.Email != "dana@example.com" {
		t.Errorf("GetUserByID = %+v, %v", byID, err)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for unknown email, got %+v, %v", missing, err)
	}

	dup := models.NewUser("dana@example.com", "Dana 2", "hash")
	if err := store.CreateUser(ctx, dup); err == nil {
		t.Error("expected duplicate email to fail")
	}
}

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		names        []string
		wantContains string
	}{
		{[]string{}, "Bill -"},
		{[]string{"Alice"}, "Split with Alice"},
		{[]string{"Alice", "Bob"}, "Split with Alice, Bob"},
		{[]string{"Alice", "Bob", "Charlie"}, "Split with Alice, Bob, Charlie"},
		{[]string{"Alice", "Bob", "Charlie", "Diana"}, "Split with Alice, Bob and 2 others"},
	}

	for _, tt := range tests {
		t.Run(tt.wantContains, func(t *testing.T) {
			got := generateTitle(tt.names)
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("generateTitle(%v) = %q, want to contain %q", tt.names, got, tt.wantContains)
			}
		})
	}
}
