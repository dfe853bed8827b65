package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitbill/internal/models"
)

const (
	kindBase       = "base"
	kindAdditional = "additional"
)

// CreateRecord persists a new record with its inputs and summary.
func (s *SQLiteStore) CreateRecord(ctx context.Context, record *models.Record) error {
	// Generate IDs if not set
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if record.CreatedAt == 0 {
		record.CreatedAt = now
	}
	record.UpdatedAt = record.CreatedAt
	if record.Title == "" {
		record.Title = generateTitle(record.ParticipantNames())
	}

	summary, err := json.Marshal(record.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, owner_id, title, total, summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.OwnerID, record.Title, record.Summary.Total, string(summary),
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	if err := insertRecordBody(ctx, tx, record); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateRecord replaces the title, inputs and summary of an existing record.
func (s *SQLiteStore) UpdateRecord(ctx context.Context, record *models.Record) error {
	if record.Title == "" {
		record.Title = generateTitle(record.ParticipantNames())
	}
	record.UpdatedAt = time.Now().Unix()

	summary, err := json.Marshal(record.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE records SET title = ?, total = ?, summary = ?, updated_at = ? WHERE id = ?",
		record.Title, record.Summary.Total, string(summary), record.UpdatedAt, record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	} else if n == 0 {
		return notFound("record", record.ID)
	}

	// Replace inputs; sharers go with their expenses via ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, "DELETE FROM record_participants WHERE record_id = ?", record.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE record_id = ?", record.ID); err != nil {
		return fmt.Errorf("failed to clear expenses: %w", err)
	}

	if err := insertRecordBody(ctx, tx, record); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertRecordBody writes participants and both expense lists.
func insertRecordBody(ctx context.Context, tx *sql.Tx, record *models.Record) error {
	for i, p := range record.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO record_participants (record_id, position, participant_id, name) VALUES (?, ?, ?, ?)",
			record.ID, i, p.ID, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, e := range record.Expenses {
		if err := insertExpense(ctx, tx, record.ID, kindBase, i, e); err != nil {
			return err
		}
	}
	for i, e := range record.AdditionalExpenses {
		if err := insertExpense(ctx, tx, record.ID, kindAdditional, i, models.Expense(e)); err != nil {
			return err
		}
	}
	return nil
}

func insertExpense(ctx context.Context, tx *sql.Tx, recordID, kind string, position int, e models.Expense) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (record_id, kind, position, id, description, amount, paid_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		recordID, kind, position, e.ID, e.Description, e.Amount, e.PaidBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense row id: %w", err)
	}

	for i, participantID := range e.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_sharers (expense_row_id, position, participant_id) VALUES (?, ?, ?)",
			rowID, i, participantID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense sharer: %w", err)
		}
	}
	return nil
}

// GetRecord retrieves a record by ID, including its inputs and stored summary.
func (s *SQLiteStore) GetRecord(ctx context.Context, recordID string) (*models.Record, error) {
	record := &models.Record{}
	var summary string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, title, summary, created_at, updated_at FROM records WHERE id = ?",
		recordID,
	).Scan(&record.ID, &record.OwnerID, &record.Title, &summary, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("record", recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	if err := json.Unmarshal([]byte(summary), &record.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}

	if record.Participants, err = s.recordParticipants(ctx, recordID); err != nil {
		return nil, err
	}
	if err := s.loadExpenses(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *SQLiteStore) recordParticipants(ctx context.Context, recordID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, name FROM record_participants WHERE record_id = ? ORDER BY position",
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

func (s *SQLiteStore) loadExpenses(ctx context.Context, record *models.Record) error {
	// Sharers for every expense of the record in one pass
	sharers := make(map[int64][]string)
	sharerRows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_row_id, s.participant_id
		 FROM expense_sharers s JOIN expenses e ON e.row_id = s.expense_row_id
		 WHERE e.record_id = ?
		 ORDER BY s.expense_row_id, s.position`,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense sharers: %w", err)
	}
	defer sharerRows.Close()

	for sharerRows.Next() {
		var rowID int64
		var participantID string
		if err := sharerRows.Scan(&rowID, &participantID); err != nil {
			return fmt.Errorf("failed to scan expense sharer: %w", err)
		}
		sharers[rowID] = append(sharers[rowID], participantID)
	}
	if err := sharerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense sharers: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_id, kind, id, description, amount, paid_by
		 FROM expenses WHERE record_id = ? ORDER BY kind DESC, position`,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	record.Expenses = []models.Expense{}
	record.AdditionalExpenses = []models.AdditionalExpense{}
	for rows.Next() {
		var rowID int64
		var kind string
		var e models.Expense
		if err := rows.Scan(&rowID, &kind, &e.ID, &e.Description, &e.Amount, &e.PaidBy); err != nil {
			return fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Participants = sharers[rowID]
		if e.Participants == nil {
			e.Participants = []string{}
		}

		switch kind {
		case kindBase:
			record.Expenses = append(record.Expenses, e)
		case kindAdditional:
			record.AdditionalExpenses = append(record.AdditionalExpenses, models.AdditionalExpense(e))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return nil
}

// DeleteRecord removes a record; participants and expenses cascade.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, recordID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", recordID)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return notFound("record", recordID)
	}
	return nil
}

// ListRecordsByOwner returns the owner's records newest first, with
// participants but without expenses.
func (s *SQLiteStore) ListRecordsByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, total, created_at, updated_at
		 FROM records WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		r := &models.Record{}
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Title, &r.Summary.Total, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	rows.Close()

	for _, r := range records {
		if r.Participants, err = s.recordParticipants(ctx, r.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// generateTitle creates an auto-generated title from participant names.
func generateTitle(names []string) string {
	if len(names) == 0 {
		return fmt.Sprintf("Bill - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
