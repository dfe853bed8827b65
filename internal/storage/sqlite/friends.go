package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitbill/internal/models"
)

// CreateFriend persists a new friend for its owner.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	// Generate ID if not set
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO friends (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		friend.ID, friend.OwnerID, friend.Name, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}
	return nil
}

// GetFriend retrieves a friend by ID.
func (s *SQLiteStore) GetFriend(ctx context.Context, friendID string) (*models.Friend, error) {
	friend := &models.Friend{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, created_at FROM friends WHERE id = ?",
		friendID,
	).Scan(&friend.ID, &friend.OwnerID, &friend.Name, &friend.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("friend", friendID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friend: %w", err)
	}
	return friend, nil
}

// ListFriends returns the owner's friends ordered by name.
func (s *SQLiteStore) ListFriends(ctx context.Context, ownerID string) ([]*models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, created_at FROM friends WHERE owner_id = ? ORDER BY name COLLATE NOCASE, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		f := &models.Friend{}
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}

// RenameFriend changes a friend's display name. Saved records keep the name
// they were created with.
func (s *SQLiteStore) RenameFriend(ctx context.Context, friendID, name string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE friends SET name = ? WHERE id = ?", name, friendID)
	if err != nil {
		return fmt.Errorf("failed to rename friend: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rename result: %w", err)
	}
	if n == 0 {
		return notFound("friend", friendID)
	}
	return nil
}

// DeleteFriend removes a friend. Records that already include the friend are
// unaffected.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, friendID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM friends WHERE id = ?", friendID)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return notFound("friend", friendID)
	}
	return nil
}
