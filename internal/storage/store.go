// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitbill/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	RecordStore
	FriendStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// RecordStore persists saved bills.
type RecordStore interface {
	// CreateRecord persists a new record. ID, CreatedAt and UpdatedAt are
	// populated by the store when empty.
	CreateRecord(ctx context.Context, record *models.Record) error

	// GetRecord retrieves a record with its inputs and stored summary.
	// Returns an error wrapping ErrNotFound if the record does not exist.
	GetRecord(ctx context.Context, recordID string) (*models.Record, error)

	// UpdateRecord replaces the title, inputs and summary of a record.
	UpdateRecord(ctx context.Context, record *models.Record) error

	// DeleteRecord removes a record and everything attached to it.
	DeleteRecord(ctx context.Context, recordID string) error

	// ListRecordsByOwner returns the owner's records newest first. Only the
	// header fields and participants are populated.
	ListRecordsByOwner(ctx context.Context, ownerID string) ([]*models.Record, error)
}

// FriendStore persists the participant source: each user's friends.
type FriendStore interface {
	CreateFriend(ctx context.Context, friend *models.Friend) error
	GetFriend(ctx context.Context, friendID string) (*models.Friend, error)
	ListFriends(ctx context.Context, ownerID string) ([]*models.Friend, error)
	RenameFriend(ctx context.Context, friendID, name string) error
	DeleteFriend(ctx context.Context, friendID string) error
}

// UserStore persists accounts. Lookups return (nil, nil) when the user does
// not exist.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
