// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/duitraya/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist, or exists but
	// belongs to someone else.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// ReceiverFilter narrows ListReceivers.
type ReceiverFilter struct {
	// OwnerID is required; receivers of other users are never returned.
	OwnerID string

	// Year restricts results to one planning year when set.
	Year *int

	// EligibleOnly drops receivers with eligible = false.
	EligibleOnly bool
}

// ReceiverStore persists receivers. Every method is scoped to an owner.
type ReceiverStore interface {
	// CreateReceiver persists a new receiver.
	// The receiver's ID and CreatedAt fields are populated by the store.
	CreateReceiver(ctx context.Context, receiver *models.Receiver) error

	// GetReceiver retrieves one receiver of ownerID.
	// Returns ErrNotFound if it doesn't exist or belongs to another owner.
	GetReceiver(ctx context.Context, ownerID string, id int64) (*models.Receiver, error)

	// ListReceivers returns receivers matching the filter, newest first.
	ListReceivers(ctx context.Context, filter ReceiverFilter) ([]*models.Receiver, error)

	// ListYears returns the distinct years ownerID has receivers in, ascending.
	ListYears(ctx context.Context, ownerID string) ([]int, error)

	// UpdateReceiver writes the set fields of patch to the receiver with the
	// given id owned by ownerID, and returns the number of rows affected.
	// Zero means the receiver is missing or not owned by ownerID.
	UpdateReceiver(ctx context.Context, ownerID string, id int64, patch models.ReceiverPatch) (int64, error)

	// DeleteReceiver removes the receiver with the given id owned by ownerID
	// and returns the number of rows affected.
	DeleteReceiver(ctx context.Context, ownerID string, id int64) (int64, error)
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if no user has that ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns every user, newest first.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdatePasswordHash replaces a user's password hash.
	// Returns ErrNotFound if the user doesn't exist.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	// DeleteUser removes a user and all of their receivers.
	// Returns ErrNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, id string) error
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	ReceiverStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
