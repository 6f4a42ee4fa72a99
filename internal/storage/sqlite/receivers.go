package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/duitraya/internal/models"
	"github.com/mmynk/duitraya/internal/storage"
)

const receiverColumns = `id, user_id, name, kind, recipient_count, amount_per_packet,
	denomination, is_eligible, is_received, year, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceiver(row rowScanner) (*models.Receiver, error) {
	r := &models.Receiver{}
	var kind string
	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Name,
		&kind,
		&r.RecipientCount,
		&r.AmountPerPacket,
		&r.Denomination,
		&r.Eligible,
		&r.Received,
		&r.Year,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Kind = models.Kind(kind)
	return r, nil
}

// CreateReceiver persists a new receiver to the database.
func (s *SQLiteStore) CreateReceiver(ctx context.Context, receiver *models.Receiver) error {
	if receiver.CreatedAt == 0 {
		receiver.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO receivers (user_id, name, kind, recipient_count, amount_per_packet,
			denomination, is_eligible, is_received, year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receiver.OwnerID, receiver.Name, string(receiver.Kind), receiver.RecipientCount,
		receiver.AmountPerPacket, receiver.Denomination, receiver.Eligible, receiver.Received,
		receiver.Year, receiver.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receiver: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read receiver id: %w", err)
	}
	receiver.ID = id

	return nil
}

// GetReceiver retrieves a receiver by ID, scoped to its owner.
func (s *SQLiteStore) GetReceiver(ctx context.Context, ownerID string, id int64) (*models.Receiver, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+receiverColumns+` FROM receivers WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)

	receiver, err := scanReceiver(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receiver: %w", err)
	}

	return receiver, nil
}

// ListReceivers retrieves the owner's receivers, newest first.
func (s *SQLiteStore) ListReceivers(ctx context.Context, filter storage.ReceiverFilter) ([]*models.Receiver, error) {
	query := `SELECT ` + receiverColumns + ` FROM receivers WHERE user_id = ?`
	args := []any{filter.OwnerID}

	if filter.Year != nil {
		query += " AND year = ?"
		args = append(args, *filter.Year)
	}
	if filter.EligibleOnly {
		query += " AND is_eligible = 1"
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receivers: %w", err)
	}
	defer rows.Close()

	receivers := []*models.Receiver{}
	for rows.Next() {
		receiver, err := scanReceiver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receiver: %w", err)
		}
		receivers = append(receivers, receiver)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receivers: %w", err)
	}

	return receivers, nil
}

// ListYears returns the distinct planning years of the owner's receivers.
func (s *SQLiteStore) ListYears(ctx context.Context, ownerID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT year FROM receivers WHERE user_id = ? ORDER BY year ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, year)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate years: %w", err)
	}

	return years, nil
}

// UpdateReceiver writes only the columns set in patch.
func (s *SQLiteStore) UpdateReceiver(ctx context.Context, ownerID string, id int64, patch models.ReceiverPatch) (int64, error) {
	cols := storage.PatchColumns(patch)
	if len(cols) == 0 {
		// Nothing to write, but the caller still needs to know if the
		// receiver is theirs.
		if _, err := s.GetReceiver(ctx, ownerID, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return 0, nil
			}
			return 0, err
		}
		return 1, nil
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+2)
	for i, col := range cols {
		sets[i] = col.Name + " = ?"
		args = append(args, col.Value)
	}
	args = append(args, id, ownerID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE receivers SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update receiver: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected, nil
}

// DeleteReceiver removes a receiver by ID, scoped to its owner.
func (s *SQLiteStore) DeleteReceiver(ctx context.Context, ownerID string, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM receivers WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete receiver: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected, nil
}
