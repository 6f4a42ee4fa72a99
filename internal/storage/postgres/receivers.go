package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/duitraya/internal/models"
	"github.com/mmynk/duitraya/internal/storage"
)

const receiverColumns = `id, user_id, name, kind, recipient_count, amount_per_packet,
	denomination, is_eligible, is_received, year, created_at`

func scanReceiver(row pgx.Row) (*models.Receiver, error) {
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

func (s *PostgresStore) CreateReceiver(ctx context.Context, receiver *models.Receiver) error {
	if receiver.CreatedAt == 0 {
		receiver.CreatedAt = time.Now().Unix()
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO receivers (user_id, name, kind, recipient_count, amount_per_packet,
			denomination, is_eligible, is_received, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		receiver.OwnerID, receiver.Name, string(receiver.Kind), receiver.RecipientCount,
		receiver.AmountPerPacket, receiver.Denomination, receiver.Eligible, receiver.Received,
		receiver.Year, receiver.CreatedAt,
	).Scan(&receiver.ID)
	if err != nil {
		return fmt.Errorf("failed to insert receiver: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetReceiver(ctx context.Context, ownerID string, id int64) (*models.Receiver, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+receiverColumns+` FROM receivers WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)

	receiver, err := scanReceiver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receiver: %w", err)
	}

	return receiver, nil
}

func (s *PostgresStore) ListReceivers(ctx context.Context, filter storage.ReceiverFilter) ([]*models.Receiver, error) {
	query := `SELECT ` + receiverColumns + ` FROM receivers WHERE user_id = $1`
	args := []any{filter.OwnerID}

	if filter.Year != nil {
		args = append(args, *filter.Year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	if filter.EligibleOnly {
		query += " AND is_eligible"
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
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

func (s *PostgresStore) ListYears(ctx context.Context, ownerID string) ([]int, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT DISTINCT year FROM receivers WHERE user_id = $1 ORDER BY year ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}

	years, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to collect years: %w", err)
	}
	if years == nil {
		years = []int{}
	}

	return years, nil
}

func (s *PostgresStore) UpdateReceiver(ctx context.Context, ownerID string, id int64, patch models.ReceiverPatch) (int64, error) {
	cols := storage.PatchColumns(patch)
	if len(cols) == 0 {
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
		args = append(args, col.Value)
		sets[i] = fmt.Sprintf("%s = $%d", col.Name, len(args))
	}
	args = append(args, id, ownerID)

	query := fmt.Sprintf("UPDATE receivers SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update receiver: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (s *PostgresStore) DeleteReceiver(ctx context.Context, ownerID string, id int64) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM receivers WHERE id = $1 AND user_id = $2",
		id, ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete receiver: %w", err)
	}

	return tag.RowsAffected(), nil
}
