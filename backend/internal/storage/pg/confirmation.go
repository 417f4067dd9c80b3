package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/itblog/shared/domain"
	internal_errors "github.com/itchan-dev/itblog/shared/errors"
)

const confirmationColumns = "id, user_id, expires_at, confirmed, created_at"

func (s *Storage) SaveConfirmation(c domain.Confirmation) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.saveConfirmation(tx, c)
	})
}

func (s *Storage) Confirmation(id domain.ConfirmationId) (domain.Confirmation, error) {
	return scanConfirmation(s.db.QueryRow("SELECT "+confirmationColumns+" FROM confirmations WHERE id = $1", id))
}

// UpdateConfirmation locks the confirmation row, lets fn mutate it and
// persists the result. An error from fn rolls the transaction back.
func (s *Storage) UpdateConfirmation(id domain.ConfirmationId, fn func(*domain.Confirmation) error) (domain.Confirmation, error) {
	var c domain.Confirmation
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		c, err = scanConfirmation(tx.QueryRow("SELECT "+confirmationColumns+" FROM confirmations WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			return err
		}
		if err := fn(&c); err != nil {
			return err
		}
		_, err = tx.Exec("UPDATE confirmations SET expires_at = $1, confirmed = $2 WHERE id = $3", c.ExpiresAt, c.Confirmed, id)
		if err != nil {
			return fmt.Errorf("failed to update confirmation: %w", err)
		}
		return nil
	})
	return c, err
}

// MostRecentConfirmation returns the confirmation that expires last, ties
// broken by the latest creation.
func (s *Storage) MostRecentConfirmation(userId domain.UserId) (domain.Confirmation, error) {
	return scanConfirmation(s.db.QueryRow(`
		SELECT `+confirmationColumns+` FROM confirmations
		WHERE user_id = $1
		ORDER BY expires_at DESC, created_at DESC
		LIMIT 1`, userId))
}

// ConfirmationsByUser lists every confirmation of the user by expiry.
func (s *Storage) ConfirmationsByUser(userId domain.UserId) ([]domain.Confirmation, error) {
	rows, err := s.db.Query(`
		SELECT `+confirmationColumns+` FROM confirmations
		WHERE user_id = $1
		ORDER BY expires_at ASC, created_at ASC`, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmations: %w", err)
	}
	defer rows.Close()

	confirmations := []domain.Confirmation{}
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		confirmations = append(confirmations, c)
	}
	return confirmations, rows.Err()
}

func (s *Storage) saveConfirmation(q Querier, c domain.Confirmation) error {
	_, err := q.Exec("INSERT INTO confirmations(id, user_id, expires_at, confirmed, created_at) VALUES($1, $2, $3, $4, $5)",
		c.Id, c.UserId, c.ExpiresAt, c.Confirmed, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert confirmation: %w", err)
	}
	return nil
}

func scanConfirmation(row scanner) (domain.Confirmation, error) {
	var c domain.Confirmation
	err := row.Scan(&c.Id, &c.UserId, &c.ExpiresAt, &c.Confirmed, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Confirmation{}, internal_errors.NotFound("Confirmation not found")
		}
		return domain.Confirmation{}, fmt.Errorf("failed to scan confirmation: %w", err)
	}
	return c, nil
}
