package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/itchan-dev/itblog/shared/domain"
	internal_errors "github.com/itchan-dev/itblog/shared/errors"
	sharedpg "github.com/itchan-dev/itblog/shared/storage/pg"
)

const userColumns = "id, username, email, password_hash, is_admin, avatar, first_name, last_name, bio, created_at"

// =========================================================================
// Public Methods
// =========================================================================

// SaveUser inserts a user. A duplicate username or email is a Conflict.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userBy(s.db, "id", id)
}

// UserByEmail matches the email exactly.
func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.userBy(s.db, "email", email)
}

// UserByUsername matches the username exactly.
func (s *Storage) UserByUsername(username domain.Username) (domain.User, error) {
	return s.userBy(s.db, "username", username)
}

func (s *Storage) UserExists(id domain.UserId) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// UpdateUser applies the non-nil fields of data and returns the updated user.
// The admin flag is never touched.
func (s *Storage) UpdateUser(id domain.UserId, data domain.UserUpdateData) (domain.User, error) {
	var user domain.User
	err := s.withTx(func(tx *sql.Tx) error {
		if err := s.updateUser(tx, id, data); err != nil {
			return err
		}
		var err error
		user, err = s.userBy(tx, "id", id)
		return err
	})
	return user, err
}

// DeleteUser removes the user. Confirmations and comments cascade in the
// schema; authored posts follow policy.
func (s *Storage) DeleteUser(id domain.UserId, policy domain.UserDeletePolicy) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.deleteUser(tx, id, policy)
	})
}

func (s *Storage) ListUsers(page, size int) (domain.Page[domain.User], error) {
	result := domain.Page[domain.User]{Number: max(1, page), Size: size}
	err := s.withReadTx(func(tx *sql.Tx) error {
		if err := tx.QueryRow("SELECT COUNT(*) FROM users").Scan(&result.Total); err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		rows, err := tx.Query("SELECT "+userColumns+" FROM users ORDER BY id LIMIT $1 OFFSET $2", size, domain.Offset(page, size))
		if err != nil {
			return fmt.Errorf("failed to query users: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, user)
		}
		return rows.Err()
	})
	return result, err
}

// UserPosts returns short references to every post of the user, newest first.
func (s *Storage) UserPosts(id domain.UserId) ([]domain.PostRef, error) {
	rows, err := s.db.Query("SELECT id, title FROM posts WHERE author_id = $1 ORDER BY created_at DESC, id DESC", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query user posts: %w", err)
	}
	defer rows.Close()

	refs := []domain.PostRef{}
	for rows.Next() {
		var ref domain.PostRef
		if err := rows.Scan(&ref.Id, &ref.Title); err != nil {
			return nil, fmt.Errorf("failed to scan post ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// =========================================================================
// Internal Methods
// =========================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var user domain.User
	var avatar sql.NullString
	err := row.Scan(&user.Id, &user.Username, &user.Email, &user.PassHash, &user.Admin,
		&avatar, &user.FirstName, &user.LastName, &user.Bio, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	if avatar.Valid {
		user.Avatar = &avatar.String
	}
	return user, nil
}

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow(`
		INSERT INTO users(username, email, password_hash, is_admin, first_name, last_name, bio)
		VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		user.Username, user.Email, user.PassHash, user.Admin, user.FirstName, user.LastName, user.Bio,
	).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return 0, internal_errors.Conflict("Username or email already taken")
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// column is always one of the fixed names used above.
func (s *Storage) userBy(q Querier, column string, value any) (domain.User, error) {
	return scanUser(q.QueryRow("SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value))
}

func (s *Storage) updateUser(q Querier, id domain.UserId, data domain.UserUpdateData) error {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if data.Username != nil {
		add("username", *data.Username)
	}
	if data.FirstName != nil {
		add("first_name", *data.FirstName)
	}
	if data.LastName != nil {
		add("last_name", *data.LastName)
	}
	if data.Bio != nil {
		add("bio", *data.Bio)
	}
	if data.Avatar != nil {
		add("avatar", *data.Avatar)
	}

	if len(sets) == 0 {
		// nothing to change, still report a missing user
		_, err := s.userBy(q, "id", id)
		return err
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	result, err := q.Exec(query, args...)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return internal_errors.Conflict("Username already taken")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) deleteUser(q Querier, id domain.UserId, policy domain.UserDeletePolicy) error {
	var posts int
	if err := q.QueryRow("SELECT COUNT(*) FROM posts WHERE author_id = $1", id).Scan(&posts); err != nil {
		return fmt.Errorf("failed to count user posts: %w", err)
	}
	if posts > 0 {
		switch policy {
		case domain.UserDeleteCascade:
			if _, err := q.Exec("DELETE FROM posts WHERE author_id = $1", id); err != nil {
				return fmt.Errorf("failed to delete user posts: %w", err)
			}
		default:
			return internal_errors.Conflict(fmt.Sprintf("User still owns %d post(s)", posts))
		}
	}

	result, err := q.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}
