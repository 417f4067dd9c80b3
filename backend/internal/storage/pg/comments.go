package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/itblog/shared/domain"
	internal_errors "github.com/itchan-dev/itblog/shared/errors"
	sharedpg "github.com/itchan-dev/itblog/shared/storage/pg"
)

const commentColumns = "id, body, created_at, author_id, post_id, confirmed"

// SaveComment adds a comment to an existing post.
func (s *Storage) SaveComment(data domain.CommentCreationData) (domain.CommentId, error) {
	var id domain.CommentId
	err := s.db.QueryRow("INSERT INTO comments(body, author_id, post_id) VALUES($1, $2, $3) RETURNING id",
		data.Body, data.AuthorId, data.PostId).Scan(&id)
	if err != nil {
		if sharedpg.IsForeignKeyViolation(err) {
			return 0, internal_errors.NotFound("Post not found")
		}
		return 0, fmt.Errorf("failed to insert comment: %w", err)
	}
	return id, nil
}

func (s *Storage) Comment(id domain.CommentId) (domain.Comment, error) {
	return scanComment(s.db.QueryRow("SELECT "+commentColumns+" FROM comments WHERE id = $1", id))
}

func (s *Storage) UpdateComment(id domain.CommentId, body string) error {
	result, err := s.db.Exec("UPDATE comments SET body = $1 WHERE id = $2", body, id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectOne(result, "Comment not found")
}

// SetCommentConfirmed hides or reveals a comment in public views.
func (s *Storage) SetCommentConfirmed(id domain.CommentId, confirmed bool) error {
	result, err := s.db.Exec("UPDATE comments SET confirmed = $1 WHERE id = $2", confirmed, id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectOne(result, "Comment not found")
}

func (s *Storage) DeleteComment(id domain.CommentId) error {
	result, err := s.db.Exec("DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectOne(result, "Comment not found")
}

// ListComments returns a page of comments, newest first. With confirmedOnly
// hidden comments are excluded from both the items and the count.
func (s *Storage) ListComments(page, size int, confirmedOnly bool) (domain.Page[domain.Comment], error) {
	result := domain.Page[domain.Comment]{Number: max(1, page), Size: size}
	err := s.withReadTx(func(tx *sql.Tx) error {
		if err := tx.QueryRow("SELECT COUNT(*) FROM comments WHERE confirmed OR NOT $1", confirmedOnly).Scan(&result.Total); err != nil {
			return fmt.Errorf("failed to count comments: %w", err)
		}
		rows, err := tx.Query(`
			SELECT `+commentColumns+` FROM comments
			WHERE confirmed OR NOT $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3`, confirmedOnly, size, domain.Offset(page, size))
		if err != nil {
			return fmt.Errorf("failed to query comments: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanComment(rows)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, c)
		}
		return rows.Err()
	})
	return result, err
}

// postComments returns the confirmed comments of a post, oldest first.
func (s *Storage) postComments(q Querier, postId domain.PostId) ([]domain.Comment, error) {
	rows, err := q.Query("SELECT "+commentColumns+" FROM comments WHERE post_id = $1 AND confirmed ORDER BY created_at, id", postId)
	if err != nil {
		return nil, fmt.Errorf("failed to query post comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanComment(row scanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.Id, &c.Body, &c.CreatedAt, &c.AuthorId, &c.PostId, &c.Confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, internal_errors.NotFound("Comment not found")
		}
		return domain.Comment{}, fmt.Errorf("failed to scan comment: %w", err)
	}
	return c, nil
}

func expectOne(result sql.Result, notFound string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound(notFound)
	}
	return nil
}
