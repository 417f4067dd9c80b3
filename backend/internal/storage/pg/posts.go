package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/itblog/shared/domain"
	internal_errors "github.com/itchan-dev/itblog/shared/errors"
)

const postSelect = `
	SELECT p.id, p.title, p.body, p.created_at, u.id, u.username, u.email,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.confirmed)
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// =========================================================================
// Public Methods
// =========================================================================

// SavePost creates the post and attaches its tags in one transaction.
func (s *Storage) SavePost(data domain.PostCreationData) (domain.PostId, error) {
	var id domain.PostId
	err := s.withTx(func(tx *sql.Tx) error {
		err := tx.QueryRow("INSERT INTO posts(title, body, author_id) VALUES($1, $2, $3) RETURNING id",
			data.Title, data.Body, data.AuthorId).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		return s.attachTags(tx, id, data.Tags)
	})
	return id, err
}

// Post returns the post with author, tags and its confirmed comments.
func (s *Storage) Post(id domain.PostId) (domain.Post, error) {
	var post domain.Post
	err := s.withReadTx(func(tx *sql.Tx) error {
		var err error
		post, err = scanPost(tx.QueryRow(postSelect+" WHERE p.id = $1", id))
		if err != nil {
			return err
		}
		tags, err := s.tagsForPosts(tx, []domain.PostId{id})
		if err != nil {
			return err
		}
		post.Tags = nonNilTags(tags[id])
		post.Comments, err = s.postComments(tx, id)
		return err
	})
	return post, err
}

// PostAuthor returns the owner of the post.
func (s *Storage) PostAuthor(id domain.PostId) (domain.UserId, error) {
	var authorId domain.UserId
	err := s.db.QueryRow("SELECT author_id FROM posts WHERE id = $1", id).Scan(&authorId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, internal_errors.NotFound("Post not found")
		}
		return 0, fmt.Errorf("failed to query post author: %w", err)
	}
	return authorId, nil
}

// UpdatePost applies the non-nil fields. A non-nil Tags replaces the tag set.
func (s *Storage) UpdatePost(id domain.PostId, data domain.PostUpdateData) error {
	return s.withTx(func(tx *sql.Tx) error {
		var locked domain.PostId
		if err := tx.QueryRow("SELECT id FROM posts WHERE id = $1 FOR UPDATE", id).Scan(&locked); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return internal_errors.NotFound("Post not found")
			}
			return fmt.Errorf("failed to lock post: %w", err)
		}
		if data.Title != nil {
			if _, err := tx.Exec("UPDATE posts SET title = $1 WHERE id = $2", *data.Title, id); err != nil {
				return fmt.Errorf("failed to update post title: %w", err)
			}
		}
		if data.Body != nil {
			if _, err := tx.Exec("UPDATE posts SET body = $1 WHERE id = $2", *data.Body, id); err != nil {
				return fmt.Errorf("failed to update post body: %w", err)
			}
		}
		if data.Tags != nil {
			if _, err := tx.Exec("DELETE FROM post_tags WHERE post_id = $1", id); err != nil {
				return fmt.Errorf("failed to detach post tags: %w", err)
			}
			if err := s.attachTags(tx, id, *data.Tags); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) DeletePost(id domain.PostId) error {
	result, err := s.db.Exec("DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for post deletion: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Post not found")
	}
	return nil
}

// ListPosts returns a page of posts, newest first.
func (s *Storage) ListPosts(page, size int) (domain.Page[domain.Post], error) {
	return s.listPosts(page, size, nil)
}

// ListPostsByAuthor returns a page of the author's posts, newest first.
func (s *Storage) ListPostsByAuthor(authorId domain.UserId, page, size int) (domain.Page[domain.Post], error) {
	return s.listPosts(page, size, &authorId)
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) listPosts(page, size int, authorId *domain.UserId) (domain.Page[domain.Post], error) {
	result := domain.Page[domain.Post]{Number: max(1, page), Size: size}
	err := s.withReadTx(func(tx *sql.Tx) error {
		// $1 is NULL for the unfiltered listing
		if err := tx.QueryRow("SELECT COUNT(*) FROM posts WHERE $1::BIGINT IS NULL OR author_id = $1", authorId).Scan(&result.Total); err != nil {
			return fmt.Errorf("failed to count posts: %w", err)
		}
		rows, err := tx.Query(postSelect+`
			WHERE $1::BIGINT IS NULL OR p.author_id = $1
			ORDER BY p.created_at DESC, p.id DESC
			LIMIT $2 OFFSET $3`, authorId, size, domain.Offset(page, size))
		if err != nil {
			return fmt.Errorf("failed to query posts: %w", err)
		}
		defer rows.Close()

		var ids []domain.PostId
		for rows.Next() {
			post, err := scanPost(rows)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, post)
			ids = append(ids, post.Id)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		tags, err := s.tagsForPosts(tx, ids)
		if err != nil {
			return err
		}
		for i := range result.Items {
			result.Items[i].Tags = nonNilTags(tags[result.Items[i].Id])
		}
		return nil
	})
	return result, err
}

func scanPost(row scanner) (domain.Post, error) {
	var post domain.Post
	err := row.Scan(&post.Id, &post.Title, &post.Body, &post.CreatedAt,
		&post.Author.Id, &post.Author.Username, &post.Author.Email, &post.CommentsCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, internal_errors.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}
	return post, nil
}

func nonNilTags(tags []domain.TagName) []domain.TagName {
	if tags == nil {
		return []domain.TagName{}
	}
	return tags
}
