package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/itchan-dev/itblog/shared/domain"
	internal_errors "github.com/itchan-dev/itblog/shared/errors"
	sharedpg "github.com/itchan-dev/itblog/shared/storage/pg"
)

func (s *Storage) SaveTag(name domain.TagName) (domain.TagId, error) {
	var id domain.TagId
	err := s.db.QueryRow("INSERT INTO tags(name) VALUES($1) RETURNING id", name).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return 0, internal_errors.Conflict(fmt.Sprintf("Tag %q already exists", name))
		}
		return 0, fmt.Errorf("failed to insert tag: %w", err)
	}
	return id, nil
}

func (s *Storage) Tag(id domain.TagId) (domain.Tag, error) {
	var tag domain.Tag
	err := s.db.QueryRow("SELECT id, name FROM tags WHERE id = $1", id).Scan(&tag.Id, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Tag{}, internal_errors.NotFound("Tag not found")
		}
		return domain.Tag{}, fmt.Errorf("failed to query tag: %w", err)
	}
	return tag, nil
}

func (s *Storage) TagByName(name domain.TagName) (domain.Tag, error) {
	var tag domain.Tag
	err := s.db.QueryRow("SELECT id, name FROM tags WHERE name = $1", name).Scan(&tag.Id, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Tag{}, internal_errors.NotFound("Tag not found")
		}
		return domain.Tag{}, fmt.Errorf("failed to query tag: %w", err)
	}
	return tag, nil
}

func (s *Storage) ListTags(page, size int) (domain.Page[domain.Tag], error) {
	result := domain.Page[domain.Tag]{Number: max(1, page), Size: size}
	err := s.withReadTx(func(tx *sql.Tx) error {
		if err := tx.QueryRow("SELECT COUNT(*) FROM tags").Scan(&result.Total); err != nil {
			return fmt.Errorf("failed to count tags: %w", err)
		}
		rows, err := tx.Query("SELECT id, name FROM tags ORDER BY name LIMIT $1 OFFSET $2", size, domain.Offset(page, size))
		if err != nil {
			return fmt.Errorf("failed to query tags: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var tag domain.Tag
			if err := rows.Scan(&tag.Id, &tag.Name); err != nil {
				return fmt.Errorf("failed to scan tag: %w", err)
			}
			result.Items = append(result.Items, tag)
		}
		return rows.Err()
	})
	return result, err
}

// upsertTag returns the id of the tag named name, creating it if needed.
// The no-op update makes RETURNING yield the existing row on conflict.
func (s *Storage) upsertTag(q Querier, name domain.TagName) (domain.TagId, error) {
	var id domain.TagId
	err := q.QueryRow(`
		INSERT INTO tags(name) VALUES($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert tag %q: %w", name, err)
	}
	return id, nil
}

// attachTags links names to the post. Names are expected to be normalized.
func (s *Storage) attachTags(q Querier, postId domain.PostId, names []domain.TagName) error {
	for _, name := range names {
		tagId, err := s.upsertTag(q, name)
		if err != nil {
			return err
		}
		if _, err := q.Exec("INSERT INTO post_tags(post_id, tag_id) VALUES($1, $2) ON CONFLICT DO NOTHING", postId, tagId); err != nil {
			return fmt.Errorf("failed to attach tag %q: %w", name, err)
		}
	}
	return nil
}

// tagsForPosts loads tag names for a set of posts, ordered by name.
func (s *Storage) tagsForPosts(q Querier, postIds []domain.PostId) (map[domain.PostId][]domain.TagName, error) {
	tags := make(map[domain.PostId][]domain.TagName, len(postIds))
	if len(postIds) == 0 {
		return tags, nil
	}
	rows, err := q.Query(`
		SELECT pt.post_id, t.name FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name`, pq.Array(postIds))
	if err != nil {
		return nil, fmt.Errorf("failed to query post tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var postId domain.PostId
		var name domain.TagName
		if err := rows.Scan(&postId, &name); err != nil {
			return nil, fmt.Errorf("failed to scan post tag: %w", err)
		}
		tags[postId] = append(tags[postId], name)
	}
	return tags, rows.Err()
}
