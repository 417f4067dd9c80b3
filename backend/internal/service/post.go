package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/itchan-dev/itblog/shared/authz"
	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
)

const maxTagLength = 64

type PostService interface {
	Create(data domain.PostCreationData) (domain.PostId, error)
	Get(id domain.PostId) (domain.Post, error)
	Patch(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error)
	Replace(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error)
	Delete(id domain.PostId, identity *domain.Identity) error
	List(page int) (domain.Page[domain.Post], error)
	ListByAuthor(username domain.Username, page int) (domain.Page[domain.Post], error)
}

type PostStorage interface {
	SavePost(data domain.PostCreationData) (domain.PostId, error)
	Post(id domain.PostId) (domain.Post, error)
	PostAuthor(id domain.PostId) (domain.UserId, error)
	UpdatePost(id domain.PostId, data domain.PostUpdateData) error
	DeletePost(id domain.PostId) error
	ListPosts(page, size int) (domain.Page[domain.Post], error)
	ListPostsByAuthor(authorId domain.UserId, page, size int) (domain.Page[domain.Post], error)
	UserByUsername(username domain.Username) (domain.User, error)
}

type MarkdownRenderer interface {
	Render(source string) (string, error)
}

type Post struct {
	storage  PostStorage
	renderer MarkdownRenderer
	cfg      *config.Public
}

func NewPost(storage PostStorage, renderer MarkdownRenderer, cfg *config.Public) *Post {
	return &Post{storage: storage, renderer: renderer, cfg: cfg}
}

// NormalizeTags trims names and drops duplicates keeping the first occurrence.
func NormalizeTags(tags []domain.TagName) ([]domain.TagName, error) {
	seen := make(map[domain.TagName]struct{}, len(tags))
	result := make([]domain.TagName, 0, len(tags))
	for i, tag := range tags {
		tag = strings.TrimSpace(tag)
		field := fmt.Sprintf("tags[%d]", i)
		if tag == "" {
			return nil, errors.Validation("Invalid input", map[string]string{field: "Tag name cannot be empty"})
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return nil, errors.Validation("Invalid input", map[string]string{field: fmt.Sprintf("Tag name is longer than %d characters", maxTagLength)})
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result, nil
}

func validatePostFields(title, body *string) error {
	fields := map[string]string{}
	if title != nil && strings.TrimSpace(*title) == "" {
		fields["title"] = "This field is required"
	}
	if body != nil && strings.TrimSpace(*body) == "" {
		fields["body"] = "This field is required"
	}
	if len(fields) > 0 {
		return errors.Validation("Invalid input", fields)
	}
	return nil
}

func (s *Post) Create(data domain.PostCreationData) (domain.PostId, error) {
	if err := validatePostFields(&data.Title, &data.Body); err != nil {
		return 0, err
	}
	tags, err := NormalizeTags(data.Tags)
	if err != nil {
		return 0, err
	}
	data.Tags = tags

	id, err := s.storage.SavePost(data)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("post created", "post_id", id, "author_id", data.AuthorId, "tags", len(tags))
	return id, nil
}

// Get returns the post with its body rendered to sanitized html.
func (s *Post) Get(id domain.PostId) (domain.Post, error) {
	post, err := s.storage.Post(id)
	if err != nil {
		return domain.Post{}, err
	}
	post.BodyHTML, err = s.renderer.Render(post.Body)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to render post %d: %w", id, err)
	}
	return post, nil
}

// Patch updates the fields that are set.
func (s *Post) Patch(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error) {
	return s.update(id, data, identity)
}

// Replace overwrites title, body and tags. All three must be set.
func (s *Post) Replace(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error) {
	fields := map[string]string{}
	if data.Title == nil {
		fields["title"] = "This field is required"
	}
	if data.Body == nil {
		fields["body"] = "This field is required"
	}
	if len(fields) > 0 {
		return domain.Post{}, errors.Validation("Invalid input", fields)
	}
	if data.Tags == nil {
		data.Tags = &[]domain.TagName{}
	}
	return s.update(id, data, identity)
}

func (s *Post) update(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error) {
	if err := s.authorize(id, identity); err != nil {
		return domain.Post{}, err
	}
	if err := validatePostFields(data.Title, data.Body); err != nil {
		return domain.Post{}, err
	}
	if data.Tags != nil {
		tags, err := NormalizeTags(*data.Tags)
		if err != nil {
			return domain.Post{}, err
		}
		data.Tags = &tags
	}

	if err := s.storage.UpdatePost(id, data); err != nil {
		return domain.Post{}, err
	}
	logger.Log.Info("post updated", "post_id", id, "by", identity.UserId)
	return s.Get(id)
}

func (s *Post) Delete(id domain.PostId, identity *domain.Identity) error {
	if err := s.authorize(id, identity); err != nil {
		return err
	}
	if err := s.storage.DeletePost(id); err != nil {
		return err
	}
	logger.Log.Info("post deleted", "post_id", id, "by", identity.UserId)
	return nil
}

// authorize loads the owner of the post and checks identity against it.
func (s *Post) authorize(id domain.PostId, identity *domain.Identity) error {
	if identity == nil {
		return errors.Unauthenticated("Authentication required")
	}
	authorId, err := s.storage.PostAuthor(id)
	if err != nil {
		return err
	}
	return authz.RequireOwnerOrAdmin(authorId, identity)
}

func (s *Post) List(page int) (domain.Page[domain.Post], error) {
	return s.storage.ListPosts(max(1, page), s.cfg.PostsPerPage)
}

func (s *Post) ListByAuthor(username domain.Username, page int) (domain.Page[domain.Post], error) {
	user, err := s.storage.UserByUsername(username)
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return s.storage.ListPostsByAuthor(user.Id, max(1, page), s.cfg.PostsPerPage)
}
