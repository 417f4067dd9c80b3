package service

import (
	"strings"

	"github.com/itchan-dev/itblog/shared/authz"
	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
)

type CommentService interface {
	Create(data domain.CommentCreationData) (domain.Comment, error)
	Get(id domain.CommentId, identity *domain.Identity) (domain.Comment, error)
	Update(id domain.CommentId, body string, identity *domain.Identity) (domain.Comment, error)
	SetConfirmed(id domain.CommentId, confirmed bool, identity *domain.Identity) error
	Delete(id domain.CommentId, identity *domain.Identity) error
	List(page int, all bool, identity *domain.Identity) (domain.Page[domain.Comment], error)
}

type CommentStorage interface {
	SaveComment(data domain.CommentCreationData) (domain.CommentId, error)
	Comment(id domain.CommentId) (domain.Comment, error)
	UpdateComment(id domain.CommentId, body string) error
	SetCommentConfirmed(id domain.CommentId, confirmed bool) error
	DeleteComment(id domain.CommentId) error
	ListComments(page, size int, confirmedOnly bool) (domain.Page[domain.Comment], error)
}

type Comment struct {
	storage CommentStorage
	cfg     *config.Public
}

func NewComment(storage CommentStorage, cfg *config.Public) *Comment {
	return &Comment{storage: storage, cfg: cfg}
}

// cleanBody strips markup from a comment body and rejects what is left empty.
func cleanBody(body string) (string, error) {
	body = strings.TrimSpace(StripHTML(body))
	if body == "" {
		return "", errors.Validation("Invalid input", map[string]string{"body": "This field is required"})
	}
	return body, nil
}

func (s *Comment) Create(data domain.CommentCreationData) (domain.Comment, error) {
	body, err := cleanBody(data.Body)
	if err != nil {
		return domain.Comment{}, err
	}
	data.Body = body

	id, err := s.storage.SaveComment(data)
	if err != nil {
		return domain.Comment{}, err
	}
	logger.Log.Info("comment created", "comment_id", id, "post_id", data.PostId, "author_id", data.AuthorId)
	return s.storage.Comment(id)
}

// Get hides unconfirmed comments from everyone but their author and admins.
func (s *Comment) Get(id domain.CommentId, identity *domain.Identity) (domain.Comment, error) {
	comment, err := s.storage.Comment(id)
	if err != nil {
		return domain.Comment{}, err
	}
	if !comment.Confirmed && !authz.CanSeeHidden(comment.AuthorId, identity) {
		return domain.Comment{}, errors.NotFound("Comment not found")
	}
	return comment, nil
}

func (s *Comment) Update(id domain.CommentId, body string, identity *domain.Identity) (domain.Comment, error) {
	if err := s.authorize(id, identity); err != nil {
		return domain.Comment{}, err
	}
	body, err := cleanBody(body)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := s.storage.UpdateComment(id, body); err != nil {
		return domain.Comment{}, err
	}
	return s.storage.Comment(id)
}

// SetConfirmed hides or reveals a comment. Admin only.
func (s *Comment) SetConfirmed(id domain.CommentId, confirmed bool, identity *domain.Identity) error {
	if err := authz.RequireAdmin(identity); err != nil {
		return err
	}
	if err := s.storage.SetCommentConfirmed(id, confirmed); err != nil {
		return err
	}
	logger.Log.Info("comment moderated", "comment_id", id, "confirmed", confirmed, "by", identity.UserId)
	return nil
}

func (s *Comment) Delete(id domain.CommentId, identity *domain.Identity) error {
	if err := s.authorize(id, identity); err != nil {
		return err
	}
	return s.storage.DeleteComment(id)
}

func (s *Comment) authorize(id domain.CommentId, identity *domain.Identity) error {
	if identity == nil {
		return errors.Unauthenticated("Authentication required")
	}
	comment, err := s.storage.Comment(id)
	if err != nil {
		return err
	}
	return authz.RequireOwnerOrAdmin(comment.AuthorId, identity)
}

// List returns confirmed comments. The unfiltered listing requires admin.
func (s *Comment) List(page int, all bool, identity *domain.Identity) (domain.Page[domain.Comment], error) {
	if all {
		if err := authz.RequireAdmin(identity); err != nil {
			return domain.Page[domain.Comment]{}, err
		}
	}
	return s.storage.ListComments(max(1, page), s.cfg.CommentsPerPage, !all)
}
