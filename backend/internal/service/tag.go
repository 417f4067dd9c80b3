package service

import (
	"strings"
	"unicode/utf8"

	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
)

type TagService interface {
	Create(name domain.TagName) (domain.Tag, error)
	Get(id domain.TagId) (domain.Tag, error)
	List(page int) (domain.Page[domain.Tag], error)
}

type TagStorage interface {
	SaveTag(name domain.TagName) (domain.TagId, error)
	Tag(id domain.TagId) (domain.Tag, error)
	ListTags(page, size int) (domain.Page[domain.Tag], error)
}

type Tag struct {
	storage TagStorage
	cfg     *config.Public
}

func NewTag(storage TagStorage, cfg *config.Public) *Tag {
	return &Tag{storage: storage, cfg: cfg}
}

func (s *Tag) Create(name domain.TagName) (domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, errors.Validation("Invalid input", map[string]string{"name": "This field is required"})
	}
	if utf8.RuneCountInString(name) > maxTagLength {
		return domain.Tag{}, errors.Validation("Invalid input", map[string]string{"name": "Tag name is too long"})
	}
	id, err := s.storage.SaveTag(name)
	if err != nil {
		return domain.Tag{}, err
	}
	return domain.Tag{Id: id, Name: name}, nil
}

func (s *Tag) Get(id domain.TagId) (domain.Tag, error) {
	return s.storage.Tag(id)
}

// List returns tags ordered by name.
func (s *Tag) List(page int) (domain.Page[domain.Tag], error) {
	return s.storage.ListTags(max(1, page), s.cfg.TagsPerPage)
}
