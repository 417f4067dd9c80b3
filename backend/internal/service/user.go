package service

import (
	"github.com/itchan-dev/itblog/shared/authz"
	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
)

type UserService interface {
	Get(id domain.UserId) (domain.UserProfile, error)
	ByUsername(username domain.Username) (domain.User, error)
	List(page int) (domain.Page[domain.User], error)
	Update(id domain.UserId, data domain.UserUpdateData, identity *domain.Identity) (domain.User, error)
	Delete(id domain.UserId, identity *domain.Identity) error
	UserExists(id domain.UserId) (bool, error)
}

type UserStorage interface {
	UserById(id domain.UserId) (domain.User, error)
	UserByUsername(username domain.Username) (domain.User, error)
	UserExists(id domain.UserId) (bool, error)
	UpdateUser(id domain.UserId, data domain.UserUpdateData) (domain.User, error)
	DeleteUser(id domain.UserId, policy domain.UserDeletePolicy) error
	ListUsers(page, size int) (domain.Page[domain.User], error)
	UserPosts(id domain.UserId) ([]domain.PostRef, error)
	MostRecentConfirmation(userId domain.UserId) (domain.Confirmation, error)
}

type User struct {
	storage UserStorage
	cfg     *config.Public
}

func NewUser(storage UserStorage, cfg *config.Public) *User {
	return &User{storage: storage, cfg: cfg}
}

// Get returns the user with its most recent confirmation and authored posts.
func (s *User) Get(id domain.UserId) (domain.UserProfile, error) {
	user, err := s.storage.UserById(id)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profile := domain.UserProfile{User: user}

	conf, err := s.storage.MostRecentConfirmation(id)
	switch {
	case err == nil:
		profile.Confirmation = &conf
	case !errors.IsNotFound(err):
		return domain.UserProfile{}, err
	}

	profile.Posts, err = s.storage.UserPosts(id)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if profile.Posts == nil {
		profile.Posts = []domain.PostRef{}
	}
	return profile, nil
}

func (s *User) ByUsername(username domain.Username) (domain.User, error) {
	return s.storage.UserByUsername(username)
}

func (s *User) List(page int) (domain.Page[domain.User], error) {
	return s.storage.ListUsers(max(1, page), s.cfg.UsersPerPage)
}

func (s *User) Update(id domain.UserId, data domain.UserUpdateData, identity *domain.Identity) (domain.User, error) {
	if err := authz.RequireOwnerOrAdmin(id, identity); err != nil {
		return domain.User{}, err
	}
	if data.Username != nil {
		if problem := domain.UsernameProblem(*data.Username); problem != "" {
			return domain.User{}, errors.Validation("Invalid input", map[string]string{"username": problem})
		}
	}
	user, err := s.storage.UpdateUser(id, data)
	if err != nil {
		return domain.User{}, err
	}
	logger.Log.Info("user updated", "user_id", id, "by", identity.UserId)
	return user, nil
}

// Delete removes the user. Authored posts follow the configured delete policy.
func (s *User) Delete(id domain.UserId, identity *domain.Identity) error {
	if err := authz.RequireOwnerOrAdmin(id, identity); err != nil {
		return err
	}
	if err := s.storage.DeleteUser(id, s.cfg.UserDeletePolicy); err != nil {
		return err
	}
	logger.Log.Info("user deleted", "user_id", id, "by", identity.UserId, "policy", s.cfg.UserDeletePolicy)
	return nil
}

func (s *User) UserExists(id domain.UserId) (bool, error) {
	return s.storage.UserExists(id)
}
