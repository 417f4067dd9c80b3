package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
	"github.com/itchan-dev/itblog/shared/validation"
)

const avatarFolder = "avatars"

type ImageService interface {
	Upload(img *validation.PendingImage, identity *domain.Identity) (string, error)
	Open(filename string, identity *domain.Identity) (*os.File, error)
	Delete(filename string, identity *domain.Identity) error
	UploadAvatar(img *validation.PendingImage, identity *domain.Identity) (string, error)
	OpenAvatar(username domain.Username) (*os.File, error)
}

type MediaStorage interface {
	Save(folder, filename string, data io.Reader) (string, error)
	Open(folder, filename string) (*os.File, error)
	Delete(folder, filename string) error
	DeleteByStem(folder, stem, keep string) error
	FindByStem(folder, stem string) (string, error)
}

type AvatarStorage interface {
	UserByUsername(username domain.Username) (domain.User, error)
	UpdateUser(id domain.UserId, data domain.UserUpdateData) (domain.User, error)
}

type Image struct {
	media MediaStorage
	users AvatarStorage
}

func NewImage(media MediaStorage, users AvatarStorage) *Image {
	return &Image{media: media, users: users}
}

// userFolder is keyed by id so renaming a user keeps its images reachable.
func userFolder(id domain.UserId) string {
	return strconv.FormatInt(id, 10)
}

func avatarStem(id domain.UserId) string {
	return fmt.Sprintf("user_%d", id)
}

// upstream turns unexpected file store failures into Upstream errors and
// keeps taxonomy errors as they are.
func upstream(err error, message string) error {
	if errors.IsTaxonomy(err) {
		return err
	}
	logger.Log.Error(message, "error", err)
	return errors.Upstream(message)
}

// Upload stores the image in the caller's folder under its original name.
// An existing file with the same name is replaced.
func (s *Image) Upload(img *validation.PendingImage, identity *domain.Identity) (string, error) {
	if identity == nil {
		return "", errors.Unauthenticated("Authentication required")
	}
	defer img.Data.Close()

	if _, err := s.media.Save(userFolder(identity.UserId), img.Filename, img.Data); err != nil {
		return "", upstream(err, "Failed to save image")
	}
	logger.Log.Info("image uploaded", "user_id", identity.UserId, "filename", img.Filename, "size", img.Size)
	return img.Filename, nil
}

// Open returns an image from the caller's folder.
func (s *Image) Open(filename string, identity *domain.Identity) (*os.File, error) {
	if identity == nil {
		return nil, errors.Unauthenticated("Authentication required")
	}
	if err := validation.SafeFilename(filename); err != nil {
		return nil, err
	}
	file, err := s.media.Open(userFolder(identity.UserId), filename)
	if err != nil {
		return nil, upstream(err, "Failed to open image")
	}
	return file, nil
}

func (s *Image) Delete(filename string, identity *domain.Identity) error {
	if identity == nil {
		return errors.Unauthenticated("Authentication required")
	}
	if err := validation.SafeFilename(filename); err != nil {
		return err
	}
	if err := s.media.Delete(userFolder(identity.UserId), filename); err != nil {
		return upstream(err, "Failed to delete image")
	}
	logger.Log.Info("image deleted", "user_id", identity.UserId, "filename", filename)
	return nil
}

// UploadAvatar replaces the caller's avatar and records its path on the user.
func (s *Image) UploadAvatar(img *validation.PendingImage, identity *domain.Identity) (string, error) {
	if identity == nil {
		return "", errors.Unauthenticated("Authentication required")
	}
	defer img.Data.Close()

	stem := avatarStem(identity.UserId)
	filename := stem + img.Ext
	path, err := s.media.Save(avatarFolder, filename, img.Data)
	if err != nil {
		return "", upstream(err, "Failed to save avatar")
	}
	if _, err := s.users.UpdateUser(identity.UserId, domain.UserUpdateData{Avatar: &path}); err != nil {
		return "", err
	}
	// a previous avatar may have another extension
	if err := s.media.DeleteByStem(avatarFolder, stem, filename); err != nil {
		logger.Log.Warn("failed to remove previous avatar", "user_id", identity.UserId, "error", err)
	}
	logger.Log.Info("avatar uploaded", "user_id", identity.UserId, "path", path)
	return path, nil
}

func (s *Image) OpenAvatar(username domain.Username) (*os.File, error) {
	user, err := s.users.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	var name string
	if user.Avatar != nil {
		name = filepath.Base(*user.Avatar)
	} else if name, err = s.media.FindByStem(avatarFolder, avatarStem(user.Id)); err != nil {
		return nil, upstream(err, "Failed to open avatar")
	}
	file, err := s.media.Open(avatarFolder, name)
	if err != nil {
		return nil, upstream(err, "Failed to open avatar")
	}
	return file, nil
}
