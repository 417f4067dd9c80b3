package handler

import (
	"context"
	"os"

	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/validation"
)

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

type MockAuthService struct {
	RegisterFunc func(data domain.UserCreationData) (domain.User, error)
	LoginFunc    func(creds domain.Credentials) (string, error)
	LogoutFunc   func(ctx context.Context, identity *domain.Identity) error
}

func (m *MockAuthService) Register(data domain.UserCreationData) (domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(data)
	}
	return domain.User{Id: 1, Username: data.Username, Email: data.Email}, nil
}

func (m *MockAuthService) Login(creds domain.Credentials) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(creds)
	}
	return "token", nil
}

func (m *MockAuthService) Logout(ctx context.Context, identity *domain.Identity) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, identity)
	}
	return nil
}

type MockConfirmationService struct {
	IssueFunc       func(userId domain.UserId) (domain.Confirmation, error)
	SendFunc        func(user domain.User, c domain.Confirmation) error
	ConfirmFunc     func(id domain.ConfirmationId) (domain.Confirmation, error)
	ForceExpireFunc func(id domain.ConfirmationId) error
	MostRecentFunc  func(userId domain.UserId) (domain.Confirmation, error)
	ListFunc        func(userId domain.UserId) (domain.ConfirmationList, error)
	ResendFunc      func(userId domain.UserId) (domain.Confirmation, error)
}

func (m *MockConfirmationService) Issue(userId domain.UserId) (domain.Confirmation, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userId)
	}
	return domain.Confirmation{}, nil
}

func (m *MockConfirmationService) Send(user domain.User, c domain.Confirmation) error {
	if m.SendFunc != nil {
		return m.SendFunc(user, c)
	}
	return nil
}

func (m *MockConfirmationService) Confirm(id domain.ConfirmationId) (domain.Confirmation, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(id)
	}
	return domain.Confirmation{Id: id, Confirmed: true}, nil
}

func (m *MockConfirmationService) ForceExpire(id domain.ConfirmationId) error {
	if m.ForceExpireFunc != nil {
		return m.ForceExpireFunc(id)
	}
	return nil
}

func (m *MockConfirmationService) MostRecent(userId domain.UserId) (domain.Confirmation, error) {
	if m.MostRecentFunc != nil {
		return m.MostRecentFunc(userId)
	}
	return domain.Confirmation{}, nil
}

func (m *MockConfirmationService) List(userId domain.UserId) (domain.ConfirmationList, error) {
	if m.ListFunc != nil {
		return m.ListFunc(userId)
	}
	return domain.ConfirmationList{}, nil
}

func (m *MockConfirmationService) Resend(userId domain.UserId) (domain.Confirmation, error) {
	if m.ResendFunc != nil {
		return m.ResendFunc(userId)
	}
	return domain.Confirmation{}, nil
}

type MockUserService struct {
	GetFunc        func(id domain.UserId) (domain.UserProfile, error)
	ByUsernameFunc func(username domain.Username) (domain.User, error)
	ListFunc       func(page int) (domain.Page[domain.User], error)
	UpdateFunc     func(id domain.UserId, data domain.UserUpdateData, identity *domain.Identity) (domain.User, error)
	DeleteFunc     func(id domain.UserId, identity *domain.Identity) error
	UserExistsFunc func(id domain.UserId) (bool, error)
}

func (m *MockUserService) Get(id domain.UserId) (domain.UserProfile, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return domain.UserProfile{User: domain.User{Id: id}}, nil
}

func (m *MockUserService) ByUsername(username domain.Username) (domain.User, error) {
	if m.ByUsernameFunc != nil {
		return m.ByUsernameFunc(username)
	}
	return domain.User{Username: username}, nil
}

func (m *MockUserService) List(page int) (domain.Page[domain.User], error) {
	if m.ListFunc != nil {
		return m.ListFunc(page)
	}
	return domain.Page[domain.User]{Number: page, Size: 10}, nil
}

func (m *MockUserService) Update(id domain.UserId, data domain.UserUpdateData, identity *domain.Identity) (domain.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(id, data, identity)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserService) Delete(id domain.UserId, identity *domain.Identity) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id, identity)
	}
	return nil
}

func (m *MockUserService) UserExists(id domain.UserId) (bool, error) {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(id)
	}
	return true, nil
}

type MockPostService struct {
	CreateFunc       func(data domain.PostCreationData) (domain.PostId, error)
	GetFunc          func(id domain.PostId) (domain.Post, error)
	PatchFunc        func(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error)
	ReplaceFunc      func(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error)
	DeleteFunc       func(id domain.PostId, identity *domain.Identity) error
	ListFunc         func(page int) (domain.Page[domain.Post], error)
	ListByAuthorFunc func(username domain.Username, page int) (domain.Page[domain.Post], error)
}

func (m *MockPostService) Create(data domain.PostCreationData) (domain.PostId, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(data)
	}
	return 1, nil
}

func (m *MockPostService) Get(id domain.PostId) (domain.Post, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return domain.Post{Id: id, Tags: []string{}}, nil
}

func (m *MockPostService) Patch(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error) {
	if m.PatchFunc != nil {
		return m.PatchFunc(id, data, identity)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) Replace(id domain.PostId, data domain.PostUpdateData, identity *domain.Identity) (domain.Post, error) {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(id, data, identity)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) Delete(id domain.PostId, identity *domain.Identity) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id, identity)
	}
	return nil
}

func (m *MockPostService) List(page int) (domain.Page[domain.Post], error) {
	if m.ListFunc != nil {
		return m.ListFunc(page)
	}
	return domain.Page[domain.Post]{Number: page, Size: 10}, nil
}

func (m *MockPostService) ListByAuthor(username domain.Username, page int) (domain.Page[domain.Post], error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(username, page)
	}
	return domain.Page[domain.Post]{Number: page, Size: 10}, nil
}

type MockTagService struct {
	CreateFunc func(name domain.TagName) (domain.Tag, error)
	GetFunc    func(id domain.TagId) (domain.Tag, error)
	ListFunc   func(page int) (domain.Page[domain.Tag], error)
}

func (m *MockTagService) Create(name domain.TagName) (domain.Tag, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(name)
	}
	return domain.Tag{Id: 1, Name: name}, nil
}

func (m *MockTagService) Get(id domain.TagId) (domain.Tag, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return domain.Tag{Id: id}, nil
}

func (m *MockTagService) List(page int) (domain.Page[domain.Tag], error) {
	if m.ListFunc != nil {
		return m.ListFunc(page)
	}
	return domain.Page[domain.Tag]{Number: page, Size: 10}, nil
}

type MockCommentService struct {
	CreateFunc       func(data domain.CommentCreationData) (domain.Comment, error)
	GetFunc          func(id domain.CommentId, identity *domain.Identity) (domain.Comment, error)
	UpdateFunc       func(id domain.CommentId, body string, identity *domain.Identity) (domain.Comment, error)
	SetConfirmedFunc func(id domain.CommentId, confirmed bool, identity *domain.Identity) error
	DeleteFunc       func(id domain.CommentId, identity *domain.Identity) error
	ListFunc         func(page int, all bool, identity *domain.Identity) (domain.Page[domain.Comment], error)
}

func (m *MockCommentService) Create(data domain.CommentCreationData) (domain.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(data)
	}
	return domain.Comment{Id: 1, Body: data.Body, AuthorId: data.AuthorId, PostId: data.PostId}, nil
}

func (m *MockCommentService) Get(id domain.CommentId, identity *domain.Identity) (domain.Comment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id, identity)
	}
	return domain.Comment{Id: id}, nil
}

func (m *MockCommentService) Update(id domain.CommentId, body string, identity *domain.Identity) (domain.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(id, body, identity)
	}
	return domain.Comment{Id: id, Body: body}, nil
}

func (m *MockCommentService) SetConfirmed(id domain.CommentId, confirmed bool, identity *domain.Identity) error {
	if m.SetConfirmedFunc != nil {
		return m.SetConfirmedFunc(id, confirmed, identity)
	}
	return nil
}

func (m *MockCommentService) Delete(id domain.CommentId, identity *domain.Identity) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id, identity)
	}
	return nil
}

func (m *MockCommentService) List(page int, all bool, identity *domain.Identity) (domain.Page[domain.Comment], error) {
	if m.ListFunc != nil {
		return m.ListFunc(page, all, identity)
	}
	return domain.Page[domain.Comment]{Number: page, Size: 10}, nil
}

type MockImageService struct {
	UploadFunc       func(img *validation.PendingImage, identity *domain.Identity) (string, error)
	OpenFunc         func(filename string, identity *domain.Identity) (*os.File, error)
	DeleteFunc       func(filename string, identity *domain.Identity) error
	UploadAvatarFunc func(img *validation.PendingImage, identity *domain.Identity) (string, error)
	OpenAvatarFunc   func(username domain.Username) (*os.File, error)
}

func (m *MockImageService) Upload(img *validation.PendingImage, identity *domain.Identity) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(img, identity)
	}
	img.Data.Close()
	return img.Filename, nil
}

func (m *MockImageService) Open(filename string, identity *domain.Identity) (*os.File, error) {
	return m.OpenFunc(filename, identity)
}

func (m *MockImageService) Delete(filename string, identity *domain.Identity) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(filename, identity)
	}
	return nil
}

func (m *MockImageService) UploadAvatar(img *validation.PendingImage, identity *domain.Identity) (string, error) {
	if m.UploadAvatarFunc != nil {
		return m.UploadAvatarFunc(img, identity)
	}
	img.Data.Close()
	return "avatars/user_1" + img.Ext, nil
}

func (m *MockImageService) OpenAvatar(username domain.Username) (*os.File, error) {
	return m.OpenAvatarFunc(username)
}
