package service

import (
	"context"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
)

// --- Confirmation ledger fake ---

// fakeLedger keeps confirmations in memory so that sequences of operations
// can be checked end to end.
type fakeLedger struct {
	mu            sync.Mutex
	users         map[domain.UserId]domain.User
	confirmations map[domain.ConfirmationId]domain.Confirmation
	saveErr       error
}

func newFakeLedger(users ...domain.User) *fakeLedger {
	l := &fakeLedger{
		users:         map[domain.UserId]domain.User{},
		confirmations: map[domain.ConfirmationId]domain.Confirmation{},
	}
	for _, u := range users {
		l.users[u.Id] = u
	}
	return l
}

func (l *fakeLedger) SaveConfirmation(c domain.Confirmation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.saveErr != nil {
		return l.saveErr
	}
	l.confirmations[c.Id] = c
	return nil
}

func (l *fakeLedger) Confirmation(id domain.ConfirmationId) (domain.Confirmation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.confirmations[id]
	if !ok {
		return domain.Confirmation{}, errors.NotFound("Confirmation not found")
	}
	return c, nil
}

func (l *fakeLedger) UpdateConfirmation(id domain.ConfirmationId, fn func(*domain.Confirmation) error) (domain.Confirmation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.confirmations[id]
	if !ok {
		return domain.Confirmation{}, errors.NotFound("Confirmation not found")
	}
	if err := fn(&c); err != nil {
		return domain.Confirmation{}, err
	}
	l.confirmations[id] = c
	return c, nil
}

func (l *fakeLedger) byUser(userId domain.UserId) []domain.Confirmation {
	var result []domain.Confirmation
	for _, c := range l.confirmations {
		if c.UserId == userId {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ExpiresAt.Equal(result[j].ExpiresAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ExpiresAt.Before(result[j].ExpiresAt)
	})
	return result
}

func (l *fakeLedger) MostRecentConfirmation(userId domain.UserId) (domain.Confirmation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := l.byUser(userId)
	if len(all) == 0 {
		return domain.Confirmation{}, errors.NotFound("Confirmation not found")
	}
	return all[len(all)-1], nil
}

func (l *fakeLedger) ConfirmationsByUser(userId domain.UserId) ([]domain.Confirmation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byUser(userId), nil
}

func (l *fakeLedger) UserById(id domain.UserId) (domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[id]
	if !ok {
		return domain.User{}, errors.NotFound("User not found")
	}
	return u, nil
}

// --- Email ---

type MockEmail struct {
	SendFunc      func(recipientEmail, subject, body string) error
	IsCorrectFunc func(email domain.Email) error

	mu   sync.Mutex
	Sent []string // bodies of delivered messages
}

func (m *MockEmail) Send(recipientEmail, subject, body string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(recipientEmail, subject, body); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Sent = append(m.Sent, body)
	m.mu.Unlock()
	return nil
}

func (m *MockEmail) IsCorrect(email domain.Email) error {
	if m.IsCorrectFunc != nil {
		return m.IsCorrectFunc(email)
	}
	return nil
}

// --- Auth ---

type MockAuthStorage struct {
	SaveUserFunc       func(user domain.User) (domain.UserId, error)
	UserByEmailFunc    func(email domain.Email) (domain.User, error)
	UserByUsernameFunc func(username domain.Username) (domain.User, error)
	DeleteUserFunc     func(id domain.UserId, policy domain.UserDeletePolicy) error
}

func (m *MockAuthStorage) SaveUser(user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(user)
	}
	return 1, nil
}

func (m *MockAuthStorage) UserByEmail(email domain.Email) (domain.User, error) {
	if m.UserByEmailFunc != nil {
		return m.UserByEmailFunc(email)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockAuthStorage) UserByUsername(username domain.Username) (domain.User, error) {
	if m.UserByUsernameFunc != nil {
		return m.UserByUsernameFunc(username)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockAuthStorage) DeleteUser(id domain.UserId, policy domain.UserDeletePolicy) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(id, policy)
	}
	return nil
}

type MockConfirmationIssuer struct {
	IssueFunc      func(userId domain.UserId) (domain.Confirmation, error)
	SendFunc       func(user domain.User, c domain.Confirmation) error
	MostRecentFunc func(userId domain.UserId) (domain.Confirmation, error)
}

func (m *MockConfirmationIssuer) Issue(userId domain.UserId) (domain.Confirmation, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userId)
	}
	return domain.Confirmation{Id: "c1", UserId: userId}, nil
}

func (m *MockConfirmationIssuer) Send(user domain.User, c domain.Confirmation) error {
	if m.SendFunc != nil {
		return m.SendFunc(user, c)
	}
	return nil
}

func (m *MockConfirmationIssuer) MostRecent(userId domain.UserId) (domain.Confirmation, error) {
	if m.MostRecentFunc != nil {
		return m.MostRecentFunc(userId)
	}
	return domain.Confirmation{Id: "c1", UserId: userId, Confirmed: true}, nil
}

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
	RevokeFunc   func(ctx context.Context, identity *domain.Identity) error
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token", nil
}

func (m *MockJwt) Revoke(ctx context.Context, identity *domain.Identity) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, identity)
	}
	return nil
}

// --- Users ---

type MockUserStorage struct {
	UserByIdFunc               func(id domain.UserId) (domain.User, error)
	UserByUsernameFunc         func(username domain.Username) (domain.User, error)
	UserExistsFunc             func(id domain.UserId) (bool, error)
	UpdateUserFunc             func(id domain.UserId, data domain.UserUpdateData) (domain.User, error)
	DeleteUserFunc             func(id domain.UserId, policy domain.UserDeletePolicy) error
	ListUsersFunc              func(page, size int) (domain.Page[domain.User], error)
	UserPostsFunc              func(id domain.UserId) ([]domain.PostRef, error)
	MostRecentConfirmationFunc func(userId domain.UserId) (domain.Confirmation, error)
}

func (m *MockUserStorage) UserById(id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{Id: id, Username: "alice"}, nil
}

func (m *MockUserStorage) UserByUsername(username domain.Username) (domain.User, error) {
	if m.UserByUsernameFunc != nil {
		return m.UserByUsernameFunc(username)
	}
	return domain.User{Id: 1, Username: username}, nil
}

func (m *MockUserStorage) UserExists(id domain.UserId) (bool, error) {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(id)
	}
	return true, nil
}

func (m *MockUserStorage) UpdateUser(id domain.UserId, data domain.UserUpdateData) (domain.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(id, data)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserStorage) DeleteUser(id domain.UserId, policy domain.UserDeletePolicy) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(id, policy)
	}
	return nil
}

func (m *MockUserStorage) ListUsers(page, size int) (domain.Page[domain.User], error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(page, size)
	}
	return domain.Page[domain.User]{Number: page, Size: size}, nil
}

func (m *MockUserStorage) UserPosts(id domain.UserId) ([]domain.PostRef, error) {
	if m.UserPostsFunc != nil {
		return m.UserPostsFunc(id)
	}
	return nil, nil
}

func (m *MockUserStorage) MostRecentConfirmation(userId domain.UserId) (domain.Confirmation, error) {
	if m.MostRecentConfirmationFunc != nil {
		return m.MostRecentConfirmationFunc(userId)
	}
	return domain.Confirmation{}, errors.NotFound("Confirmation not found")
}

// --- Posts ---

type MockPostStorage struct {
	SavePostFunc          func(data domain.PostCreationData) (domain.PostId, error)
	PostFunc              func(id domain.PostId) (domain.Post, error)
	PostAuthorFunc        func(id domain.PostId) (domain.UserId, error)
	UpdatePostFunc        func(id domain.PostId, data domain.PostUpdateData) error
	DeletePostFunc        func(id domain.PostId) error
	ListPostsFunc         func(page, size int) (domain.Page[domain.Post], error)
	ListPostsByAuthorFunc func(authorId domain.UserId, page, size int) (domain.Page[domain.Post], error)
	UserByUsernameFunc    func(username domain.Username) (domain.User, error)
}

func (m *MockPostStorage) SavePost(data domain.PostCreationData) (domain.PostId, error) {
	if m.SavePostFunc != nil {
		return m.SavePostFunc(data)
	}
	return 1, nil
}

func (m *MockPostStorage) Post(id domain.PostId) (domain.Post, error) {
	if m.PostFunc != nil {
		return m.PostFunc(id)
	}
	return domain.Post{Id: id, Body: "body"}, nil
}

func (m *MockPostStorage) PostAuthor(id domain.PostId) (domain.UserId, error) {
	if m.PostAuthorFunc != nil {
		return m.PostAuthorFunc(id)
	}
	return 1, nil
}

func (m *MockPostStorage) UpdatePost(id domain.PostId, data domain.PostUpdateData) error {
	if m.UpdatePostFunc != nil {
		return m.UpdatePostFunc(id, data)
	}
	return nil
}

func (m *MockPostStorage) DeletePost(id domain.PostId) error {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(id)
	}
	return nil
}

func (m *MockPostStorage) ListPosts(page, size int) (domain.Page[domain.Post], error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(page, size)
	}
	return domain.Page[domain.Post]{Number: page, Size: size}, nil
}

func (m *MockPostStorage) ListPostsByAuthor(authorId domain.UserId, page, size int) (domain.Page[domain.Post], error) {
	if m.ListPostsByAuthorFunc != nil {
		return m.ListPostsByAuthorFunc(authorId, page, size)
	}
	return domain.Page[domain.Post]{Number: page, Size: size}, nil
}

func (m *MockPostStorage) UserByUsername(username domain.Username) (domain.User, error) {
	if m.UserByUsernameFunc != nil {
		return m.UserByUsernameFunc(username)
	}
	return domain.User{Id: 1, Username: username}, nil
}

// --- Tags ---

type MockTagStorage struct {
	SaveTagFunc  func(name domain.TagName) (domain.TagId, error)
	TagFunc      func(id domain.TagId) (domain.Tag, error)
	ListTagsFunc func(page, size int) (domain.Page[domain.Tag], error)
}

func (m *MockTagStorage) SaveTag(name domain.TagName) (domain.TagId, error) {
	if m.SaveTagFunc != nil {
		return m.SaveTagFunc(name)
	}
	return 1, nil
}

func (m *MockTagStorage) Tag(id domain.TagId) (domain.Tag, error) {
	if m.TagFunc != nil {
		return m.TagFunc(id)
	}
	return domain.Tag{Id: id, Name: "go"}, nil
}

func (m *MockTagStorage) ListTags(page, size int) (domain.Page[domain.Tag], error) {
	if m.ListTagsFunc != nil {
		return m.ListTagsFunc(page, size)
	}
	return domain.Page[domain.Tag]{Number: page, Size: size}, nil
}

// --- Comments ---

type MockCommentStorage struct {
	SaveCommentFunc         func(data domain.CommentCreationData) (domain.CommentId, error)
	CommentFunc             func(id domain.CommentId) (domain.Comment, error)
	UpdateCommentFunc       func(id domain.CommentId, body string) error
	SetCommentConfirmedFunc func(id domain.CommentId, confirmed bool) error
	DeleteCommentFunc       func(id domain.CommentId) error
	ListCommentsFunc        func(page, size int, confirmedOnly bool) (domain.Page[domain.Comment], error)
}

func (m *MockCommentStorage) SaveComment(data domain.CommentCreationData) (domain.CommentId, error) {
	if m.SaveCommentFunc != nil {
		return m.SaveCommentFunc(data)
	}
	return 1, nil
}

func (m *MockCommentStorage) Comment(id domain.CommentId) (domain.Comment, error) {
	if m.CommentFunc != nil {
		return m.CommentFunc(id)
	}
	return domain.Comment{Id: id, AuthorId: 1, Confirmed: true}, nil
}

func (m *MockCommentStorage) UpdateComment(id domain.CommentId, body string) error {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(id, body)
	}
	return nil
}

func (m *MockCommentStorage) SetCommentConfirmed(id domain.CommentId, confirmed bool) error {
	if m.SetCommentConfirmedFunc != nil {
		return m.SetCommentConfirmedFunc(id, confirmed)
	}
	return nil
}

func (m *MockCommentStorage) DeleteComment(id domain.CommentId) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(id)
	}
	return nil
}

func (m *MockCommentStorage) ListComments(page, size int, confirmedOnly bool) (domain.Page[domain.Comment], error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(page, size, confirmedOnly)
	}
	return domain.Page[domain.Comment]{Number: page, Size: size}, nil
}

// --- Media ---

type MockMediaStorage struct {
	SaveFunc         func(folder, filename string, data io.Reader) (string, error)
	OpenFunc         func(folder, filename string) (*os.File, error)
	DeleteFunc       func(folder, filename string) error
	DeleteByStemFunc func(folder, stem, keep string) error
	FindByStemFunc   func(folder, stem string) (string, error)
}

func (m *MockMediaStorage) Save(folder, filename string, data io.Reader) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(folder, filename, data)
	}
	return folder + "/" + filename, nil
}

func (m *MockMediaStorage) Open(folder, filename string) (*os.File, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(folder, filename)
	}
	return nil, errors.NotFound("File not found")
}

func (m *MockMediaStorage) Delete(folder, filename string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(folder, filename)
	}
	return nil
}

func (m *MockMediaStorage) DeleteByStem(folder, stem, keep string) error {
	if m.DeleteByStemFunc != nil {
		return m.DeleteByStemFunc(folder, stem, keep)
	}
	return nil
}

func (m *MockMediaStorage) FindByStem(folder, stem string) (string, error) {
	if m.FindByStemFunc != nil {
		return m.FindByStemFunc(folder, stem)
	}
	return "", errors.NotFound("File not found")
}
