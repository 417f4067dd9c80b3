package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
	"github.com/itchan-dev/itblog/shared/middleware/metrics"
)

type AuthService interface {
	Register(data domain.UserCreationData) (domain.User, error)
	Login(creds domain.Credentials) (string, error)
	Logout(ctx context.Context, identity *domain.Identity) error
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
	UserByUsername(username domain.Username) (domain.User, error)
	DeleteUser(id domain.UserId, policy domain.UserDeletePolicy) error
}

// ConfirmationIssuer is the part of the confirmation ledger registration and
// login depend on.
type ConfirmationIssuer interface {
	Issue(userId domain.UserId) (domain.Confirmation, error)
	Send(user domain.User, c domain.Confirmation) error
	MostRecent(userId domain.UserId) (domain.Confirmation, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
	Revoke(ctx context.Context, identity *domain.Identity) error
}

type Auth struct {
	storage       AuthStorage
	confirmations ConfirmationIssuer
	jwt           Jwt
	cfg           *config.Config
}

func NewAuth(storage AuthStorage, confirmations ConfirmationIssuer, jwt Jwt, cfg *config.Config) *Auth {
	return &Auth{
		storage:       storage,
		confirmations: confirmations,
		jwt:           jwt,
		cfg:           cfg,
	}
}

// Register creates the user, issues its first confirmation and mails it.
// If the email cannot be delivered the user is removed again.
func (a *Auth) Register(data domain.UserCreationData) (user domain.User, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventRegister, err) }()

	fields := map[string]string{}
	if problem := domain.UsernameProblem(data.Username); problem != "" {
		fields["username"] = problem
	}
	if domain.PasswordTooLong(data.Password) {
		fields["password"] = fmt.Sprintf("Must be at most %d bytes", domain.MaxPasswordBytes)
	}
	if len(fields) > 0 {
		return domain.User{}, errors.Validation("Invalid input", fields)
	}

	if err := a.checkAvailable(data.Username, data.Email); err != nil {
		return domain.User{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user = domain.User{
		Username:  data.Username,
		Email:     data.Email,
		PassHash:  string(passHash),
		Admin:     a.cfg.Private.AdminEmail != "" && data.Email == a.cfg.Private.AdminEmail,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Bio:       data.Bio,
	}
	user.Id, err = a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, err
	}

	conf, err := a.confirmations.Issue(user.Id)
	if err == nil {
		err = a.confirmations.Send(user, conf)
	}
	if err != nil {
		a.compensate(user.Id)
		return domain.User{}, err
	}

	logger.Log.Info("user registered", "user_id", user.Id, "admin", user.Admin)
	return user, nil
}

func (a *Auth) checkAvailable(username domain.Username, email domain.Email) error {
	if _, err := a.storage.UserByEmail(email); err == nil {
		return errors.Conflict("User with this username or email already exists")
	} else if !errors.IsNotFound(err) {
		return err
	}
	if _, err := a.storage.UserByUsername(username); err == nil {
		return errors.Conflict("User with this username or email already exists")
	} else if !errors.IsNotFound(err) {
		return err
	}
	return nil
}

// compensate removes a user whose registration could not be completed.
func (a *Auth) compensate(id domain.UserId) {
	if err := a.storage.DeleteUser(id, domain.UserDeleteCascade); err != nil {
		logger.Log.Error("failed to roll back registration", "user_id", id, "error", err)
	}
}

// Login checks the credentials and that the most recent confirmation was
// consumed, then issues an access token.
func (a *Auth) Login(creds domain.Credentials) (token string, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventLogin, err) }()

	var user domain.User
	switch {
	case creds.Email != "":
		user, err = a.storage.UserByEmail(creds.Email)
	case creds.Username != "":
		user, err = a.storage.UserByUsername(creds.Username)
	default:
		return "", errors.Validation("Email or username is required", map[string]string{"email": "This field is required"})
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", errors.Forbidden("Invalid credentials")
	}

	conf, err := a.confirmations.MostRecent(user.Id)
	if err != nil && !errors.IsNotFound(err) {
		return "", err
	}
	if err != nil || !conf.Confirmed {
		return "", errors.Forbidden("Email is not confirmed")
	}

	return a.jwt.NewToken(user)
}

// Logout revokes the token the caller authenticated with.
func (a *Auth) Logout(ctx context.Context, identity *domain.Identity) (err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventLogout, err) }()

	if identity == nil {
		return errors.Unauthenticated("Please sign-in")
	}
	return a.jwt.Revoke(ctx, identity)
}
