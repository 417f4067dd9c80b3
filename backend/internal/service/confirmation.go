package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
	"github.com/itchan-dev/itblog/shared/middleware/metrics"
)

type ConfirmationService interface {
	Issue(userId domain.UserId) (domain.Confirmation, error)
	Send(user domain.User, c domain.Confirmation) error
	Confirm(id domain.ConfirmationId) (domain.Confirmation, error)
	ForceExpire(id domain.ConfirmationId) error
	MostRecent(userId domain.UserId) (domain.Confirmation, error)
	List(userId domain.UserId) (domain.ConfirmationList, error)
	Resend(userId domain.UserId) (domain.Confirmation, error)
}

type ConfirmationStorage interface {
	SaveConfirmation(c domain.Confirmation) error
	Confirmation(id domain.ConfirmationId) (domain.Confirmation, error)
	UpdateConfirmation(id domain.ConfirmationId, fn func(*domain.Confirmation) error) (domain.Confirmation, error)
	MostRecentConfirmation(userId domain.UserId) (domain.Confirmation, error)
	ConfirmationsByUser(userId domain.UserId) ([]domain.Confirmation, error)
	UserById(id domain.UserId) (domain.User, error)
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Confirmation struct {
	storage ConfirmationStorage
	email   Email
	cfg     *config.Public
	now     func() time.Time
}

func NewConfirmation(storage ConfirmationStorage, email Email, cfg *config.Public) *Confirmation {
	return &Confirmation{storage: storage, email: email, cfg: cfg, now: time.Now}
}

// newConfirmationId returns 32 random hex characters.
func newConfirmationId() domain.ConfirmationId {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Issue creates a fresh pending confirmation valid for ConfirmationTTL.
func (c *Confirmation) Issue(userId domain.UserId) (domain.Confirmation, error) {
	now := c.now()
	conf := domain.Confirmation{
		Id:        newConfirmationId(),
		UserId:    userId,
		ExpiresAt: now.Add(domain.ConfirmationTTL),
		CreatedAt: now,
	}
	if err := c.storage.SaveConfirmation(conf); err != nil {
		return domain.Confirmation{}, err
	}
	return conf, nil
}

// Link is the public url that consumes the confirmation.
func (c *Confirmation) Link(id domain.ConfirmationId) string {
	return fmt.Sprintf("%s/user_confirm/%s", strings.TrimRight(c.cfg.BaseURL, "/"), id)
}

// Send mails the confirmation link. Delivery failures are Upstream errors.
func (c *Confirmation) Send(user domain.User, conf domain.Confirmation) error {
	body := fmt.Sprintf("Hi %s,\n\nplease confirm your email by opening the link below within %d minutes:\n\n%s\n",
		user.Username, int(domain.ConfirmationTTL.Minutes()), c.Link(conf.Id))
	if err := c.email.Send(user.Email, "Confirm your email", body); err != nil {
		logger.Log.Error("failed to send confirmation email", "user_id", user.Id, "error", err)
		return errors.Upstream("Confirmation email could not be sent")
	}
	return nil
}

// Confirm consumes a pending confirmation. Failed attempts leave it unchanged.
func (c *Confirmation) Confirm(id domain.ConfirmationId) (domain.Confirmation, error) {
	conf, err := c.storage.UpdateConfirmation(id, func(conf *domain.Confirmation) error {
		if conf.Expired(c.now()) {
			return errors.Expired("Confirmation link has expired")
		}
		if conf.Confirmed {
			return errors.AlreadyConfirmed("Email is already confirmed")
		}
		conf.Confirmed = true
		return nil
	})
	metrics.RecordAuthEvent(metrics.EventConfirm, err)
	return conf, err
}

// ForceExpire pulls the expiry of a pending confirmation to now. Already
// expired confirmations are left alone so expiry only ever moves earlier.
func (c *Confirmation) ForceExpire(id domain.ConfirmationId) error {
	_, err := c.storage.UpdateConfirmation(id, func(conf *domain.Confirmation) error {
		now := c.now()
		if !conf.Expired(now) {
			conf.ExpiresAt = now
		}
		return nil
	})
	return err
}

func (c *Confirmation) MostRecent(userId domain.UserId) (domain.Confirmation, error) {
	return c.storage.MostRecentConfirmation(userId)
}

func (c *Confirmation) List(userId domain.UserId) (domain.ConfirmationList, error) {
	if _, err := c.storage.UserById(userId); err != nil {
		return domain.ConfirmationList{}, err
	}
	confirmations, err := c.storage.ConfirmationsByUser(userId)
	if err != nil {
		return domain.ConfirmationList{}, err
	}
	return domain.ConfirmationList{CurrentTime: c.now(), Confirmations: confirmations}, nil
}

// Resend supersedes the active confirmation with a new one and mails it.
func (c *Confirmation) Resend(userId domain.UserId) (conf domain.Confirmation, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventResend, err) }()

	user, err := c.storage.UserById(userId)
	if err != nil {
		return domain.Confirmation{}, err
	}

	current, err := c.storage.MostRecentConfirmation(userId)
	switch {
	case err == nil:
		if current.Confirmed {
			return domain.Confirmation{}, errors.AlreadyConfirmed("Email is already confirmed")
		}
		if err := c.ForceExpire(current.Id); err != nil {
			return domain.Confirmation{}, err
		}
	case errors.IsNotFound(err):
	default:
		return domain.Confirmation{}, err
	}

	conf, err = c.Issue(userId)
	if err != nil {
		return domain.Confirmation{}, err
	}
	if err := c.Send(user, conf); err != nil {
		return domain.Confirmation{}, err
	}
	return conf, nil
}
