package email

import (
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"math/rand"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
)

// ErrDelivery marks every failure to hand a message to the SMTP server.
var ErrDelivery = stderrors.New("email delivery failed")

type Email struct {
	config *config.Email
	auth   smtp.Auth
}

func New(config *config.Email) *Email {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)
	return &Email{
		config: config,
		auth:   auth,
	}
}

func (e *Email) IsCorrect(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.Validation("Invalid email", map[string]string{"email": err.Error()})
	}
	return nil
}

// Send delivers a plain text message. Without a configured SMTP server the
// message is only logged, which keeps local setups usable.
func (e *Email) Send(recipientEmail, subject, body string) error {
	if e.config.SMTPServer == "" {
		logger.Log.Warn("smtp server not configured, email not sent", "recipient", recipientEmail, "subject", subject, "body", body)
		return nil
	}

	msg := e.buildMessage(recipientEmail, subject, body)
	address := net.JoinHostPort(e.config.SMTPServer, fmt.Sprint(e.config.SMTPPort))

	var err error
	// Port 465 = implicit TLS, otherwise STARTTLS
	if e.config.SMTPPort == 465 {
		err = e.sendImplicitTLS(address, recipientEmail, msg)
	} else {
		err = e.sendSTARTTLS(address, recipientEmail, msg)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func (e *Email) timeout() time.Duration {
	timeout := time.Duration(e.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

func (e *Email) sendImplicitTLS(address, recipientEmail string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: e.config.SMTPServer}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: e.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return e.sendViaClient(client, recipientEmail, msg)
}

func (e *Email) sendSTARTTLS(address, recipientEmail string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, e.timeout())
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(e.timeout()))

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: e.config.SMTPServer}); err != nil {
		logger.Log.Error("failed to start TLS", "error", err)
		return err
	}

	return e.sendViaClient(client, recipientEmail, msg)
}

func (e *Email) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(e.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}
	if err := client.Mail(e.config.Username); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}
	if err := client.Rcpt(recipientEmail); err != nil {
		logger.Log.Error("failed to set recipient", "recipient", recipientEmail, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}
	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}
	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	return fmt.Sprintf("<%d.%d@%s>", time.Now().UnixNano(), rand.Int63(), domain)
}

// senderDomain is the host part of the sender address, used for Message-ID.
func (e *Email) senderDomain() string {
	if _, host, ok := strings.Cut(e.config.Username, "@"); ok && host != "" {
		return host
	}
	return "localhost"
}

func (e *Email) buildMessage(recipient, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", e.config.SenderName)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		generateMessageID(e.senderDomain()), time.Now().Format(time.RFC1123Z),
		recipient, encodedSenderName, e.config.Username, encodedSubject, body,
	)
}
