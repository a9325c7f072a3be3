package mailer

import (
	"context"
	"fmt"

	"github.com/orange-studies/portal-service/internal/config"
	"github.com/orange-studies/portal-service/internal/utils"
	"gopkg.in/gomail.v2"
)

// SMTPOverride carries per-tenant SMTP settings from the portal settings row.
// Zero-value fields fall back to the process configuration.
type SMTPOverride struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// Mailer sends transactional mail. Delivery is synchronous; callers decide
// whether a send failure aborts the workflow (OTP issue does, welcome mail
// does not).
type Mailer interface {
	SendOtp(ctx context.Context, to, code, purpose string, override SMTPOverride) error
	SendWelcome(ctx context.Context, to, name string, override SMTPOverride) error
	SendStaffCredentials(ctx context.Context, to, role, password string, override SMTPOverride) error
}

type smtpMailer struct {
	cfg    *config.Config
	logger utils.Logger
}

func NewSMTPMailer(cfg *config.Config, logger utils.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) resolve(o SMTPOverride) SMTPOverride {
	if o.Host == "" {
		o.Host = m.cfg.SMTPHost
	}
	if o.Port == 0 {
		o.Port = m.cfg.SMTPPort
	}
	if o.User == "" {
		o.User = m.cfg.SMTPUser
	}
	if o.Password == "" {
		o.Password = m.cfg.SMTPPassword
	}
	if o.From == "" {
		o.From = m.cfg.MailFrom
	}
	if o.FromName == "" {
		o.FromName = m.cfg.MailFromName
	}
	return o
}

func (m *smtpMailer) send(o SMTPOverride, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", o.From, o.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(o.Host, o.Port, o.User, o.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (m *smtpMailer) SendOtp(ctx context.Context, to, code, purpose string, override SMTPOverride) error {
	subject := "Your Orange Studies verification code"
	if purpose == "RESET" {
		subject = "Your Orange Studies password reset code"
	}
	body := fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in 15 minutes.</p>",
		code)

	if err := m.send(m.resolve(override), to, subject, body); err != nil {
		return err
	}
	m.logger.Info("OTP mail sent", "to", to, "purpose", purpose)
	return nil
}

func (m *smtpMailer) SendWelcome(ctx context.Context, to, name string, override SMTPOverride) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to Orange Studies. Your email is verified and your account is ready.</p>",
		name)
	return m.send(m.resolve(override), to, "Welcome to Orange Studies", body)
}

func (m *smtpMailer) SendStaffCredentials(ctx context.Context, to, role, password string, override SMTPOverride) error {
	body := fmt.Sprintf(
		"<p>A staff account with role <strong>%s</strong> was created for this address.</p>"+
			"<p>Temporary password: <code>%s</code></p><p>Please change it after signing in.</p>",
		role, password)
	return m.send(m.resolve(override), to, "Your Orange Studies staff account", body)
}
