package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wneessen/go-mail"

	"applicantreview/internal/config"
)

// SMTPTransport delivers messages through one SMTP relay.
type SMTPTransport struct {
	mu       sync.Mutex
	client   *mail.Client
	from     string
	fromName string
}

var _ Transport = (*SMTPTransport)(nil)

func NewSMTPTransport(cfg config.MailConfig) (*SMTPTransport, error) {
	if cfg.From == "" {
		return nil, errors.New("MAIL_FROM is required when SMTP_HOST is set")
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}
	switch cfg.TLS {
	case "ssl":
		opts = append(opts, mail.WithSSL())
	case "opportunistic":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &SMTPTransport{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(t.fromName, t.from, msg)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.DialAndSendWithContext(ctx, m)
}

// buildMsg converts msg into a MIME message. HTML messages carry Text as the alternative part.
func buildMsg(fromName, from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(fromName, from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.ReplyTo(from); err != nil {
		return nil, fmt.Errorf("invalid reply-to: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)

	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML == "" {
		return m, nil
	}
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	for _, f := range msg.Inline {
		m.EmbedFile(f.Path, mail.WithFileContentID(f.ContentID))
	}
	return m, nil
}
