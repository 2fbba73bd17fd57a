package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"applicantreview/internal/apperr"
	"applicantreview/internal/config"
	"applicantreview/internal/logging"
)

// Dispatcher sends applicant decision emails.
type Dispatcher interface {
	SendApproval(ctx context.Context, to, name string) error
	SendDecline(ctx context.Context, to, name string) error
}

// Send dispatches the email for kind through d.
func Send(ctx context.Context, d Dispatcher, kind Kind, to, name string) error {
	if kind == KindDecline {
		return d.SendDecline(ctx, to, name)
	}
	return d.SendApproval(ctx, to, name)
}

// Transport delivers a rendered message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// MailDispatcher renders messages and hands them to a Transport.
type MailDispatcher struct {
	renderer  *Renderer
	transport Transport
	sent      *prometheus.CounterVec
	logger    *slog.Logger
}

var _ Dispatcher = (*MailDispatcher)(nil)

// NewMailDispatcher registers the notification counter on reg. A nil reg skips registration.
func NewMailDispatcher(renderer *Renderer, transport Transport, reg prometheus.Registerer, logger *slog.Logger) (*MailDispatcher, error) {
	if renderer == nil || transport == nil {
		return nil, errors.New("notify: renderer and transport are required")
	}
	sent, err := registerCounter(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applicant_notifications_total",
			Help: "Applicant decision emails by kind and result.",
		},
		[]string{"kind", "result"},
	))
	if err != nil {
		return nil, err
	}
	return &MailDispatcher{
		renderer:  renderer,
		transport: transport,
		sent:      sent,
		logger:    logging.Component(logger, "notify"),
	}, nil
}

func (d *MailDispatcher) SendApproval(ctx context.Context, to, name string) error {
	return d.send(ctx, KindApproval, to, name)
}

func (d *MailDispatcher) SendDecline(ctx context.Context, to, name string) error {
	return d.send(ctx, KindDecline, to, name)
}

func (d *MailDispatcher) send(ctx context.Context, kind Kind, to, name string) error {
	msg, err := d.renderer.Render(kind, to, name)
	if err != nil {
		d.sent.WithLabelValues(string(kind), "error").Inc()
		return apperr.Notification("Failed to render notification", err)
	}
	if err := d.transport.Send(ctx, msg); err != nil {
		d.sent.WithLabelValues(string(kind), "error").Inc()
		return apperr.Notification(fmt.Sprintf("Failed to send %s email", kind), err)
	}
	d.sent.WithLabelValues(string(kind), "success").Inc()
	d.logger.Info("notification sent",
		slog.String("event", "notification_sent"),
		slog.String("kind", string(kind)),
		slog.String("to", to),
	)
	return nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

type noopDispatcher struct {
	logger *slog.Logger
}

// Noop returns a Dispatcher that only logs. It is used when no SMTP host is configured.
func Noop(logger *slog.Logger) Dispatcher {
	return noopDispatcher{logger: logging.Component(logger, "notify")}
}

func (n noopDispatcher) SendApproval(ctx context.Context, to, name string) error {
	n.skip(KindApproval, to)
	return nil
}

func (n noopDispatcher) SendDecline(ctx context.Context, to, name string) error {
	n.skip(KindDecline, to)
	return nil
}

func (n noopDispatcher) skip(kind Kind, to string) {
	n.logger.Debug("notification skipped",
		slog.String("event", "notification_skipped"),
		slog.String("kind", string(kind)),
		slog.String("to", to),
	)
}

// IsNoop reports whether d discards every message.
func IsNoop(d Dispatcher) bool {
	_, ok := d.(noopDispatcher)
	return ok
}

// NewFromConfig builds the SMTP dispatcher, or a no-op one when cfg.Host is empty.
func NewFromConfig(cfg config.MailConfig, logger *slog.Logger, reg prometheus.Registerer) (Dispatcher, error) {
	if cfg.Host == "" {
		logging.Component(logger, "notify").Info("mail delivery disabled",
			slog.String("event", "mail_disabled"),
			slog.String("reason", "SMTP_HOST not set"),
		)
		return Noop(logger), nil
	}

	transport, err := NewSMTPTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("init smtp transport: %w", err)
	}
	renderer := NewRenderer(RenderOptions{
		SimpleMode:  cfg.SimpleMode,
		EmbedFooter: cfg.EmbedFooter,
		FooterImage: cfg.FooterImage,
		Signature:   cfg.FromName,
	})
	return NewMailDispatcher(renderer, transport, reg, logger)
}
