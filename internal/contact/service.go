package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"dobosdev.hu/web/internal/captcha"
	"dobosdev.hu/web/internal/logging"
	"dobosdev.hu/web/internal/metrics"
	"dobosdev.hu/web/internal/relay"
)

// Status is the user-visible outcome of a submission.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// DefaultSubject prefixes the service category in the relay subject line.
const DefaultSubject = "Új ajánlatkérés"

// Result is what the form re-renders with.
type Result struct {
	Status Status
	// Form holds the values to show. It is empty after a success.
	Form Form
	// MessageKey is the i18n key of the banner or notice, if any.
	MessageKey string
	Fields     FieldErrors
}

// Options tune a Service.
type Options struct {
	Subject  string
	FromName string
	Verifier captcha.Verifier
	Limiter  *Limiter
	Metrics  *metrics.Metrics
}

// Service validates submissions and calls the relay exactly once per valid one.
type Service struct {
	relay    relay.Submitter
	verifier captcha.Verifier
	limiter  *Limiter
	metrics  *metrics.Metrics
	subject  string
	fromName string
}

func NewService(r relay.Submitter, opts Options) *Service {
	subject := strings.TrimSpace(opts.Subject)
	if subject == "" {
		subject = DefaultSubject
	}
	return &Service{
		relay:    r,
		verifier: opts.Verifier,
		limiter:  opts.Limiter,
		metrics:  opts.Metrics,
		subject:  subject,
		fromName: strings.TrimSpace(opts.FromName),
	}
}

// Subject builds the relay subject line for a service category.
func (s *Service) Subject(service string) string {
	return fmt.Sprintf("%s: %s", s.subject, service)
}

// Submit processes f for the client at remoteIP. The Result is always usable;
// the error explains non-success outcomes for logging.
func (s *Service) Submit(ctx context.Context, remoteIP string, f Form) (Result, error) {
	logger := logging.FromContext(ctx)
	retained := f
	retained.Token = ""

	if err := f.Validate(); err != nil {
		var fe FieldErrors
		switch {
		case errors.Is(err, ErrConsentRequired):
			s.metrics.Submission("consent_required")
			return Result{Status: StatusIdle, Form: retained, MessageKey: "contact.form.privacyConsentError"}, err
		case errors.Is(err, ErrTokenRequired):
			s.metrics.Submission("token_required")
			return Result{Status: StatusError, Form: retained, MessageKey: "contact.form.captchaError"}, err
		case errors.As(err, &fe):
			s.metrics.Submission("invalid")
			return Result{Status: StatusIdle, Form: retained, Fields: fe}, err
		default:
			return Result{Status: StatusError, Form: retained, MessageKey: "contact.form.error"}, err
		}
	}

	if !s.limiter.Allow(remoteIP) {
		s.metrics.Submission("rate_limited")
		return Result{Status: StatusError, Form: retained, MessageKey: "contact.form.rateLimited"}, ErrRateLimited
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, f.Token, remoteIP); err != nil {
			s.metrics.Submission("captcha_failed")
			logger.Warn("captcha verification failed", zap.Error(err))
			return Result{Status: StatusError, Form: retained, MessageKey: "contact.form.captchaError"}, err
		}
	}

	start := time.Now()
	resp, err := s.relay.Submit(ctx, relay.Payload{
		Name:     f.Name,
		Email:    f.Email,
		Service:  f.Service,
		Message:  f.Message,
		Subject:  s.Subject(f.Service),
		FromName: s.fromName,
		Token:    f.Token,
	})
	s.metrics.RelayLatency(time.Since(start))
	if err != nil {
		s.metrics.Submission("relay_error")
		logger.Error("contact relay failed", zap.Error(err))
		return Result{Status: StatusError, Form: retained, MessageKey: "contact.form.error"}, err
	}

	s.metrics.Submission("success")
	logger.Info("contact request relayed", zap.Bool("fake", resp.Fake))
	return Result{Status: StatusSuccess, MessageKey: "contact.form.success"}, nil
}
