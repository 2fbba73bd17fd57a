package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"applicantreview/internal/apperr"
	"applicantreview/internal/catalog"
	"applicantreview/internal/logging"
	"applicantreview/internal/model"
	"applicantreview/internal/notify"
	"applicantreview/internal/repository"
	"applicantreview/internal/resume"
)

var tracer = otel.Tracer("applicantreview/internal/service")

// ProfileUpdate is a full-record update. A blank Status keeps the current status.
type ProfileUpdate struct {
	model.Profile
	Status string `json:"status"`
}

// ResumeDownload is an open resume together with its display name. Callers must close File.Body.
type ResumeDownload struct {
	FileName string
	File     *resume.File
}

// ResumeStore is the subset of resume.Store the workflow needs.
type ResumeStore interface {
	Save(ctx context.Context, id int64, originalFilename, contentType string, r io.Reader) (resume.StoredFile, error)
	Load(ctx context.Context, path, recordedType string) (*resume.File, error)
	Remove(ctx context.Context, path string) error
}

// ApplicantService defines the applicant review use cases.
type ApplicantService interface {
	// Submit validates and stores a new applicant with status pending and no resume.
	Submit(ctx context.Context, p model.Profile) (*model.Applicant, error)

	// AttachResume stores the file and records it on the applicant.
	AttachResume(ctx context.Context, id int64, filename, contentType string, r io.Reader) (*model.Applicant, error)

	// UpdateProfile replaces the profile fields and, if supplied, the status.
	UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (*model.Applicant, error)

	// SetStatus parses status case-insensitively; "declined" means rejected.
	SetStatus(ctx context.Context, id int64, status string) (*model.Applicant, error)

	// Approve sets the status to approved. The approval email is sent only when the
	// status actually changes, so approving an approved applicant sends nothing.
	Approve(ctx context.Context, id int64) (*model.Applicant, error)

	// Decline sets the status to rejected. Like Approve, it notifies only on a change.
	Decline(ctx context.Context, id int64) (*model.Applicant, error)

	// Delete removes the record. The resume file is kept unless cleanup is enabled.
	Delete(ctx context.Context, id int64) error

	Get(ctx context.Context, id int64) (*model.Applicant, error)
	List(ctx context.Context) ([]model.Applicant, error)
	ListByProject(ctx context.Context, project string) ([]model.Applicant, error)
	Search(ctx context.Context, name string) ([]model.Applicant, error)

	// LoadResume opens the resume recorded on the applicant.
	LoadResume(ctx context.Context, id int64) (*ResumeDownload, error)
}

// Options tune the service. Zero values are usable.
type Options struct {
	Policy                model.TransitionPolicy
	CleanupResumeOnDelete bool
	Logger                *slog.Logger
	Now                   func() time.Time
}

type applicantService struct {
	repo     repository.ApplicantRepository
	resumes  ResumeStore
	notifier notify.Dispatcher
	policy   model.TransitionPolicy
	cleanup  bool
	logger   *slog.Logger
	now      func() time.Time
}

// NewApplicantService constructs a new ApplicantService.
func NewApplicantService(repo repository.ApplicantRepository, resumes ResumeStore, notifier notify.Dispatcher, opts Options) ApplicantService {
	if opts.Policy == nil {
		opts.Policy = model.PermissivePolicy{}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	logger := logging.Component(opts.Logger, "workflow")
	if notifier == nil {
		notifier = notify.Noop(logger)
	}
	return &applicantService{
		repo:     repo,
		resumes:  resumes,
		notifier: notifier,
		policy:   opts.Policy,
		cleanup:  opts.CleanupResumeOnDelete,
		logger:   logger,
		now:      opts.Now,
	}
}

func (s *applicantService) Submit(ctx context.Context, p model.Profile) (_ *model.Applicant, err error) {
	ctx, span := tracer.Start(ctx, "ApplicantService.Submit")
	defer func() { endSpan(span, err) }()

	normalizeProfile(&p)
	if err := s.checkProfile(ctx, p, ""); err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &model.Applicant{
		Profile:   p,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("applicant.id", created.ID))
	s.logger.Info("applicant submitted",
		slog.String("event", "applicant_submitted"),
		slog.Int64("applicant_id", created.ID),
		slog.String("project", created.ProjectAppliedFor),
	)
	return created, nil
}

func (s *applicantService) AttachResume(ctx context.Context, id int64, filename, contentType string, r io.Reader) (_ *model.Applicant, err error) {
	ctx, span := startSpan(ctx, "ApplicantService.AttachResume", id)
	defer func() { endSpan(span, err) }()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := s.resumes.Save(ctx, id, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	a.Resume = &model.Resume{
		FileName:    stored.FileName,
		ContentType: stored.ContentType,
		Path:        stored.Path,
	}
	return s.save(ctx, a, a.Status)
}

func (s *applicantService) UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (_ *model.Applicant, err error) {
	ctx, span := startSpan(ctx, "ApplicantService.UpdateProfile", id)
	defer func() { endSpan(span, err) }()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := in.Profile
	normalizeProfile(&p)
	if err := s.checkProfile(ctx, p, a.Email); err != nil {
		return nil, err
	}

	prev := a.Status
	next := prev
	if strings.TrimSpace(in.Status) != "" {
		if next, err = s.nextStatus(prev, in.Status); err != nil {
			return nil, err
		}
	}

	a.Profile = p
	a.Status = next
	return s.save(ctx, a, prev)
}

func (s *applicantService) SetStatus(ctx context.Context, id int64, status string) (_ *model.Applicant, err error) {
	ctx, span := startSpan(ctx, "ApplicantService.SetStatus", id)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(status) == "" {
		return nil, apperr.Validation("Status is required")
	}
	return s.transition(ctx, id, status)
}

func (s *applicantService) Approve(ctx context.Context, id int64) (_ *model.Applicant, err error) {
	ctx, span := startSpan(ctx, "ApplicantService.Approve", id)
	defer func() { endSpan(span, err) }()

	return s.transition(ctx, id, string(model.StatusApproved))
}

func (s *applicantService) Decline(ctx context.Context, id int64) (_ *model.Applicant, err error) {
	ctx, span := startSpan(ctx, "ApplicantService.Decline", id)
	defer func() { endSpan(span, err) }()

	return s.transition(ctx, id, string(model.StatusRejected))
}

func (s *applicantService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "ApplicantService.Delete", id)
	defer func() { endSpan(span, err) }()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cleanup && a.HasResume() {
		if err := s.resumes.Remove(ctx, a.Resume.Path); err != nil {
			s.logger.Warn("resume cleanup failed",
				slog.String("event", "resume_cleanup_failed"),
				slog.Int64("applicant_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	s.logger.Info("applicant deleted",
		slog.String("event", "applicant_deleted"),
		slog.Int64("applicant_id", id),
	)
	return nil
}

func (s *applicantService) Get(ctx context.Context, id int64) (*model.Applicant, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *applicantService) List(ctx context.Context) ([]model.Applicant, error) {
	return s.repo.List(ctx)
}

func (s *applicantService) ListByProject(ctx context.Context, project string) ([]model.Applicant, error) {
	return s.repo.ListByProject(ctx, project)
}

func (s *applicantService) Search(ctx context.Context, name string) ([]model.Applicant, error) {
	return s.repo.SearchByName(ctx, name)
}

func (s *applicantService) LoadResume(ctx context.Context, id int64) (_ *ResumeDownload, err error) {
	ctx, span := startSpan(ctx, "ApplicantService.LoadResume", id)
	defer func() { endSpan(span, err) }()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.HasResume() {
		return nil, apperr.NotFound("Resume not found")
	}
	f, err := s.resumes.Load(ctx, a.Resume.Path, a.Resume.ContentType)
	if err != nil {
		return nil, err
	}
	return &ResumeDownload{FileName: a.Resume.FileName, File: f}, nil
}

// checkProfile runs the field rules, then project membership, then email uniqueness.
// Uniqueness is skipped when the email equals currentEmail.
func (s *applicantService) checkProfile(ctx context.Context, p model.Profile, currentEmail string) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	if !catalog.IsValid(p.ProjectAppliedFor) {
		return apperr.Validation("Invalid project selection")
	}
	if currentEmail != "" && p.Email == currentEmail {
		return nil
	}
	exists, err := s.repo.ExistsByEmail(ctx, p.Email)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Validation("Email already exists")
	}
	return nil
}

func (s *applicantService) nextStatus(from model.Status, raw string) (model.Status, error) {
	to, err := model.ParseStatus(raw)
	if err != nil {
		return "", apperr.Validation(fmt.Sprintf("Invalid status: %s", strings.TrimSpace(raw)))
	}
	if !s.policy.Allowed(from, to) {
		return "", apperr.Validation(fmt.Sprintf("Cannot change status from %s to %s", from, to))
	}
	return to, nil
}

func (s *applicantService) transition(ctx context.Context, id int64, raw string) (*model.Applicant, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := a.Status
	if a.Status, err = s.nextStatus(prev, raw); err != nil {
		return nil, err
	}
	return s.save(ctx, a, prev)
}

// save is the single write path for existing applicants. It refreshes updatedAt and,
// once the write succeeded, announces a move into approved or rejected.
func (s *applicantService) save(ctx context.Context, a *model.Applicant, prev model.Status) (*model.Applicant, error) {
	a.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if updated.Status != prev && updated.Status.Terminal() {
		s.announce(ctx, updated)
	}
	return updated, nil
}

// announce sends the decision email. Failures are logged and dropped.
func (s *applicantService) announce(ctx context.Context, a *model.Applicant) {
	var err error
	switch a.Status {
	case model.StatusApproved:
		err = s.notifier.SendApproval(ctx, a.Email, a.FullName())
	case model.StatusRejected:
		err = s.notifier.SendDecline(ctx, a.Email, a.FullName())
	default:
		return
	}
	if err != nil {
		trace.SpanFromContext(ctx).AddEvent("notification_failed")
		s.logger.Warn("notification failed",
			slog.String("event", "notification_failed"),
			slog.Int64("applicant_id", a.ID),
			slog.String("status", a.Status.String()),
			slog.String("error", err.Error()),
		)
	}
}

func startSpan(ctx context.Context, name string, id int64) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("applicant.id", id)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Message(err))
	}
	span.End()
}
