package mocks

import (
	"context"
	"io"

	"applicantreview/internal/model"
	"applicantreview/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockApplicantService struct {
	mock.Mock
}

var _ service.ApplicantService = (*MockApplicantService)(nil)

func (m *MockApplicantService) Submit(ctx context.Context, p model.Profile) (*model.Applicant, error) {
	args := m.Called(ctx, p)
	return applicantOrNil(args)
}

func (m *MockApplicantService) AttachResume(ctx context.Context, id int64, filename, contentType string, r io.Reader) (*model.Applicant, error) {
	args := m.Called(ctx, id, filename, contentType, r)
	return applicantOrNil(args)
}

func (m *MockApplicantService) UpdateProfile(ctx context.Context, id int64, in service.ProfileUpdate) (*model.Applicant, error) {
	args := m.Called(ctx, id, in)
	return applicantOrNil(args)
}

func (m *MockApplicantService) SetStatus(ctx context.Context, id int64, status string) (*model.Applicant, error) {
	args := m.Called(ctx, id, status)
	return applicantOrNil(args)
}

func (m *MockApplicantService) Approve(ctx context.Context, id int64) (*model.Applicant, error) {
	args := m.Called(ctx, id)
	return applicantOrNil(args)
}

func (m *MockApplicantService) Decline(ctx context.Context, id int64) (*model.Applicant, error) {
	args := m.Called(ctx, id)
	return applicantOrNil(args)
}

func (m *MockApplicantService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApplicantService) Get(ctx context.Context, id int64) (*model.Applicant, error) {
	args := m.Called(ctx, id)
	return applicantOrNil(args)
}

func (m *MockApplicantService) List(ctx context.Context) ([]model.Applicant, error) {
	args := m.Called(ctx)
	return applicantsOrNil(args)
}

func (m *MockApplicantService) ListByProject(ctx context.Context, project string) ([]model.Applicant, error) {
	args := m.Called(ctx, project)
	return applicantsOrNil(args)
}

func (m *MockApplicantService) Search(ctx context.Context, name string) ([]model.Applicant, error) {
	args := m.Called(ctx, name)
	return applicantsOrNil(args)
}

func (m *MockApplicantService) LoadResume(ctx context.Context, id int64) (*service.ResumeDownload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResumeDownload), args.Error(1)
}

func applicantOrNil(args mock.Arguments) (*model.Applicant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Applicant), args.Error(1)
}

func applicantsOrNil(args mock.Arguments) ([]model.Applicant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Applicant), args.Error(1)
}
