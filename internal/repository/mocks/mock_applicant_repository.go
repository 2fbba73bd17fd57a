package mocks

import (
	"context"

	"applicantreview/internal/model"
	"applicantreview/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockApplicantRepository struct {
	mock.Mock
}

var _ repository.ApplicantRepository = (*MockApplicantRepository)(nil)

func (m *MockApplicantRepository) Create(ctx context.Context, a *model.Applicant) (*model.Applicant, error) {
	args := m.Called(ctx, a)
	if f, ok := args.Get(0).(func(*model.Applicant) *model.Applicant); ok {
		return f(a), args.Error(1)
	}
	return applicantOrNil(args)
}

func (m *MockApplicantRepository) FindByID(ctx context.Context, id int64) (*model.Applicant, error) {
	args := m.Called(ctx, id)
	return applicantOrNil(args)
}

func (m *MockApplicantRepository) List(ctx context.Context) ([]model.Applicant, error) {
	args := m.Called(ctx)
	return applicantsOrNil(args)
}

func (m *MockApplicantRepository) ListByProject(ctx context.Context, project string) ([]model.Applicant, error) {
	args := m.Called(ctx, project)
	return applicantsOrNil(args)
}

func (m *MockApplicantRepository) SearchByName(ctx context.Context, fragment string) ([]model.Applicant, error) {
	args := m.Called(ctx, fragment)
	return applicantsOrNil(args)
}

func (m *MockApplicantRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicantRepository) Update(ctx context.Context, a *model.Applicant) (*model.Applicant, error) {
	args := m.Called(ctx, a)
	if f, ok := args.Get(0).(func(*model.Applicant) *model.Applicant); ok {
		return f(a), args.Error(1)
	}
	return applicantOrNil(args)
}

func (m *MockApplicantRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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
