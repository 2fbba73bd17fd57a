// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"

	"applicantreview/internal/model"
)

// ApplicantRepository is the keyed store of applicant records.
// No business logic here, strictly persistence operations. The only rule it
// enforces itself is email uniqueness, reported as an apperr conflict.
type ApplicantRepository interface {
	// Create inserts a new applicant and returns the stored record with its assigned ID.
	Create(ctx context.Context, a *model.Applicant) (*model.Applicant, error)

	// FindByID returns an applicant by ID, or an apperr not-found error.
	FindByID(ctx context.Context, id int64) (*model.Applicant, error)

	// List returns every applicant, oldest first.
	List(ctx context.Context) ([]model.Applicant, error)

	// ListByProject returns applicants whose project matches exactly.
	ListByProject(ctx context.Context, project string) ([]model.Applicant, error)

	// SearchByName returns applicants whose first or last name contains fragment (case-sensitive).
	SearchByName(ctx context.Context, fragment string) ([]model.Applicant, error)

	// ExistsByEmail reports whether any applicant uses email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update overwrites every mutable column of an existing applicant.
	Update(ctx context.Context, a *model.Applicant) (*model.Applicant, error)

	// Delete removes an applicant by ID. A missing row is a not-found error.
	Delete(ctx context.Context, id int64) error
}
