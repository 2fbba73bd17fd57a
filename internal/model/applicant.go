package model

import (
	"strings"
	"time"
)

// Profile holds the applicant-supplied fields shared by submission and full updates.
type Profile struct {
	FirstName          string `json:"firstName" validate:"required,notblank"`
	LastName           string `json:"lastName" validate:"required,notblank"`
	Age                int    `json:"age" validate:"required,min=18"`
	Degree             string `json:"degree" validate:"required,notblank"`
	RelevantExperience string `json:"relevantExperience" validate:"required,notblank"`
	Email              string `json:"email" validate:"required,notblank,email"`
	ProjectAppliedFor  string `json:"projectAppliedFor" validate:"required,notblank"`
}

// Resume references a stored resume file. An applicant either has all three
// fields or no Resume at all.
type Resume struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Path        string `json:"-"`
}

// Applicant is one job application and its review state.
// This is a pure domain model with no database-specific dependencies or tags.
type Applicant struct {
	ID int64 `json:"id"`
	Profile
	Status    Status    `json:"status"`
	Resume    *Resume   `json:"resume,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins the trimmed first and last names with a space, omitting empty parts.
func (a *Applicant) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{a.FirstName, a.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// HasResume reports whether a resume file is attached.
func (a *Applicant) HasResume() bool {
	return a.Resume != nil && a.Resume.Path != ""
}
