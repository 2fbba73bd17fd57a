package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"applicantreview/internal/apperr"
	"applicantreview/internal/model"
	"applicantreview/internal/repository"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

const applicantColumns = `id, first_name, last_name, age, degree, relevant_experience, email,
		project_applied_for, status, resume_file_name, resume_content_type, resume_path,
		created_at, updated_at`

// ApplicantPostgres is a PostgreSQL implementation of repository.ApplicantRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ApplicantPostgres struct {
	db *sql.DB
}

// NewApplicantPostgres creates a new ApplicantPostgres repository.
func NewApplicantPostgres(db *sql.DB) *ApplicantPostgres {
	return &ApplicantPostgres{db: db}
}

var _ repository.ApplicantRepository = (*ApplicantPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row rowScanner) (*model.Applicant, error) {
	var (
		a                         model.Applicant
		status                    string
		fileName, ctype, filePath sql.NullString
	)
	if err := row.Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.Age,
		&a.Degree,
		&a.RelevantExperience,
		&a.Email,
		&a.ProjectAppliedFor,
		&status,
		&fileName,
		&ctype,
		&filePath,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = model.Status(status)
	if fileName.Valid && ctype.Valid && filePath.Valid {
		a.Resume = &model.Resume{FileName: fileName.String, ContentType: ctype.String, Path: filePath.String}
	}
	return &a, nil
}

// resumeArgs returns the three nullable resume columns; all NULL when no resume is attached.
func resumeArgs(a *model.Applicant) (any, any, any) {
	if !a.HasResume() {
		return nil, nil, nil
	}
	return a.Resume.FileName, a.Resume.ContentType, a.Resume.Path
}

func translateWriteErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict("Email already exists", err)
	}
	return fmt.Errorf("%s applicant: %w", op, err)
}

// Create inserts a new applicant row and returns the stored record.
func (r *ApplicantPostgres) Create(ctx context.Context, a *model.Applicant) (*model.Applicant, error) {
	q := `
		INSERT INTO applicants (first_name, last_name, age, degree, relevant_experience, email,
			project_applied_for, status, resume_file_name, resume_content_type, resume_path,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + applicantColumns
	fileName, ctype, filePath := resumeArgs(a)
	row := r.db.QueryRowContext(ctx, q,
		a.FirstName,
		a.LastName,
		a.Age,
		a.Degree,
		a.RelevantExperience,
		a.Email,
		a.ProjectAppliedFor,
		string(a.Status),
		fileName,
		ctype,
		filePath,
		a.CreatedAt,
		a.UpdatedAt,
	)
	out, err := scanApplicant(row)
	if err != nil {
		return nil, translateWriteErr(err, "create")
	}
	return out, nil
}

// FindByID fetches a single applicant by its ID.
func (r *ApplicantPostgres) FindByID(ctx context.Context, id int64) (*model.Applicant, error) {
	q := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`
	a, err := scanApplicant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Applicant not found")
		}
		return nil, fmt.Errorf("find applicant: %w", err)
	}
	return a, nil
}

// List returns all applicants ordered by creation time.
func (r *ApplicantPostgres) List(ctx context.Context) ([]model.Applicant, error) {
	q := `SELECT ` + applicantColumns + ` FROM applicants ORDER BY created_at ASC, id ASC`
	return r.query(ctx, q)
}

// ListByProject returns the applicants of one project.
func (r *ApplicantPostgres) ListByProject(ctx context.Context, project string) ([]model.Applicant, error) {
	q := `SELECT ` + applicantColumns + ` FROM applicants WHERE project_applied_for = $1 ORDER BY created_at ASC, id ASC`
	return r.query(ctx, q, project)
}

// SearchByName matches fragment as a literal, case-sensitive substring of first or last name.
func (r *ApplicantPostgres) SearchByName(ctx context.Context, fragment string) ([]model.Applicant, error) {
	q := `SELECT ` + applicantColumns + ` FROM applicants
		WHERE strpos(first_name, $1) > 0 OR strpos(last_name, $1) > 0
		ORDER BY created_at ASC, id ASC`
	return r.query(ctx, q, fragment)
}

func (r *ApplicantPostgres) query(ctx context.Context, q string, args ...any) ([]model.Applicant, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	items := make([]model.Applicant, 0)
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return items, nil
}

// ExistsByEmail reports whether an applicant with email exists.
func (r *ApplicantPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM applicants WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// Update writes all mutable columns. created_at is never touched.
func (r *ApplicantPostgres) Update(ctx context.Context, a *model.Applicant) (*model.Applicant, error) {
	q := `
		UPDATE applicants SET
			first_name = $2, last_name = $3, age = $4, degree = $5, relevant_experience = $6,
			email = $7, project_applied_for = $8, status = $9,
			resume_file_name = $10, resume_content_type = $11, resume_path = $12,
			updated_at = $13
		WHERE id = $1
		RETURNING ` + applicantColumns
	fileName, ctype, filePath := resumeArgs(a)
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.FirstName,
		a.LastName,
		a.Age,
		a.Degree,
		a.RelevantExperience,
		a.Email,
		a.ProjectAppliedFor,
		string(a.Status),
		fileName,
		ctype,
		filePath,
		a.UpdatedAt,
	)
	out, err := scanApplicant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Applicant not found")
		}
		return nil, translateWriteErr(err, "update")
	}
	return out, nil
}

// Delete removes an applicant by ID.
func (r *ApplicantPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM applicants WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Applicant not found")
	}
	return nil
}
