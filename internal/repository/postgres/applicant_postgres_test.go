package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"applicantreview/internal/apperr"
	"applicantreview/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "first_name", "last_name", "age", "degree", "relevant_experience", "email",
	"project_applied_for", "status", "resume_file_name", "resume_content_type", "resume_path",
	"created_at", "updated_at",
}

func newRepo(t *testing.T) (*ApplicantPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewApplicantPostgres(db), mock
}

func sampleApplicant(now time.Time) *model.Applicant {
	return &model.Applicant{
		Profile: model.Profile{
			FirstName:          "Ana",
			LastName:           "Cruz",
			Age:                22,
			Degree:             "BSCS",
			RelevantExperience: "2 yrs",
			Email:              "ana@x.com",
			ProjectAppliedFor:  "Computer Vision",
		},
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestApplicantPostgres_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		repo, mock := newRepo(t)
		a := sampleApplicant(now)

		rows := sqlmock.NewRows(columns).
			AddRow(int64(1), a.FirstName, a.LastName, int64(a.Age), a.Degree, a.RelevantExperience, a.Email,
				a.ProjectAppliedFor, "pending", nil, nil, nil, now, now)

		mock.ExpectQuery("INSERT INTO applicants").
			WithArgs(a.FirstName, a.LastName, a.Age, a.Degree, a.RelevantExperience, a.Email,
				a.ProjectAppliedFor, "pending", nil, nil, nil, now, now).
			WillReturnRows(rows)

		got, err := repo.Create(ctx, a)

		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Nil(t, got.Resume)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery("INSERT INTO applicants").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_applicants_email"})

		got, err := repo.Create(ctx, sampleApplicant(now))

		assert.Nil(t, got)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other error is wrapped", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery("INSERT INTO applicants").WillReturnError(errors.New("conn lost"))

		_, err := repo.Create(ctx, sampleApplicant(now))

		assert.ErrorContains(t, err, "create applicant: conn lost")
		assert.Equal(t, apperr.Kind(""), apperr.KindOf(err))
	})
}

func TestApplicantPostgres_FindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found with resume", func(t *testing.T) {
		repo, mock := newRepo(t)
		rows := sqlmock.NewRows(columns).
			AddRow(int64(7), "Ana", "Cruz", int64(22), "BSCS", "2 yrs", "ana@x.com", "Computer Vision",
				"approved", "cv.pdf", "application/pdf", "uploads/resumes/7_cv.pdf", now, now)

		mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id = \\$1").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		a, err := repo.FindByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), a.ID)
		assert.Equal(t, model.StatusApproved, a.Status)
		require.NotNil(t, a.Resume)
		assert.Equal(t, "cv.pdf", a.Resume.FileName)
		assert.Equal(t, "uploads/resumes/7_cv.pdf", a.Resume.Path)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		a, err := repo.FindByID(ctx, 99)

		assert.Nil(t, a)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestApplicantPostgres_Lists(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	row := func(rows *sqlmock.Rows, id int64, first, last, project string) *sqlmock.Rows {
		return rows.AddRow(id, first, last, int64(25), "BS", "exp", first+"@x.com", project,
			"pending", nil, nil, nil, now, now)
	}

	t.Run("list all", func(t *testing.T) {
		repo, mock := newRepo(t)
		rows := sqlmock.NewRows(columns)
		row(rows, 1, "Ana", "Cruz", "Genealogy")
		row(rows, 2, "Ben", "Diaz", "Computer Vision")
		mock.ExpectQuery("SELECT (.+) FROM applicants ORDER BY").WillReturnRows(rows)

		items, err := repo.List(ctx)

		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "Ben", items[1].FirstName)
	})

	t.Run("by project", func(t *testing.T) {
		repo, mock := newRepo(t)
		rows := sqlmock.NewRows(columns)
		row(rows, 2, "Ben", "Diaz", "Computer Vision")
		mock.ExpectQuery("SELECT (.+) FROM applicants WHERE project_applied_for = \\$1").
			WithArgs("Computer Vision").
			WillReturnRows(rows)

		items, err := repo.ListByProject(ctx, "Computer Vision")

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("search with no match returns empty slice", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM applicants\\s+WHERE strpos\\(first_name, \\$1\\) > 0 OR strpos\\(last_name, \\$1\\) > 0").
			WithArgs("zz").
			WillReturnRows(sqlmock.NewRows(columns))

		items, err := repo.SearchByName(ctx, "zz")

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM applicants ORDER BY").WillReturnError(errors.New("timeout"))

		_, err := repo.List(ctx)

		assert.ErrorContains(t, err, "list applicants: timeout")
	})
}

func TestApplicantPostgres_ExistsByEmail(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByEmail(context.Background(), "ana@x.com")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicantPostgres_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("writes resume columns together", func(t *testing.T) {
		repo, mock := newRepo(t)
		a := sampleApplicant(now)
		a.ID = 3
		a.Resume = &model.Resume{FileName: "cv.pdf", ContentType: "application/pdf", Path: "3_cv.pdf"}

		rows := sqlmock.NewRows(columns).
			AddRow(int64(3), a.FirstName, a.LastName, int64(a.Age), a.Degree, a.RelevantExperience, a.Email,
				a.ProjectAppliedFor, "pending", "cv.pdf", "application/pdf", "3_cv.pdf", now, now)

		mock.ExpectQuery("UPDATE applicants SET").
			WithArgs(int64(3), a.FirstName, a.LastName, a.Age, a.Degree, a.RelevantExperience, a.Email,
				a.ProjectAppliedFor, "pending", "cv.pdf", "application/pdf", "3_cv.pdf", now).
			WillReturnRows(rows)

		got, err := repo.Update(ctx, a)

		require.NoError(t, err)
		require.NotNil(t, got.Resume)
		assert.Equal(t, "3_cv.pdf", got.Resume.Path)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("UPDATE applicants SET").WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(ctx, sampleApplicant(now))

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("email taken", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("UPDATE applicants SET").WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Update(ctx, sampleApplicant(now))

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})
}

func TestApplicantPostgres_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec("DELETE FROM applicants WHERE id = \\$1").
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec("DELETE FROM applicants WHERE id = \\$1").
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, 5)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
