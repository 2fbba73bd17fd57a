package migration

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"applicantreview/internal/logging"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinelQuery = "SELECT to_regclass('public.applicants') IS NOT NULL"

func TestEnsureMigrated_RunsAllSteps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := logging.New(&buf, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	for _, step := range steps {
		mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	err = EnsureMigrated(context.Background(), db, logger, "localhost")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "db_migration_success")
	assert.Contains(t, buf.String(), "create_unique_index_applicants_email")
}

func TestEnsureMigrated_SkipsExistingSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = EnsureMigrated(context.Background(), db, logging.Discard(), "localhost")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_StepFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnError(errors.New("permission denied"))

	err = EnsureMigrated(context.Background(), db, logging.Discard(), "localhost")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migration step create_table_applicants failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_SentinelFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).WillReturnError(errors.New("conn reset"))

	err = EnsureMigrated(context.Background(), db, logging.Discard(), "localhost")

	assert.ErrorContains(t, err, "failed to check sentinel table")
}
