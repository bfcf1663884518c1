package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

func newProtocol() *models.ReentryProtocol {
	return &models.ReentryProtocol{
		StudentID:          "stu-1",
		SourceType:         models.ReentrySourceOSS,
		SourceID:           strPtr("c-1"),
		Status:             models.ReentryStatusPending,
		ReadinessChecklist: models.NewChecklist([]string{"Reset goal reviewed"}),
	}
}

func TestReentryRepositoryCreateLinksSource(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reentry_protocols")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE level_c_cases SET reentry_protocol_id = $2")+".*reentry_protocol_id IS NULL AND status <> 'closed'").
		WithArgs("c-1", sqlmock.AnyArg(), sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := newProtocol()
	require.NoError(t, repo.Create(context.Background(), p, SourceLevelC))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, p.Version)
}

func TestReentryRepositoryCreateAlreadyLinked(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reentry_protocols")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE level_b_interventions SET reentry_protocol_id")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT reentry_protocol_id, status FROM level_b_interventions")).
		WithArgs("c-1", "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"reentry_protocol_id", "status"}).AddRow("p-0", "completed_escalated"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newProtocol(), SourceLevelB)
	assert.ErrorIs(t, err, ErrAlreadyLinked)
}

func TestReentryRepositoryCreateUnknownSource(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reentry_protocols")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE level_c_cases")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT reentry_protocol_id, status FROM level_c_cases")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newProtocol(), SourceLevelC)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestReentryRepositoryCreateRejectsClosedCase(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reentry_protocols")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE level_c_cases")+".*status <> 'closed'").
		WithArgs("c-1", sqlmock.AnyArg(), sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT reentry_protocol_id, status FROM level_c_cases")).
		WithArgs("c-1", "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"reentry_protocol_id", "status"}).AddRow(nil, "closed"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newProtocol(), SourceLevelC)
	assert.ErrorIs(t, err, ErrSourceNotEscalatable)
	assert.NotErrorIs(t, err, ErrAlreadyLinked)
}

func TestReentryRepositoryCreateRejectsUnfinishedConference(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	p := newProtocol()
	p.SourceType = models.ReentrySourceLevelB
	p.SourceID = strPtr("b-1")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reentry_protocols")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE level_b_interventions")+".*status IN \\('completed_success', 'completed_escalated'\\)").
		WithArgs("b-1", sqlmock.AnyArg(), sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT reentry_protocol_id, status FROM level_b_interventions")).
		WithArgs("b-1", "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"reentry_protocol_id", "status"}).AddRow(nil, "monitoring"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), p, SourceLevelB)
	assert.ErrorIs(t, err, ErrSourceNotEscalatable)
}

func TestReentryRepositoryCreateLookupFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reentry_protocols")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE level_c_cases")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT reentry_protocol_id, status FROM level_c_cases")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newProtocol(), SourceLevelC)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrSourceNotFound)
}

func TestReentryRepositoryListPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reentry_protocols WHERE student_id = $1 AND status IN ('pending', 'ready') ORDER BY created_at DESC")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("p-1", "ready"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reentry_protocols WHERE student_id = $1 AND status IN")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.ReentryFilter{StudentID: "stu-1", Pending: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ReentryStatusReady, items[0].Status)
	assert.Equal(t, 1, total)
}

func TestReentryRepositoryMutate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReentryRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reentry_protocols WHERE id = $1 FOR UPDATE")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "version"}).AddRow("p-1", "ready", 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reentry_protocols SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.Mutate(context.Background(), "p-1", func(p *models.ReentryProtocol) error {
		p.Status = models.ReentryStatusActive
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReentryStatusActive, updated.Status)
	assert.Equal(t, 3, updated.Version)
}
