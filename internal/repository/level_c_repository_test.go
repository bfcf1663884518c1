package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

func TestLevelCRepositoryCreateLinksLevelB(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLevelCRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO level_c_cases")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, status, escalated_case_id FROM level_b_interventions")).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status", "escalated_case_id"}).
			AddRow("stu-1", "completed_escalated", nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE level_b_interventions SET escalated_case_id = $2")).
		WithArgs("b-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := &models.LevelCCase{
		StudentID:             "stu-1",
		TriggerType:           models.TriggerLevelBEscalation,
		EscalatedFromLevelBID: strPtr("b-1"),
		Status:                models.LevelCStatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.NotEmpty(t, c.ID)
}

func TestLevelCRepositoryCreateRejectsLinkedLevelB(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLevelCRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO level_c_cases")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, status, escalated_case_id FROM level_b_interventions")).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status", "escalated_case_id"}).
			AddRow("stu-1", "completed_escalated", "c-0"))
	mock.ExpectRollback()

	c := &models.LevelCCase{StudentID: "stu-1", EscalatedFromLevelBID: strPtr("b-1")}
	assert.ErrorIs(t, repo.Create(context.Background(), c), ErrSourceNotEscalatable)
}

func TestLevelCRepositoryListPendingReentries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLevelCRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM level_c_cases WHERE case_manager_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 10 OFFSET 0")).
		WithArgs("staff-1", models.LevelCStatusPendingReentry).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("c-1", "pending_reentry"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM level_c_cases")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.LevelCFilter{CaseManagerID: "staff-1", PendingReentries: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.LevelCStatusPendingReentry, items[0].Status)
	assert.Equal(t, 1, total)
}
