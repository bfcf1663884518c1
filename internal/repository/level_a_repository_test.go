package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

func TestLevelARepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLevelARepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO level_a_interventions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.LevelAIntervention{StudentID: "stu-1", StaffID: "staff-1", DomainID: "dom-1", InterventionType: "redirect"}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 1, record.Version)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestLevelARepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLevelARepository(db)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	rows := sqlmock.NewRows([]string{"id", "student_id", "staff_id", "domain_id", "intervention_type", "escalated_to_b", "version"}).
		AddRow("a-1", "stu-1", "staff-1", "dom-1", "redirect", false, 1)

	mock.ExpectQuery(regexp.QuoteMeta("FROM level_a_interventions WHERE student_id = $1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("stu-1", from, to).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM level_a_interventions WHERE student_id = $1")).
		WithArgs("stu-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.LevelAFilter{StudentID: "stu-1", DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "a-1", items[0].ID)
}

func TestLevelARepositoryEscalateToB(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "escalates",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, escalated_to_b FROM level_a_interventions")).
					WithArgs("a-1").
					WillReturnRows(sqlmock.NewRows([]string{"student_id", "escalated_to_b"}).AddRow("stu-1", false))
				mock.ExpectExec(regexp.QuoteMeta("UPDATE level_a_interventions")).
					WithArgs("a-1", models.LevelAOutcomeEscalated, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, escalated_to_b")).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrSourceNotFound,
		},
		{
			name: "other student",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, escalated_to_b")).
					WillReturnRows(sqlmock.NewRows([]string{"student_id", "escalated_to_b"}).AddRow("stu-2", false))
			},
			wantErr: ErrSourceMismatch,
		},
		{
			name: "already escalated",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, escalated_to_b")).
					WillReturnRows(sqlmock.NewRows([]string{"student_id", "escalated_to_b"}).AddRow("stu-1", true))
			},
			wantErr: ErrSourceAlreadyEscalated,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, cleanup := newRepoMock(t)
			defer cleanup()
			repo := NewLevelARepository(db)

			mock.ExpectBegin()
			tc.setup(mock)
			mock.ExpectRollback()

			tx, err := db.BeginTxx(context.Background(), nil)
			require.NoError(t, err)
			err = repo.EscalateToB(context.Background(), tx, "a-1", "stu-1")
			_ = tx.Rollback()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
