package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/repository"
	"github.com/NariCare/NariCare-App-sub000/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var storedCheckinColumns = []string{
	"checkin_id", "user_id", "record_date", "record_time",
	"selected_struggles", "selected_positive_moments", "selected_concerning_thoughts",
	"grateful_for", "proud_of_today", "tomorrow_goal", "additional_notes",
	"crisis_alert_triggered", "entered_via_voice", "created_at", "updated_at",
}

func newPostgresBackedService(t *testing.T, notifier *fakeNotifier) (sqlmock.Sqlmock, EmotionService) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gw := store.NewGateway(db, zap.NewNop())
	checkins := repository.NewPostgresEmotionCheckinsRepository(gw)
	interventions := repository.NewPostgresCrisisInterventionsRepository(gw)
	users := repository.NewPostgresUsersRepository(gw)

	crisis := NewCrisisService(interventions, users, gw, notifier, nil, zap.NewNop())
	return mock, NewEmotionService(checkins, interventions, crisis, gw, zap.NewNop())
}

func storedCriticalCheckinRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(storedCheckinColumns).AddRow(
		"c-1", testUserID, "2026-03-01", "21:45:10",
		"{}", "{}", `[{"tag":"hopelessness","severity":"critical"}]`,
		nil, nil, nil, nil,
		true, false, now, now,
	)
}

// 用户不存在时打卡记录随事务回滚，不会留下 crisis_alert_triggered=true 而没有干预记录的行
func TestSubmitCheckin_MissingUserRollsBackCheckin(t *testing.T) {
	notifier := &fakeNotifier{}
	mock, svc := newPostgresBackedService(t, notifier)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO emotion_checkins`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM emotion_checkins`).WillReturnRows(storedCriticalCheckinRow())
	mock.ExpectQuery(`FROM users`).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "first_name"}))
	mock.ExpectRollback()

	res, err := svc.SubmitCheckin(context.Background(), testUserID, CreateCheckinRequest{
		SelectedConcerningThoughts: thoughts("hopelessness", "critical"),
	})

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	assert.Empty(t, notifier.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitCheckin_CommitsThenMarksEmailSent(t *testing.T) {
	notifier := &fakeNotifier{}
	mock, svc := newPostgresBackedService(t, notifier)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO emotion_checkins`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM emotion_checkins`).WillReturnRows(storedCriticalCheckinRow())
	mock.ExpectQuery(`FROM users`).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "first_name"}).
			AddRow(testUserID, "mom@example.com", "Asha"))
	mock.ExpectExec(`INSERT INTO crisis_interventions`).
		WithArgs(sqlmock.AnyArg(), testUserID, "c-1", "resources_accessed",
			sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`UPDATE crisis_interventions`).
		WithArgs("email_sent", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := svc.SubmitCheckin(context.Background(), testUserID, CreateCheckinRequest{
		SelectedConcerningThoughts: thoughts("hopelessness", "critical"),
	})

	require.NoError(t, err)
	assert.Equal(t, "c-1", res.Checkin.CheckinID)
	require.NotNil(t, res.Intervention)
	assert.True(t, res.Intervention.EmailSent)
	require.Len(t, notifier.sent, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
