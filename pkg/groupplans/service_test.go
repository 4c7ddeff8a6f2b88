package groupplans

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall/pkg/storage"
)

func newMockService(t *testing.T) (*SQLService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLService(storage.Wrap(db, storage.DriverSQLite)), mock
}

func planColumnsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "created_at", "start_date", "end_date",
		"location", "creator_id", "status", "max_participants", "budget", "image_url",
	})
}

func addPlanRow(rows *sqlmock.Rows, id int64, name string) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id, name, "desc", now, now.Add(24*time.Hour),
		now.Add(48*time.Hour), "Lisbon", int64(7), StatusActive, 4, 100.0, "")
}

func TestSQLService_Get(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM group_plans WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(addPlanRow(planColumnsRows(), 1, "Hiking"))
	mock.ExpectQuery("SELECT participant_id FROM group_plan_participants").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow(int64(2)).AddRow(int64(3)))

	plan, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Hiking", plan.Name)
	assert.Equal(t, []int64{2, 3}, plan.ParticipantIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_Get_NotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM group_plans WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(planColumnsRows())

	plan, err := svc.Get(context.Background(), 99)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLService_Create_Defaults(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec("INSERT INTO group_plans").
		WillReturnResult(sqlmock.NewResult(1, 1))

	plan, err := svc.Create(context.Background(), &GroupPlan{Name: "Hiking", CreatorID: 7, MaxParticipants: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(1), plan.ID)
	assert.Equal(t, StatusActive, plan.Status)
	assert.False(t, plan.CreatedAt.IsZero())
	assert.NotNil(t, plan.ParticipantIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_Update_PreservesImageAndCreator(t *testing.T) {
	svc, mock := newMockService(t)

	rows := planColumnsRows()
	now := time.Now().UTC()
	rows.AddRow(int64(1), "Hiking", "desc", now, now.Add(24*time.Hour),
		now.Add(48*time.Hour), "Lisbon", int64(7), StatusActive, 4, 100.0, "/uploads/cover.png")
	mock.ExpectQuery("SELECT (.+) FROM group_plans WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT participant_id FROM group_plan_participants").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow(int64(2)))
	mock.ExpectExec("UPDATE group_plans SET name").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := svc.Update(context.Background(), 1, &GroupPlan{
		Name:            "Hiking v2",
		CreatorID:       999,
		MaxParticipants: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/cover.png", updated.ImageURL, "empty incoming image keeps the stored one")
	assert.Equal(t, int64(7), updated.CreatorID, "stored creator wins over the body value")
	assert.Equal(t, []int64{2}, updated.ParticipantIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_ListByLocation(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM group_plans WHERE LOWER\\(location\\) LIKE").
		WithArgs("%lisbon%").
		WillReturnRows(addPlanRow(planColumnsRows(), 1, "Hiking"))
	mock.ExpectQuery("SELECT participant_id FROM group_plan_participants").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}))

	plans, err := svc.ListByLocation(context.Background(), "LISBON")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_ListUpcoming_ActiveOnlySoonestFirst(t *testing.T) {
	svc, mock := newMockService(t)

	rows := addPlanRow(addPlanRow(planColumnsRows(), 1, "Sooner"), 2, "Later")
	mock.ExpectQuery("SELECT (.+) FROM group_plans WHERE start_date > \\? AND status = \\? ORDER BY start_date ASC").
		WithArgs(sqlmock.AnyArg(), StatusActive).
		WillReturnRows(rows)
	for _, id := range []int64{1, 2} {
		mock.ExpectQuery("SELECT participant_id FROM group_plan_participants").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"participant_id"}))
	}

	plans, err := svc.ListUpcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Sooner", plans[0].Name)
	assert.Equal(t, "Later", plans[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_AddParticipant(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT max_participants FROM group_plans").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(4))
	mock.ExpectQuery("SELECT COUNT(.+) FROM group_plan_participants WHERE plan_id = \\?$").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT COUNT(.+) FROM group_plan_participants WHERE plan_id = \\? AND participant_id").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO group_plan_participants").
		WithArgs(int64(1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	added, err := svc.AddParticipant(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_AddParticipant_Full(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT max_participants FROM group_plans").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(2))
	mock.ExpectQuery("SELECT COUNT(.+) FROM group_plan_participants WHERE plan_id = \\?$").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	added, err := svc.AddParticipant(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.False(t, added, "join on a full roster is a quiet no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_AddParticipant_Duplicate(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT max_participants FROM group_plans").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(4))
	mock.ExpectQuery("SELECT COUNT(.+) FROM group_plan_participants WHERE plan_id = \\?$").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT(.+) FROM group_plan_participants WHERE plan_id = \\? AND participant_id").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	added, err := svc.AddParticipant(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_AddParticipant_PlanNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT max_participants FROM group_plans").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}))
	mock.ExpectRollback()

	added, err := svc.AddParticipant(context.Background(), 99, 9)
	assert.False(t, added)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLService_RemoveParticipant(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec("DELETE FROM group_plan_participants").
		WithArgs(int64(1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := svc.RemoveParticipant(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectExec("DELETE FROM group_plan_participants").
		WithArgs(int64(1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err = svc.RemoveParticipant(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.False(t, removed, "leaving a plan you never joined is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLService_UpdateStatus_NotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec("UPDATE group_plans SET status").
		WithArgs(StatusCompleted, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	plan, err := svc.UpdateStatus(context.Background(), 99, StatusCompleted)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrNotFound)
}
