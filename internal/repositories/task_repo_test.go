package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"consultly/internal/models"
)

type TaskRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo TaskRepository
	ctx  context.Context
}

func (suite *TaskRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewTaskRepo(mock)
	suite.ctx = context.Background()
}

func (suite *TaskRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTaskRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepoTestSuite))
}

func (suite *TaskRepoTestSuite) TestCreate() {
	due := time.Now().Add(24 * time.Hour)
	task := &models.Task{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Title:     "Draft engagement report",
		Status:    "open",
		DueAt:     &due,
	}

	suite.mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs(task.ID, task.ProjectID, task.Title, task.Status, task.DueAt, task.ReminderSent).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.ctx, task)
	assert.NoError(suite.T(), err)
}

func (suite *TaskRepoTestSuite) TestListDueReminders() {
	now := time.Now()
	overdue := now.Add(-time.Hour)
	taskID := uuid.New()
	projectID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "project_id", "title", "status",
		"due_at", "reminder_sent", "created_at", "updated_at"}).
		AddRow(taskID, projectID, "Send invoice", "open", &overdue, false, now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM tasks`).
		WithArgs(now, 100).
		WillReturnRows(rows)

	tasks, err := suite.repo.ListDueReminders(suite.ctx, now, 100)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), taskID, tasks[0].ID)
	assert.False(suite.T(), tasks[0].ReminderSent)
}

func (suite *TaskRepoTestSuite) TestListDueReminders_Empty() {
	now := time.Now()

	suite.mock.ExpectQuery(`SELECT (.+) FROM tasks`).
		WithArgs(now, 100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "title", "status",
			"due_at", "reminder_sent", "created_at", "updated_at"}))

	tasks, err := suite.repo.ListDueReminders(suite.ctx, now, 100)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), tasks)
}

func (suite *TaskRepoTestSuite) TestMarkReminderSent() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE tasks SET reminder_sent = true`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.MarkReminderSent(suite.ctx, id)
	assert.NoError(suite.T(), err)
}
