package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"chemebot/internal/model"
)

func newMockRepository(t *testing.T) (*InteractionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewInteractionRepository(gormDB), mock
}

func TestCreateInsertsInteraction(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `interactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(&model.Interaction{
		Question:    "What PPE is required for benzene?",
		Category:    "safety",
		WebEnhanced: true,
		SourceCount: 2,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsAggregatesPerCategory(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `interactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(10))
	mock.ExpectQuery("SELECT category, count\\(\\*\\) as count FROM `interactions` GROUP BY `category`").
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).
			AddRow("safety", 6).
			AddRow("calculation", 3).
			AddRow("theory", 1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `interactions` WHERE created_at >=").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, map[string]int64{"safety": 6, "calculation": 3, "theory": 1}, stats.ByCategory)
	assert.Equal(t, int64(4), stats.LastHour)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCountFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `interactions`").
		WillReturnError(gorm.ErrInvalidDB)

	_, err := repo.Stats(context.Background())
	assert.Error(t, err)
}
