package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupDashboardDB monta um gorm.DB isolado com expectativas fora de ordem,
// já que as seis consultas do painel correm em paralelo.
func setupDashboardDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func TestComputeDashboard(t *testing.T) {
	db, mock, cleanup := setupDashboardDB(t)
	defer cleanup()

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	yearEnd := time.Date(2025, 12, 31, 23, 59, 59, 0, time.Local)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "services"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WithArgs("income", monthStart, monthEnd).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4200.00))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WithArgs("expense", monthStart, monthEnd).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1100.00))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WithArgs("income", yearStart, yearEnd).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(38500.00))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WithArgs("scheduled", now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	stats, err := ComputeDashboard(context.Background(), db, now)
	require.NoError(t, err)

	assert.Equal(t, int64(42), stats.TotalClients)
	assert.Equal(t, int64(6), stats.TotalServices)
	assert.Equal(t, 4200.00, stats.MonthlyIncome)
	assert.Equal(t, 1100.00, stats.MonthlyExpense)
	assert.Equal(t, 38500.00, stats.YearlyIncome)
	assert.Equal(t, int64(3), stats.UpcomingAppointments)
	// saldo = receita - despesa do mês
	assert.Equal(t, 3100.00, stats.MonthlyBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeDashboard_EmptyDatabase(t *testing.T) {
	db, mock, cleanup := setupDashboardDB(t)
	defer cleanup()

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "services"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// listas vazias somam zero via COALESCE
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	stats, err := ComputeDashboard(context.Background(), db, now)
	require.NoError(t, err)

	assert.Equal(t, 0.0, stats.MonthlyIncome)
	assert.Equal(t, 0.0, stats.MonthlyBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeDashboard_QueryFailure(t *testing.T) {
	db, mock, cleanup := setupDashboardDB(t)
	defer cleanup()

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)

	// uma consulta falhando aborta o painel inteiro
	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "services"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := ComputeDashboard(context.Background(), db, now)
	assert.Error(t, err)
}
