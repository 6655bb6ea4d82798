package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var medicationColumns = []string{"id", "user_id", "medicine_name", "dosage", "stock_quantity", "reorder_threshold", "is_active"}

func TestMedicationListEmpty(t *testing.T) {
	conn, mock := newMockDB(t)
	svc := NewMedicationService(conn)

	mock.ExpectQuery(`SELECT \* FROM "medications"`).
		WillReturnRows(sqlmock.NewRows(medicationColumns))

	meds, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, meds)
	assert.Empty(t, meds)
}

func TestMedicationGetWithSchedules(t *testing.T) {
	conn, mock := newMockDB(t)
	svc := NewMedicationService(conn)

	mock.ExpectQuery(`SELECT \* FROM "medications"`).
		WillReturnRows(sqlmock.NewRows(medicationColumns).AddRow(10, 1, "Metformin", "500mg", 30, 5, true))
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "medication_id", "scheduled_time", "is_active"}).
			AddRow(3, 10, "08:00:00", true).
			AddRow(4, 10, "20:00:00", true))

	med, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Metformin", med.MedicineName)
	require.Len(t, med.Schedules, 2)
	assert.Equal(t, "20:00:00", med.Schedules[1].ScheduledTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicationGetForeignIsNotFound(t *testing.T) {
	conn, mock := newMockDB(t)
	svc := NewMedicationService(conn)

	mock.ExpectQuery(`SELECT \* FROM "medications"`).
		WillReturnRows(sqlmock.NewRows(medicationColumns))

	_, err := svc.Get(ctx, 2, 10)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicationCreateIsActive(t *testing.T) {
	conn, mock := newMockDB(t)
	svc := NewMedicationService(conn)

	mock.ExpectQuery(`INSERT INTO "medications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	id, err := svc.Create(ctx, 1, CreateMedicationInput{MedicineName: "Lisinopril", StockQuantity: 30, ReorderThreshold: 7})
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicationUpdateStockAbsolute(t *testing.T) {
	conn, mock := newMockDB(t)
	svc := NewMedicationService(conn)

	mock.ExpectExec(`UPDATE "medications" SET "stock_quantity"=\$1`).
		WithArgs(42, sqlmock.AnyArg(), 10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.UpdateStock(ctx, 1, 10, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicationUpdateStockForeignIsNotFound(t *testing.T) {
	conn, mock := newMockDB(t)
	svc := NewMedicationService(conn)

	mock.ExpectExec(`UPDATE "medications"`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, svc.UpdateStock(ctx, 2, 10, 42), ErrNotFound)
}
