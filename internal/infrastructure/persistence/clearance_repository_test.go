package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// newMockClearanceRepository creates a GormClearanceRepository with a mocked SQL connection
func newMockClearanceRepository(t *testing.T) (*GormClearanceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormClearanceRepository(gormDB), mock, mockDB
}

func TestGormClearanceRepository_UpdateStatus(t *testing.T) {
	t.Run("updates only the status column", func(t *testing.T) {
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`UPDATE "clearances" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs("In Review", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), id, clearance.StatusInReview)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`UPDATE "clearances" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs("Cleared", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), id, clearance.StatusCleared)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClearanceRepository_UpdatePaymentStatus(t *testing.T) {
	t.Run("stamps the payment date when supplied", func(t *testing.T) {
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		paidAt := time.Now()

		mock.ExpectExec(`UPDATE "clearances" SET "payment_date"=\$1,"payment_status"=\$2,"updated_at"=\$3 WHERE id = \$4`).
			WithArgs(paidAt, "Paid", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePaymentStatus(context.Background(), id, clearance.PaymentStatusPaid, &paidAt)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("leaves the payment date untouched without one", func(t *testing.T) {
		// Non-Paid mirror updates must not clear a previously stamped date.
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`UPDATE "clearances" SET "payment_status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs("Pending", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePaymentStatus(context.Background(), id, clearance.PaymentStatusPending, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClearanceRepository_UnlinkInvoice(t *testing.T) {
	t.Run("resets the link and mirrored fields", func(t *testing.T) {
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`UPDATE "clearances" SET .+ WHERE id = \$`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UnlinkInvoice(context.Background(), id)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown clearance", func(t *testing.T) {
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`UPDATE "clearances" SET .+ WHERE id = \$`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UnlinkInvoice(context.Background(), id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClearanceRepository_GenerateCaseNumber(t *testing.T) {
	t.Run("starts a new yearly series at 1", func(t *testing.T) {
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT "case_number" FROM "clearances" WHERE case_number LIKE \$1`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"case_number"}))

		number, err := repo.GenerateCaseNumber(context.Background())

		require.NoError(t, err)
		assert.Regexp(t, `^CC-\d{4}-00001$`, number)
	})

	t.Run("increments the highest existing number", func(t *testing.T) {
		repo, mock, mockDB := newMockClearanceRepository(t)
		defer mockDB.Close()

		year := time.Now().Year()
		last := sqlmock.NewRows([]string{"case_number"}).
			AddRow(formatCaseNumber(year, 41))

		mock.ExpectQuery(`SELECT "case_number" FROM "clearances" WHERE case_number LIKE \$1`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(last)

		number, err := repo.GenerateCaseNumber(context.Background())

		require.NoError(t, err)
		assert.Equal(t, formatCaseNumber(year, 42), number)
	})
}

func formatCaseNumber(year, seq int) string {
	return fmt.Sprintf("CC-%d-%05d", year, seq)
}
