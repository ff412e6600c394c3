package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := dbmetrics.Wrap(db, nil, "test")
	return NewRepository(wrapped), wrapped, mock
}

var (
	startAt = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	endAt   = time.Date(2024, time.June, 3, 23, 59, 59, 999000000, time.UTC)
)

func bookingValues(id int64, status string, cancelledAt interface{}) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, "BK-1A2B3C4D", int64(42), int64(7),
		startAt, endAt.Truncate(24 * time.Hour), nil, nil, "daily",
		startAt, endAt, 2, int64(2000), "INR",
		"Airport", "Railway station", nil, status,
		"order_1", "pay_1", "Toyota Innova (2022)", cancelledAt, now, now,
	}
}

func bookingRows(values ...[]driver.Value) *sqlmock.Rows {
	rows := sqlmock.NewRows(bookingColumns)
	for _, v := range values {
		rows.AddRow(v...)
	}
	return rows
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO bookings \(booking_ref,user_id,vehicle_id,.+\) VALUES \(.+\) RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	b, err := repo.Create(context.Background(), &domain.Booking{
		BookingRef:      "BK-1A2B3C4D",
		UserID:          42,
		VehicleID:       7,
		StartDate:       startAt,
		EndDate:         startAt,
		StartTime:       types.MustTimeString("09:00"),
		EndTime:         types.MustTimeString("10:30"),
		Mode:            domain.ModeHourly,
		StartAt:         startAt.Add(9 * time.Hour),
		EndAt:           startAt.Add(10*time.Hour + 30*time.Minute),
		Duration:        2,
		TotalAmount:     300,
		Currency:        "INR",
		PickupLocation:  "Airport",
		DropoffLocation: "Airport",
		Status:          domain.StatusConfirmed,
		PaymentOrderID:  "order_1",
		PaymentID:       "pay_1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), b.ID)
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDuplicatePayment(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: pgUniqueViolation, Constraint: "bookings_payment_id_key"})

	_, err := repo.Create(context.Background(), &domain.Booking{PaymentID: "pay_1"})
	assert.ErrorIs(t, err, ErrDuplicatePayment)
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newRepo(t)
	cancelled := time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1$`).
		WithArgs(int64(10)).
		WillReturnRows(bookingRows(bookingValues(10, "cancelled", cancelled)))

	b, err := repo.GetByID(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, "BK-1A2B3C4D", b.BookingRef)
	assert.Equal(t, domain.ModeDaily, b.Mode)
	assert.Equal(t, domain.StatusCancelled, b.Status)
	assert.True(t, b.StartTime.IsZero())
	assert.Nil(t, b.SpecialRequests)
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, cancelled, *b.CancelledAt)
}

func TestRepository_GetByPaymentIDNotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE payment_id = \$1`).
		WithArgs("pay_404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByPaymentID(context.Background(), "pay_404")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ListByUser(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE \(user_id = \$1 AND status = \$2\)`).
		WithArgs(int64(42), domain.StatusConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE \(user_id = \$1 AND status = \$2\) ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 10`).
		WithArgs(int64(42), domain.StatusConfirmed).
		WillReturnRows(bookingRows(bookingValues(11, "confirmed", nil), bookingValues(12, "confirmed", nil)))

	bookings, total, err := repo.ListByUser(context.Background(), domain.BookingsFilter{
		UserID: 42,
		Status: ptr.Ptr(domain.StatusConfirmed),
		Page:   2,
		Limit:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, total)
	require.Len(t, bookings, 2)
	assert.Equal(t, int64(11), bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListAll(t *testing.T) {
	t.Run("without filters", func(t *testing.T) {
		repo, _, mock := newRepo(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT .+ FROM bookings ORDER BY created_at DESC, id DESC LIMIT 20 OFFSET 0`).
			WillReturnRows(bookingRows(bookingValues(1, "confirmed", nil), bookingValues(2, "cancelled", nil)))

		bookings, total, err := repo.ListAll(context.Background(), domain.BookingsFilter{Page: 1, Limit: 20})
		require.NoError(t, err)

		assert.Equal(t, 2, total)
		assert.Len(t, bookings, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("by status", func(t *testing.T) {
		repo, _, mock := newRepo(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE \(status = \$1\)`).
			WithArgs(domain.StatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT .+ FROM bookings WHERE \(status = \$1\) ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 0`).
			WithArgs(domain.StatusPending).
			WillReturnRows(bookingRows())

		bookings, total, err := repo.ListAll(context.Background(), domain.BookingsFilter{
			Status: ptr.Ptr(domain.StatusPending),
			Page:   1,
			Limit:  10,
		})
		require.NoError(t, err)

		assert.Zero(t, total)
		assert.Empty(t, bookings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count failure", func(t *testing.T) {
		repo, _, mock := newRepo(t)

		mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("connection reset"))

		_, _, err := repo.ListAll(context.Background(), domain.BookingsFilter{Page: 1, Limit: 10})
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestRepository_CountOverlappingLocksInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	tm := txmanager.NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM bookings WHERE vehicle_id = \$1 AND status IN \(\$2,\$3\) AND start_at < \$4 AND end_at > \$5 FOR UPDATE`).
		WithArgs(int64(7), "pending", "confirmed", endAt, startAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectCommit()

	var count int
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		var err error
		count, err = repo.CountOverlapping(ctx, 7, startAt, endAt)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountOverlappingWithoutTransaction(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT id FROM bookings WHERE .+ AND end_at > \$5$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	count, err := repo.CountOverlapping(context.Background(), 7, startAt, endAt)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_UpdateStatusCancelled(t *testing.T) {
	repo, _, mock := newRepo(t)
	cancelled := time.Now()

	mock.ExpectQuery(`UPDATE bookings SET status = \$1, updated_at = NOW\(\), cancelled_at = NOW\(\) WHERE id = \$2 RETURNING id, booking_ref`).
		WithArgs(domain.StatusCancelled, int64(10)).
		WillReturnRows(bookingRows(bookingValues(10, "cancelled", cancelled)))

	b, err := repo.UpdateStatus(context.Background(), 10, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, b.Status)
	assert.NotNil(t, b.CancelledAt)
}

func TestRepository_UpdateStatusInvalid(t *testing.T) {
	repo, _, _ := newRepo(t)

	_, err := repo.UpdateStatus(context.Background(), 10, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRepository_CompleteFinished(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE status = \$2 AND end_at < \$3`).
		WithArgs(domain.StatusCompleted, domain.StatusConfirmed, now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.CompleteFinished(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
