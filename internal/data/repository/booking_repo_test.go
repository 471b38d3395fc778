package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"lodgr/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingRepo_FindAllFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	repo := NewBookingRepository(mock, zap.NewNop())

	status := entity.BookingStatusCreated
	userID := uuid.New()
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	where := ` WHERE status = $1 AND user_id = $2 AND start_date = $3`
	mock.ExpectQuery("^"+regexp.QuoteMeta(`SELECT `+bookingColumns+` FROM bookings`+where+
		` ORDER BY created_at DESC LIMIT $4 OFFSET $5`)+"$").
		WithArgs(status, userID, start, 10, 10).
		WillReturnRows(pgxmock.NewRows(strings.Split(bookingColumns, ", ")))
	mock.ExpectQuery("^"+regexp.QuoteMeta(`SELECT COUNT(*) FROM bookings`+where)+"$").
		WithArgs(status, userID, start).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(11)))

	filter := entity.BookingFilter{Status: &status, UserID: &userID, StartDate: &start}
	bookings, err := repo.FindAll(context.Background(), filter, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	count, err := repo.CountAll(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(11), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
