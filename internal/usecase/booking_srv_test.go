package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"lodgr/internal/data/entity"
	"lodgr/internal/data/repository"
	"lodgr/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	user       *entity.User
	property   *entity.Property
	bookings   map[uuid.UUID]*entity.Booking
	dispatcher *RecordingDispatcher
	service    BookingService
}

func newBookingFixture(t *testing.T, email string) *bookingFixture {
	t.Helper()

	user := &entity.User{Username: "guest", Email: email}
	user.ID = uuid.New()
	property := &entity.Property{HostID: uuid.New(), Name: "Lakeside Cabin", Location: "Bishoftu", Price: 40}
	property.ID = uuid.New()

	f := &bookingFixture{
		user:       user,
		property:   property,
		bookings:   make(map[uuid.UUID]*entity.Booking),
		dispatcher: &RecordingDispatcher{},
	}

	repo := &repository.Repository{
		User: &MockUserRepo{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				if id == user.ID {
					return user, nil
				}
				return nil, nil
			},
		},
		Property: &MockPropertyRepo{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
				if id == property.ID {
					return property, nil
				}
				return nil, nil
			},
		},
		Booking: &MockBookingRepo{
			CreateFunc: func(ctx context.Context, booking *entity.Booking) error {
				f.bookings[booking.ID] = booking
				return nil
			},
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
				if b, ok := f.bookings[id]; ok {
					cp := *b
					return &cp, nil
				}
				return nil, nil
			},
			UpdateFunc: func(ctx context.Context, booking *entity.Booking) error {
				if _, ok := f.bookings[booking.ID]; !ok {
					return repository.ErrNoRowsAffected
				}
				f.bookings[booking.ID] = booking
				return nil
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				delete(f.bookings, id)
				return nil
			},
			FindAllFunc: func(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
				var out []*entity.Booking
				for _, b := range f.bookings {
					if filter.PropertyID != nil && b.PropertyID != *filter.PropertyID {
						continue
					}
					out = append(out, b)
				}
				return out, nil
			},
			CountAllFunc: func(ctx context.Context, filter entity.BookingFilter) (int64, error) {
				return int64(len(f.bookings)), nil
			},
		},
	}

	f.service = NewBookingService(repo, f.dispatcher, zap.NewNop())
	return f
}

func (f *bookingFixture) createRequest() *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		PropertyID: f.property.ID.String(),
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-04",
		TotalPrice: 120,
	}
}

func TestCreateBooking_EnqueuesConfirmation(t *testing.T) {
	f := newBookingFixture(t, "guest@example.com")

	resp, err := f.service.CreateBooking(context.Background(), "", f.user.ID, f.createRequest())

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCreated, resp.Status)
	assert.Equal(t, "2026-06-01", resp.StartDate)
	assert.Equal(t, "2026-06-04", resp.EndDate)
	assert.Equal(t, f.user.ID.String(), resp.UserID)
	assert.Len(t, f.bookings, 1)
	assert.Equal(t, []uuid.UUID{uuid.MustParse(resp.ID)}, f.dispatcher.Enqueued())
}

func TestCreateBooking_NoEmailNoNotification(t *testing.T) {
	f := newBookingFixture(t, "")

	_, err := f.service.CreateBooking(context.Background(), "", f.user.ID, f.createRequest())

	require.NoError(t, err)
	assert.Empty(t, f.dispatcher.Enqueued())
}

func TestCreateBooking_EnqueueFailureDoesNotFailRequest(t *testing.T) {
	f := newBookingFixture(t, "guest@example.com")
	f.dispatcher.Err = errors.New("queue full")

	resp, err := f.service.CreateBooking(context.Background(), "", f.user.ID, f.createRequest())

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, f.bookings, 1)
}

func TestCreateBooking_NestedRouteSuppliesProperty(t *testing.T) {
	f := newBookingFixture(t, "guest@example.com")
	req := f.createRequest()
	req.PropertyID = ""

	resp, err := f.service.CreateBooking(context.Background(), f.property.ID.String(), f.user.ID, req)

	require.NoError(t, err)
	assert.Equal(t, f.property.ID.String(), resp.PropertyID)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newBookingFixture(t, "guest@example.com")

	tests := []struct {
		name   string
		mutate func(r *request.CreateBookingRequest)
		field  string
	}{
		{"end before start", func(r *request.CreateBookingRequest) { r.EndDate = "2026-05-30" }, "EndDate"},
		{"bad date format", func(r *request.CreateBookingRequest) { r.StartDate = "01/06/2026" }, "StartDate"},
		{"non-positive price", func(r *request.CreateBookingRequest) { r.TotalPrice = -5 }, "TotalPrice"},
		{"unknown status", func(r *request.CreateBookingRequest) { r.Status = "paid" }, "Status"},
		{"missing property", func(r *request.CreateBookingRequest) { r.PropertyID = "" }, "PropertyID"},
		{"property does not exist", func(r *request.CreateBookingRequest) { r.PropertyID = uuid.NewString() }, "PropertyID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.createRequest()
			tt.mutate(req)

			resp, err := f.service.CreateBooking(context.Background(), "", f.user.ID, req)

			assert.Nil(t, resp)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	assert.Empty(t, f.bookings)
	assert.Empty(t, f.dispatcher.Enqueued())
}

func TestCreateBooking_SameDayStayAllowed(t *testing.T) {
	f := newBookingFixture(t, "")
	req := f.createRequest()
	req.EndDate = req.StartDate

	_, err := f.service.CreateBooking(context.Background(), "", f.user.ID, req)

	assert.NoError(t, err)
}

func seedBooking(f *bookingFixture, owner uuid.UUID) *entity.Booking {
	b := &entity.Booking{
		PropertyID: f.property.ID,
		UserID:     owner,
		StartDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
		TotalPrice: 120,
		Status:     entity.BookingStatusCreated,
	}
	b.ID = uuid.New()
	f.bookings[b.ID] = b
	return b
}

func TestGetBooking_Scope(t *testing.T) {
	f := newBookingFixture(t, "")
	b := seedBooking(f, f.user.ID)

	got, err := f.service.GetBooking(context.Background(), f.property.ID.String(), b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, b.ID.String(), got.ID)

	_, err = f.service.GetBooking(context.Background(), uuid.NewString(), b.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.GetBooking(context.Background(), "", uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBooking_Patch(t *testing.T) {
	f := newBookingFixture(t, "")
	b := seedBooking(f, f.user.ID)
	status := "confirmed"

	resp, err := f.service.UpdateBooking(context.Background(), "", b.ID.String(), f.user.ID,
		&request.UpdateBookingRequest{Status: &status}, false)

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.Equal(t, "2026-06-01", resp.StartDate)
	assert.Equal(t, entity.BookingStatusConfirmed, f.bookings[b.ID].Status)
}

func TestUpdateBooking_PutRequiresAllFields(t *testing.T) {
	f := newBookingFixture(t, "")
	b := seedBooking(f, f.user.ID)
	status := "confirmed"

	_, err := f.service.UpdateBooking(context.Background(), "", b.ID.String(), f.user.ID,
		&request.UpdateBookingRequest{Status: &status}, true)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateBooking_MergedDatesValidated(t *testing.T) {
	f := newBookingFixture(t, "")
	b := seedBooking(f, f.user.ID)
	end := "2026-05-01"

	_, err := f.service.UpdateBooking(context.Background(), "", b.ID.String(), f.user.ID,
		&request.UpdateBookingRequest{EndDate: &end}, false)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAndDeleteBooking_OwnerOnly(t *testing.T) {
	f := newBookingFixture(t, "")
	b := seedBooking(f, f.user.ID)
	stranger := uuid.New()
	status := "cancelled"

	_, err := f.service.UpdateBooking(context.Background(), "", b.ID.String(), stranger,
		&request.UpdateBookingRequest{Status: &status}, false)
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.service.DeleteBooking(context.Background(), "", b.ID.String(), stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.service.DeleteBooking(context.Background(), "", b.ID.String(), f.user.ID))
	assert.Empty(t, f.bookings)
}

func TestListBookings_NestedScope(t *testing.T) {
	f := newBookingFixture(t, "")
	seedBooking(f, f.user.ID)
	other := seedBooking(f, f.user.ID)
	other.PropertyID = uuid.New()

	req := &request.BookingListRequest{PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10}}
	resp, err := f.service.ListBookings(context.Background(), f.property.ID.String(), req)

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, f.property.ID.String(), resp.Data[0].PropertyID)

	_, err = f.service.ListBookings(context.Background(), uuid.NewString(), req)
	assert.ErrorIs(t, err, ErrNotFound)
}
