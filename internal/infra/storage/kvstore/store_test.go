package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
	bookingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/booking"
	ratingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/rating"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsultBooking/pkg/ptr"
)

// newTestStore поднимает Redis в памяти процесса
func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client), mr
}

func newBooking(seekerID, consultantID int64) *domain.Booking {
	return &domain.Booking{
		Kind:            domain.KindSession,
		SeekerID:        seekerID,
		ConsultantID:    consultantID,
		SessionDate:     time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime:       "14:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
		TotalAmount:     decimal.NewFromInt(100),
		AdvanceAmount:   decimal.NewFromInt(30),
		RemainingAmount: decimal.NewFromInt(70),
	}
}

func TestMatches(t *testing.T) {
	b := newBooking(1, 2)
	b.Status = domain.StatusConfirmed

	assert.True(t, matches(b, domain.BookingFilter{}))
	assert.True(t, matches(b, domain.BookingFilter{SeekerID: ptr.Ptr(int64(1))}))
	assert.False(t, matches(b, domain.BookingFilter{SeekerID: ptr.Ptr(int64(2))}))
	assert.True(t, matches(b, domain.BookingFilter{ConsultantID: ptr.Ptr(int64(2)), Status: ptr.Ptr(domain.StatusConfirmed)}))
	assert.False(t, matches(b, domain.BookingFilter{Status: ptr.Ptr(domain.StatusPending)}))
	assert.False(t, matches(b, domain.BookingFilter{Kind: ptr.Ptr(domain.KindService)}))
}

func TestBookingRecord_PreservesFields(t *testing.T) {
	by := domain.RoleSeeker
	at := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	b := newBooking(1, 2)
	b.ID = uuid.New()
	b.ServiceID = ptr.Ptr(int64(9))
	b.CancelledBy = &by
	b.CancelledAt = &at
	b.Version = 3

	got := toBookingRecord(b).toDomain()

	assert.Equal(t, b, got)
}

func TestBookingStore_VersionedUpdates(t *testing.T) {
	store, _ := newTestStore(t)
	bookings := store.Bookings()
	ctx := context.Background()

	created, err := bookings.Create(ctx, newBooking(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	require.NoError(t, bookings.UpdateStatus(ctx, created.ID, 1, domain.StatusConfirmed))

	err = bookings.UpdateStatus(ctx, created.ID, 1, domain.StatusCompleted)
	assert.ErrorIs(t, err, bookingRepo.ErrVersionConflict)

	err = bookings.UpdateStatus(ctx, uuid.New(), 1, domain.StatusCompleted)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)

	reason := "plans changed"
	require.NoError(t, bookings.Cancel(ctx, created.ID, 2, domain.RoleSeeker, &reason, time.Now()))

	got, err := bookings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, int64(3), got.Version)
	require.NotNil(t, got.CancelledBy)
	assert.Equal(t, domain.RoleSeeker, *got.CancelledBy)
}

func TestBookingStore_ListOrdersBySession(t *testing.T) {
	store, _ := newTestStore(t)
	bookings := store.Bookings()
	ctx := context.Background()

	later := newBooking(1, 2)
	later.StartTime = "16:00"
	earlier := newBooking(1, 3)
	earlier.StartTime = "09:30"
	other := newBooking(5, 2)

	for _, b := range []*domain.Booking{later, earlier, other} {
		_, err := bookings.Create(ctx, b)
		require.NoError(t, err)
	}

	got, err := bookings.List(ctx, domain.BookingFilter{SeekerID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, earlier.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
}

func TestRatingStore_OnePerBooking(t *testing.T) {
	store, _ := newTestStore(t)
	ratings := store.Ratings()
	ctx := context.Background()

	bookingID := uuid.New()
	_, err := ratings.Create(ctx, &domain.Rating{BookingID: bookingID, SeekerID: 1, ConsultantID: 2, Score: 4})
	require.NoError(t, err)

	_, err = ratings.Create(ctx, &domain.Rating{BookingID: bookingID, SeekerID: 1, ConsultantID: 2, Score: 5})
	assert.ErrorIs(t, err, ratingRepo.ErrAlreadyRated)

	rated, err := ratings.RatedAmong(ctx, []uuid.UUID{bookingID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{bookingID: true}, rated)

	avg, count, err := ratings.AverageForConsultant(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.InDelta(t, 4.0, avg, 0.001)
}

func TestSettingsStore_Upsert(t *testing.T) {
	store, _ := newTestStore(t)
	settings := store.Settings()
	ctx := context.Background()

	_, err := settings.Get(ctx, 7)
	assert.ErrorIs(t, err, settingsRepo.ErrSettingsNotFound)

	s := domain.DefaultConsultantSettings(7)
	s.MinBookingNoticeMinutes = 120
	_, err = settings.Upsert(ctx, s)
	require.NoError(t, err)

	got, err := settings.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 120, got.MinBookingNoticeMinutes)
}

func TestBookingStore_CreateLeavesNothingOnIndexFailure(t *testing.T) {
	store, mr := newTestStore(t)
	bookings := store.Bookings()
	ctx := context.Background()

	// Ключ индекса соискателя другого типа: SADD внутри EXEC вернет WRONGTYPE
	require.NoError(t, mr.Set(seekerBookingsKey(1), "broken"))

	b := newBooking(1, 2)
	b.ID = uuid.New()

	_, err := bookings.Create(ctx, b)
	require.ErrorIs(t, err, bookingRepo.ErrExecQuery)

	assert.False(t, mr.Exists(bookingKey(b.ID)))
	_, err = bookings.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)

	got, err := bookings.List(ctx, domain.BookingFilter{ConsultantID: ptr.Ptr(int64(2))})
	require.NoError(t, err)
	assert.Empty(t, got)

	// Повтор с тем же ID проходит после устранения причины
	mr.Del(seekerBookingsKey(1))
	created, err := bookings.Create(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, b.ID, created.ID)

	got, err = bookings.List(ctx, domain.BookingFilter{ConsultantID: ptr.Ptr(int64(2))})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestBookingStore_CreateRejectsDuplicateID(t *testing.T) {
	store, _ := newTestStore(t)
	bookings := store.Bookings()
	ctx := context.Background()

	first := newBooking(1, 2)
	first.ID = uuid.New()
	_, err := bookings.Create(ctx, first)
	require.NoError(t, err)

	second := newBooking(3, 4)
	second.ID = first.ID
	_, err = bookings.Create(ctx, second)
	assert.ErrorIs(t, err, bookingRepo.ErrExecQuery)

	got, err := bookings.List(ctx, domain.BookingFilter{SeekerID: ptr.Ptr(int64(3))})
	require.NoError(t, err)
	assert.Empty(t, got)

	stored, err := bookings.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.SeekerID)
}

func TestBookingStore_SessionDateKeepsCalendarDay(t *testing.T) {
	store, _ := newTestStore(t)
	bookings := store.Bookings()
	ctx := context.Background()

	b := newBooking(1, 2)
	b.SessionDate = time.Date(2025, 10, 20, 0, 0, 0, 0, time.FixedZone("MSK", 3*60*60))
	created, err := bookings.Create(ctx, b)
	require.NoError(t, err)

	got, err := bookings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), got.SessionDate)

	at, err := eligibility.SessionDateTime(got)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 20, 14, 0, 0, 0, time.UTC), at)

	moved := time.Date(2025, 10, 22, 0, 0, 0, 0, time.FixedZone("EST", -5*60*60))
	require.NoError(t, bookings.Reschedule(ctx, created.ID, 1, moved, "09:00"))

	got, err = bookings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC), got.SessionDate)
}

func TestBookingStore_ConcurrentWriteIsConflict(t *testing.T) {
	store, _ := newTestStore(t)
	bookings := store.Bookings()
	ctx := context.Background()

	created, err := bookings.Create(ctx, newBooking(1, 2))
	require.NoError(t, err)

	// Запись другого клиента между чтением под WATCH и EXEC
	var once bool
	err = bookings.updateVersioned(ctx, "UpdateStatus", created.ID, 1, func(r *bookingRecord) {
		if !once {
			once = true
			require.NoError(t, bookings.UpdateStatus(ctx, created.ID, 1, domain.StatusConfirmed))
		}
		r.Status = domain.StatusCancelled
	})
	assert.ErrorIs(t, err, bookingRepo.ErrVersionConflict)

	got, err := bookings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, int64(2), got.Version)
}
