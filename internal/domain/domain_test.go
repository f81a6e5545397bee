package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_Vocabularies(t *testing.T) {
	tests := []struct {
		name    string
		kind    BookingKind
		raw     string
		want    Status
		wantErr bool
	}{
		{name: "session confirmed", kind: KindSession, raw: "confirmed", want: StatusConfirmed},
		{name: "service accepted", kind: KindService, raw: "accepted", want: StatusConfirmed},
		{name: "service pending", kind: KindService, raw: "pending", want: StatusPending},
		{name: "any kind accepted", kind: "", raw: "accepted", want: StatusConfirmed},
		{name: "any kind confirmed", kind: "", raw: "confirmed", want: StatusConfirmed},
		{name: "session rejects accepted", kind: KindSession, raw: "accepted", wantErr: true},
		{name: "service rejects confirmed", kind: KindService, raw: "confirmed", wantErr: true},
		{name: "unknown", kind: KindSession, raw: "in_progress", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.kind, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "accepted", StatusConfirmed.Label(KindService))
	assert.Equal(t, "confirmed", StatusConfirmed.Label(KindSession))
	assert.Equal(t, "cancelled", StatusCancelled.Label(KindService))
}

func TestStatus_Classes(t *testing.T) {
	assert.True(t, StatusPending.IsOpen())
	assert.True(t, StatusConfirmed.IsOpen())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, Status("accepted").Valid())
}

func TestBooking_IsParty(t *testing.T) {
	b := &Booking{SeekerID: 1, ConsultantID: 2}

	assert.True(t, b.IsParty(1, RoleSeeker))
	assert.False(t, b.IsParty(1, RoleConsultant))
	assert.True(t, b.IsParty(2, RoleConsultant))
	assert.False(t, b.IsParty(2, ActorRole("admin")))
}

func TestValidateAmounts(t *testing.T) {
	total := decimal.RequireFromString("150.00")

	require.NoError(t, ValidateAmounts(total, decimal.RequireFromString("50"), decimal.RequireFromString("100.00")))
	assert.ErrorIs(t, ValidateAmounts(total, decimal.RequireFromString("50"), decimal.RequireFromString("99.99")), ErrAmountMismatch)
	assert.ErrorIs(t, ValidateAmounts(total, decimal.RequireFromString("-10"), decimal.RequireFromString("160")), ErrNegativeAmount)
}

func TestSplitAmount(t *testing.T) {
	remaining, err := SplitAmount(decimal.RequireFromString("100"), decimal.RequireFromString("30.50"))
	require.NoError(t, err)
	assert.True(t, remaining.Equal(decimal.RequireFromString("69.50")))

	_, err = SplitAmount(decimal.RequireFromString("100"), decimal.RequireFromString("120"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCalendarDate(t *testing.T) {
	want := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{name: "utc midnight", in: want},
		{name: "positive offset midnight", in: time.Date(2025, 10, 20, 0, 0, 0, 0, time.FixedZone("MSK", 3*60*60))},
		{name: "negative offset late evening", in: time.Date(2025, 10, 20, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))},
		{name: "unnamed zero offset", in: time.Date(2025, 10, 20, 0, 0, 0, 0, time.FixedZone("", 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, CalendarDate(tt.in))
		})
	}
}
