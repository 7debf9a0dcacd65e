package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), mustRange(t, "2026-10-01", "2026-10-05"), 48000)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	t.Run("valid booking starts pending", func(t *testing.T) {
		bk := newTestBooking(t)
		assert.Equal(t, StatusPending, bk.Status())
		assert.NotEqual(t, uuid.Nil, bk.ID())
		assert.Equal(t, int64(48000), bk.TotalAmountCents())
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := NewBooking(uuid.Nil, uuid.New(), uuid.New(), mustRange(t, "2026-10-01", "2026-10-05"), 48000)
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), mustRange(t, "2026-10-01", "2026-10-05"), 0)
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})
}

func TestBooking_CanBeMutatedBy(t *testing.T) {
	bk := newTestBooking(t)

	assert.True(t, bk.CanBeMutatedBy(bk.UserID(), auth.RoleUser), "owner may mutate")
	assert.False(t, bk.CanBeMutatedBy(uuid.New(), auth.RoleUser), "stranger may not mutate")
	assert.True(t, bk.CanBeMutatedBy(uuid.New(), auth.RoleAdmin), "admin may mutate any booking")
	assert.False(t, bk.CanBeMutatedBy(bk.UserID(), auth.Role("support")), "unknown role may not mutate")
}

func TestBooking_Cancel(t *testing.T) {
	t.Run("pending can be cancelled", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel())
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("confirmed can be cancelled", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.ConfirmPayment())
		require.NoError(t, bk.Cancel())
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel())
		err := bk.Cancel()
		require.Error(t, err)
		assert.Equal(t, domain.KindAlreadyCancelled, domain.KindOf(err))
	})
}

func TestBooking_ConfirmPayment(t *testing.T) {
	t.Run("pending confirms", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.ConfirmPayment())
		assert.Equal(t, StatusConfirmed, bk.Status())
	})

	t.Run("cancelled booking cannot be confirmed", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel())
		err := bk.ConfirmPayment()
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
		assert.Equal(t, StatusCancelled, bk.Status(), "status must not change")
	})

	t.Run("confirming twice is rejected", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.ConfirmPayment())
		err := bk.ConfirmPayment()
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})
}
