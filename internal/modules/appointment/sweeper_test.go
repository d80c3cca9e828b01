package appointment

import (
	"context"
	"errors"
	"testing"

	"carsure/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func expiredAppointment(id int64, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{
		ID: id, WorkshopID: 1, CarID: 7, OwnerID: 20,
		Date: yesterday(), Time: "10:00",
		Status: status,
	}
}

func TestSweepExpired_CancelsAndNotifiesBothSides(t *testing.T) {
	svc, rdvs, workshops, _, notifs := newTestService()
	ctx := context.Background()

	expired := []domain.Appointment{
		expiredAppointment(1, domain.StatusEnAttente),
		expiredAppointment(2, domain.StatusAccepted),
	}
	rdvs.On("ListExpired", ctx, mock.AnythingOfType("string"), int64(0)).Return(expired, nil)
	rdvs.On("UpdateStatusIf", ctx, int64(1), domain.StatusEnAttente, domain.StatusCancelled).Return(true, nil)
	rdvs.On("UpdateStatusIf", ctx, int64(2), domain.StatusAccepted, domain.StatusCancelled).Return(true, nil)
	workshops.On("GetByID", ctx, int64(1)).Return(activeWorkshop(), nil).Once()

	// owner and workshop account each get one notification per cancellation
	notifs.On("NotifyRdvCancelled", ctx, int64(20), int64(1), int64(7), int64(1), expired[0].Date, "10:00").Return(nil).Once()
	notifs.On("NotifyRdvCancelled", ctx, int64(50), int64(1), int64(7), int64(1), expired[0].Date, "10:00").Return(nil).Once()
	notifs.On("NotifyRdvCancelled", ctx, int64(20), int64(2), int64(7), int64(1), expired[1].Date, "10:00").Return(nil).Once()
	notifs.On("NotifyRdvCancelled", ctx, int64(50), int64(2), int64(7), int64(1), expired[1].Date, "10:00").Return(nil).Once()

	cancelled, err := svc.SweepExpired(ctx, 0)

	assert.NoError(t, err)
	assert.Len(t, cancelled, 2)
	for _, a := range cancelled {
		assert.Equal(t, domain.StatusCancelled, a.Status)
		assert.NotNil(t, a.CancelledAt)
	}
	notifs.AssertExpectations(t)
	// workshop account resolved once thanks to the cache
	workshops.AssertExpectations(t)
}

func TestSweepExpired_SkipsRowsSweptConcurrently(t *testing.T) {
	svc, rdvs, _, _, notifs := newTestService()
	ctx := context.Background()

	expired := []domain.Appointment{expiredAppointment(1, domain.StatusEnAttente)}
	rdvs.On("ListExpired", ctx, mock.AnythingOfType("string"), int64(0)).Return(expired, nil)
	// another sweeper won the compare-and-swap
	rdvs.On("UpdateStatusIf", ctx, int64(1), domain.StatusEnAttente, domain.StatusCancelled).Return(false, nil)

	cancelled, err := svc.SweepExpired(ctx, 0)

	assert.NoError(t, err)
	assert.Empty(t, cancelled)
	notifs.AssertNotCalled(t, "NotifyRdvCancelled",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepExpired_NotifyFailureStillCancels(t *testing.T) {
	svc, rdvs, workshops, _, notifs := newTestService()
	ctx := context.Background()

	expired := []domain.Appointment{expiredAppointment(1, domain.StatusEnAttente)}
	rdvs.On("ListExpired", ctx, mock.AnythingOfType("string"), int64(0)).Return(expired, nil)
	rdvs.On("UpdateStatusIf", ctx, int64(1), domain.StatusEnAttente, domain.StatusCancelled).Return(true, nil)
	workshops.On("GetByID", ctx, int64(1)).Return(activeWorkshop(), nil)
	notifs.On("NotifyRdvCancelled", ctx, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("push channel down"))

	cancelled, err := svc.SweepExpired(ctx, 0)

	assert.NoError(t, err)
	assert.Len(t, cancelled, 1)
}

func TestSweepExpired_ScopedToOwner(t *testing.T) {
	svc, rdvs, _, _, _ := newTestService()
	ctx := context.Background()

	rdvs.On("ListExpired", ctx, mock.AnythingOfType("string"), int64(20)).Return([]domain.Appointment{}, nil)

	cancelled, err := svc.SweepExpired(ctx, 20)

	assert.NoError(t, err)
	assert.Empty(t, cancelled)
	rdvs.AssertExpectations(t)
}
