package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"carsure/internal/database"
	"carsure/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func newAppointment(workshopID int64, date, slot string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		WorkshopID: workshopID,
		CarID:      7,
		OwnerID:    20,
		Date:       date,
		Time:       slot,
		Status:     status,
	}
}

func TestCreate_RejectsActiveDuplicate(t *testing.T) {
	repo := NewAppointmentRepository(newTestDB(t))
	ctx := context.Background()

	first := newAppointment(1, "2026-09-10", "10:00", domain.StatusEnAttente)
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	second := newAppointment(1, "2026-09-10", "10:00", domain.StatusEnAttente)
	assert.ErrorIs(t, repo.Create(ctx, second), ErrSlotTaken)

	// same slot at another workshop is unrelated
	other := newAppointment(2, "2026-09-10", "10:00", domain.StatusEnAttente)
	assert.NoError(t, repo.Create(ctx, other))
}

func TestCreate_ReleasedSlotIsFreeAgain(t *testing.T) {
	repo := NewAppointmentRepository(newTestDB(t))
	ctx := context.Background()

	first := newAppointment(1, "2026-09-10", "10:00", domain.StatusEnAttente)
	require.NoError(t, repo.Create(ctx, first))

	swapped, err := repo.UpdateStatusIf(ctx, first.ID, domain.StatusEnAttente, domain.StatusRefused)
	require.NoError(t, err)
	require.True(t, swapped)

	// refused appointments no longer hold the slot, the partial index allows a
	// fresh active row
	second := newAppointment(1, "2026-09-10", "10:00", domain.StatusEnAttente)
	assert.NoError(t, repo.Create(ctx, second))
}

func TestUpdateStatusIf_CompareAndSwap(t *testing.T) {
	repo := NewAppointmentRepository(newTestDB(t))
	ctx := context.Background()

	a := newAppointment(1, "2026-09-10", "10:00", domain.StatusEnAttente)
	require.NoError(t, repo.Create(ctx, a))

	swapped, err := repo.UpdateStatusIf(ctx, a.ID, domain.StatusEnAttente, domain.StatusAccepted)
	require.NoError(t, err)
	assert.True(t, swapped)

	// the row already moved, the stale expectation matches nothing
	swapped, err = repo.UpdateStatusIf(ctx, a.ID, domain.StatusEnAttente, domain.StatusRefused)
	require.NoError(t, err)
	assert.False(t, swapped)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, got.Status)
}

func TestUpdateStatusIf_StampsCancelledAt(t *testing.T) {
	repo := NewAppointmentRepository(newTestDB(t))
	ctx := context.Background()

	a := newAppointment(1, "2026-08-01", "10:00", domain.StatusAccepted)
	require.NoError(t, repo.Create(ctx, a))

	swapped, err := repo.UpdateStatusIf(ctx, a.ID, domain.StatusAccepted, domain.StatusCancelled)
	require.NoError(t, err)
	require.True(t, swapped)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
}

func TestTakenTimes_OnlyActiveStatuses(t *testing.T) {
	repo := NewAppointmentRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAppointment(1, "2026-09-10", "11:00", domain.StatusAccepted)))
	require.NoError(t, repo.Create(ctx, newAppointment(1, "2026-09-10", "09:00", domain.StatusEnCours)))
	require.NoError(t, repo.Create(ctx, newAppointment(1, "2026-09-10", "10:00", domain.StatusCancelled)))
	require.NoError(t, repo.Create(ctx, newAppointment(1, "2026-09-11", "09:00", domain.StatusEnAttente)))

	taken, err := repo.TakenTimes(ctx, 1, "2026-09-10")

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, taken)
}

func TestListExpired(t *testing.T) {
	repo := NewAppointmentRepository(newTestDB(t))
	ctx := context.Background()

	past := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	today := time.Now().Format("2006-01-02")

	stale := newAppointment(1, past, "09:00", domain.StatusEnAttente)
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, newAppointment(1, past, "10:00", domain.StatusCancelled)))
	require.NoError(t, repo.Create(ctx, newAppointment(1, future, "09:00", domain.StatusAccepted)))

	otherOwner := newAppointment(2, past, "09:00", domain.StatusAccepted)
	otherOwner.OwnerID = 99
	require.NoError(t, repo.Create(ctx, otherOwner))

	all, err := repo.ListExpired(ctx, today, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.ListExpired(ctx, today, 20)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, stale.ID, mine[0].ID)
}

func TestUpdateImagesAndPDF(t *testing.T) {
	repo := NewAppointmentRepository(newTestDB(t))
	ctx := context.Background()

	a := newAppointment(1, "2026-09-10", "10:00", domain.StatusEnCours)
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, repo.UpdateImages(ctx, a.ID, []string{"/static/uploads/a.jpg", "/static/uploads/b.jpg"}))
	require.NoError(t, repo.UpdatePDF(ctx, a.ID, "/static/uploads/rapport.pdf"))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 2)
	assert.Equal(t, "/static/uploads/rapport.pdf", got.RapportPDF)
	assert.True(t, got.HasArtifacts())

	assert.ErrorIs(t, repo.UpdateImages(ctx, 9999, []string{"x"}), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdatePDF(ctx, 9999, "x"), gorm.ErrRecordNotFound)
}
