package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusEnAttente, StatusAccepted, true},
		{StatusEnAttente, StatusRefused, true},
		{StatusEnAttente, StatusEnCours, false},
		{StatusEnAttente, StatusFinish, false},
		{StatusRefused, StatusAccepted, true},
		{StatusRefused, StatusEnAttente, true},
		{StatusRefused, StatusFinish, false},
		{StatusAccepted, StatusEnCours, true},
		{StatusAccepted, StatusFinish, false},
		{StatusAccepted, StatusRefused, false},
		{StatusEnCours, StatusFinish, true},
		{StatusEnCours, StatusAccepted, false},
		{StatusFinish, StatusEnAttente, false},
		{StatusCancelled, StatusAccepted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusClasses(t *testing.T) {
	assert.True(t, StatusEnAttente.IsActive())
	assert.True(t, StatusAccepted.IsActive())
	assert.True(t, StatusEnCours.IsActive())
	assert.False(t, StatusRefused.IsActive())
	assert.False(t, StatusFinish.IsActive())
	assert.False(t, StatusCancelled.IsActive())

	assert.True(t, StatusFinish.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusRefused.IsTerminal())
}

func TestHasArtifacts(t *testing.T) {
	a := &Appointment{}
	assert.False(t, a.HasArtifacts())

	a.Images = []string{"/static/uploads/a.jpg"}
	assert.False(t, a.HasArtifacts())

	a.RapportPDF = "/static/uploads/r.pdf"
	assert.True(t, a.HasArtifacts())

	a.Images = nil
	assert.False(t, a.HasArtifacts())
}
