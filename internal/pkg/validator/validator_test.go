package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	WorkshopID int64  `validate:"required"`
	Date       string `validate:"required"`
	Email      string `validate:"omitempty,email"`
}

func TestValidate_Passes(t *testing.T) {
	assert.Nil(t, Validate(sampleRequest{WorkshopID: 1, Date: "2026-09-10"}))
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	msgs := Validate(sampleRequest{Email: "not-an-email"})

	assert.Equal(t, []string{
		"workshopid is required",
		"date is required",
		"email must be a valid email",
	}, msgs)
}
