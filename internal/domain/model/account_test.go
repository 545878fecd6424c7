package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := CreateAccountRequest{Email: "user@example.com", Password: "hunter2hunter2", DisplayName: "User"}
	require.NoError(t, ok.Validate())

	short := CreateAccountRequest{Email: "user@example.com", Password: "short"}
	assert.ErrorContains(t, short.Validate(), "at least 8 characters")

	noEmail := CreateAccountRequest{Password: "hunter2hunter2"}
	assert.ErrorContains(t, noEmail.Validate(), "email is required")
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	t.Parallel()

	empty := UpdateProfileRequest{}
	assert.ErrorContains(t, empty.Validate(), "at least one field")

	name := "Dr. Priya S."
	ok := UpdateProfileRequest{DisplayName: &name}
	require.NoError(t, ok.Validate())

	long := strings.Repeat("x", 200)
	bad := UpdateProfileRequest{DisplayName: &long}
	assert.ErrorContains(t, bad.Validate(), "cannot exceed 120")
}
