package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func responsePtr(r UserResponse) *UserResponse { return &r }

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from *UserResponse
		to   UserResponse
		want bool
	}{
		{"new to email_sent", nil, UserResponseEmailSent, true},
		{"new to accepted", nil, UserResponseAccepted, true},
		{"new to dismissed", nil, UserResponseDismissed, true},
		{"email_sent to completed", responsePtr(UserResponseEmailSent), UserResponseCompleted, true},
		{"email_sent to email_sent", responsePtr(UserResponseEmailSent), UserResponseEmailSent, false},
		{"accepted to completed", responsePtr(UserResponseAccepted), UserResponseCompleted, true},
		{"accepted to email_sent", responsePtr(UserResponseAccepted), UserResponseEmailSent, false},
		{"accepted to accepted", responsePtr(UserResponseAccepted), UserResponseAccepted, false},
		{"dismissed is terminal", responsePtr(UserResponseDismissed), UserResponseAccepted, false},
		{"completed is terminal", responsePtr(UserResponseCompleted), UserResponseDismissed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseUserResponse_RejectsSystemOnlyValues(t *testing.T) {
	_, ok := ParseUserResponse("email_sent")
	assert.False(t, ok)
	_, ok = ParseUserResponse("bogus")
	assert.False(t, ok)

	r, ok := ParseUserResponse("accepted")
	assert.True(t, ok)
	assert.Equal(t, UserResponseAccepted, r)
}

func TestSeverityValid(t *testing.T) {
	assert.True(t, SeverityCritical.Valid())
	assert.True(t, SeverityLow.Valid())
	assert.False(t, Severity("severe").Valid())
}

func TestDefaultCrisisResources(t *testing.T) {
	r := DefaultCrisisResources()
	assert.Equal(t, "988", r.CrisisHotline)
	assert.Equal(t, "911", r.Emergency)
	assert.Equal(t, "741741", r.TextLine)
	assert.Equal(t, "1-833-9-HELP4MOMS", r.MaternalHotline)
	assert.NotEmpty(t, r.LocalResources)
}
