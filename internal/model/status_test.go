package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "pending", want: StatusPending},
		{in: "APPROVED", want: StatusApproved},
		{in: " Rejected ", want: StatusRejected},
		{in: "declined", want: StatusRejected},
		{in: "on-hold", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestStrictPolicy(t *testing.T) {
	p := StrictPolicy{}

	assert.True(t, p.Allowed(StatusPending, StatusApproved))
	assert.True(t, p.Allowed(StatusPending, StatusRejected))
	assert.True(t, p.Allowed(StatusApproved, StatusRejected))
	assert.True(t, p.Allowed(StatusRejected, StatusApproved))
	assert.True(t, p.Allowed(StatusApproved, StatusApproved))
	assert.False(t, p.Allowed(StatusApproved, StatusPending))
	assert.False(t, p.Allowed(StatusRejected, StatusPending))
}

func TestPolicyByName(t *testing.T) {
	assert.IsType(t, StrictPolicy{}, PolicyByName("STRICT"))
	assert.IsType(t, PermissivePolicy{}, PolicyByName("permissive"))
	assert.IsType(t, PermissivePolicy{}, PolicyByName(""))
	assert.True(t, PermissivePolicy{}.Allowed(StatusRejected, StatusPending))
}

func TestFullName(t *testing.T) {
	a := &Applicant{Profile: Profile{FirstName: "  Ana ", LastName: "Cruz"}}
	assert.Equal(t, "Ana Cruz", a.FullName())

	a.LastName = "   "
	assert.Equal(t, "Ana", a.FullName())

	a.FirstName = ""
	a.LastName = "Cruz"
	assert.Equal(t, "Cruz", a.FullName())
}
