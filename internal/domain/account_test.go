package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "joao.silva", NormalizeHandle("  Joao.Silva "))
	assert.Equal(t, "admin.master", NormalizeHandle("ADMIN.MASTER"))
}

func TestValidHandle(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		want   bool
	}{
		{name: "name dot surname", handle: "joao.silva", want: true},
		{name: "digits allowed", handle: "usuario2.teste", want: true},
		{name: "no dot", handle: "joao", want: false},
		{name: "two dots", handle: "joao.da.silva", want: false},
		{name: "uppercase rejected before normalization", handle: "Joao.Silva", want: false},
		{name: "empty segment", handle: "joao.", want: false},
		{name: "leading dot", handle: ".silva", want: false},
		{name: "space inside", handle: "joao .silva", want: false},
		{name: "empty", handle: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidHandle(tt.handle))
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleRequester.Valid())
	assert.True(t, RoleAttendant.Valid())
	assert.True(t, RoleAdministrator.Valid())
	assert.False(t, Role(3).Valid())
	assert.False(t, Role(-1).Valid())
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleRequester.IsStaff())
	assert.True(t, RoleAttendant.IsStaff())
	assert.True(t, RoleAdministrator.IsStaff())
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "REQUESTER", RoleRequester.String())
	assert.Equal(t, "ATTENDANT", RoleAttendant.String())
	assert.Equal(t, "ADMINISTRATOR", RoleAdministrator.String())
	assert.Equal(t, "UNKNOWN", Role(7).String())
}
