package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermits(t *testing.T) {
	tests := []struct {
		name    string
		roles   []string
		allowed []UserRole
		want    bool
	}{
		{"empty allowed set admits anyone", nil, nil, true},
		{"empty allowed set admits role holder", []string{"viewer"}, []UserRole{}, true},
		{"viewer denied admin-only", []string{"viewer"}, AdminOnly, false},
		{"viewer admitted to member endpoint", []string{"viewer"}, AnyMember, true},
		{"editor admitted to content endpoint", []string{"editor"}, ContentManager, true},
		{"multi-role intersection", []string{"viewer", "admin"}, AdminOnly, true},
		{"no roles denied when set is non-empty", nil, AnyMember, false},
		{"case sensitive", []string{"Admin"}, AdminOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Permits(tt.roles, tt.allowed))
		})
	}
}

func TestDefaultRoles(t *testing.T) {
	assert.Equal(t, []string{"admin", "editor", "viewer"}, Names([]UserRole{RoleViewer, RoleAdmin, RoleEditor}))
	assert.Len(t, DefaultRoles, 3)
	assert.Equal(t, RoleViewer, DefaultRole)
	assert.True(t, HasRole([]string{"editor"}, RoleEditor))
}
