package permission

import (
	"time"

	"github.com/unical-dimes/professors/internal/shared/utils/setutil"
)

// UserRole is one row of the explicit user/role join. The pair is unique.
type UserRole struct {
	UserID     uint
	RoleID     uint
	AssignedAt time.Time
}

// DiffAssignments returns the role IDs to add and to remove so that current
// becomes desired. Both results are in the order they appear in their input.
func DiffAssignments(current, desired []uint) (toAdd, toRemove []uint) {
	have := setutil.NewUintSet(current...)
	want := setutil.NewUintSet()
	for _, id := range desired {
		if !want.Add(id) {
			continue
		}
		if !have.Has(id) {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !want.Has(id) {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
