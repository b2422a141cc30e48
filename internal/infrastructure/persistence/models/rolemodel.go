package models

import (
	"time"

	"github.com/unical-dimes/professors/internal/shared/constants"
)

type RoleModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"uniqueIndex;not null;size:64"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

func (RoleModel) TableName() string {
	return constants.TableRoles
}

// UserRoleModel is the explicit user/role join; each pair appears once.
type UserRoleModel struct {
	ID         uint      `gorm:"primarykey"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_role;index"`
	RoleID     uint      `gorm:"not null;uniqueIndex:idx_user_role"`
	AssignedAt time.Time `gorm:"not null"`
}

func (UserRoleModel) TableName() string {
	return constants.TableUserRoles
}
