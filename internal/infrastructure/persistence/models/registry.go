package models

// All lists every persistence model in dependency order for auto-migration.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&RoleModel{},
		&UserRoleModel{},
		&SessionModel{},
		&TeacherModel{},
		&CourseModel{},
		&ReviewModel{},
	}
}
