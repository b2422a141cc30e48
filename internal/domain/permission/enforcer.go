package permission

// PermissionEnforcer evaluates resource/action policies attached to role names.
type PermissionEnforcer interface {
	Enforce(role string, resource string, action string) (bool, error)
	AddPolicy(role string, resource string, action string) error
	RemovePolicy(role string, resource string, action string) error
	GetPolicies() ([][]string, error)
	LoadPolicy() error
}
