package value_objects

import "fmt"

type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionModerate Action = "moderate"
	// ActionAny matches every action in a policy.
	ActionAny Action = "*"
)

var validActions = map[Action]bool{
	ActionCreate:   true,
	ActionRead:     true,
	ActionUpdate:   true,
	ActionDelete:   true,
	ActionModerate: true,
	ActionAny:      true,
}

func NewAction(action string) (Action, error) {
	if action == "" {
		return "", fmt.Errorf("action cannot be empty")
	}

	a := Action(action)
	if !validActions[a] {
		return "", fmt.Errorf("invalid action: %s", action)
	}

	return a, nil
}

func (a Action) String() string {
	return string(a)
}
