package permission

import (
	"fmt"

	"github.com/unical-dimes/professors/internal/domain/permission"
	vo "github.com/unical-dimes/professors/internal/domain/permission/value_objects"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

func policy(role authorization.UserRole, resource vo.Resource, action vo.Action) []string {
	return []string{string(role), resource.String(), action.String()}
}

// DefaultPolicies grants admin everything, lets editors curate the catalog
// and lets viewers read it and write reviews.
func DefaultPolicies() [][]string {
	return [][]string{
		policy(authorization.RoleAdmin, "*", vo.ActionAny),

		policy(authorization.RoleEditor, vo.ResourceTeacher, vo.ActionCreate),
		policy(authorization.RoleEditor, vo.ResourceTeacher, vo.ActionUpdate),
		policy(authorization.RoleEditor, vo.ResourceTeacher, vo.ActionRead),
		policy(authorization.RoleEditor, vo.ResourceCourse, vo.ActionCreate),
		policy(authorization.RoleEditor, vo.ResourceCourse, vo.ActionRead),
		policy(authorization.RoleEditor, vo.ResourceReview, vo.ActionCreate),
		policy(authorization.RoleEditor, vo.ResourceReview, vo.ActionRead),
		policy(authorization.RoleEditor, vo.ResourceReview, vo.ActionModerate),

		policy(authorization.RoleViewer, vo.ResourceTeacher, vo.ActionRead),
		policy(authorization.RoleViewer, vo.ResourceCourse, vo.ActionRead),
		policy(authorization.RoleViewer, vo.ResourceReview, vo.ActionCreate),
		policy(authorization.RoleViewer, vo.ResourceReview, vo.ActionRead),
		policy(authorization.RoleViewer, vo.ResourceReview, vo.ActionModerate),
	}
}

// InitDefaultPolicies adds the default policies; existing rules are left alone.
func InitDefaultPolicies(enforcer permission.PermissionEnforcer, log logger.Interface) error {
	for _, p := range DefaultPolicies() {
		if err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			log.Errorw("failed to add default policy",
				"error", err,
				"role", p[0],
				"resource", p[1],
				"action", p[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
	}

	log.Infow("default permissions initialized", "count", len(DefaultPolicies()))
	return nil
}
