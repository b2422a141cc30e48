package mappers

import (
	"fmt"

	"github.com/unical-dimes/professors/internal/domain/permission"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
)

// RoleToEntity converts a role row into the domain role.
func RoleToEntity(model *models.RoleModel) (*permission.Role, error) {
	if model == nil {
		return nil, nil
	}
	role, err := permission.ReconstructRole(model.ID, model.Name, model.Description, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct role: %w", err)
	}
	return role, nil
}

func RolesToEntities(rows []*models.RoleModel) ([]*permission.Role, error) {
	roles := make([]*permission.Role, 0, len(rows))
	for _, row := range rows {
		role, err := RoleToEntity(row)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
