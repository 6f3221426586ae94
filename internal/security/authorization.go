package security

import (
	"fmt"
	"log/slog"
)

// Role represents a user role
type Role string

const (
	RoleProprietaire Role = "proprietaire"
	RoleGestionnaire Role = "gestionnaire"
	RoleLecteur      Role = "lecteur"
)

// Permission represents an action permission
type Permission string

const (
	PermConsulter         Permission = "consulter"
	PermGererBiens        Permission = "gerer_biens"
	PermGererChambres     Permission = "gerer_chambres"
	PermGererLocataires   Permission = "gerer_locataires"
	PermGererContrats     Permission = "gerer_contrats"
	PermEncaisserLoyers   Permission = "encaisser_loyers"
	PermGererDocuments    Permission = "gerer_documents"
	PermGererUtilisateurs Permission = "gerer_utilisateurs"
)

// RolePermissions maps roles to their permissions. Proprietaire can do
// everything, gestionnaire manages the portfolio, lecteur reads only.
var RolePermissions = map[Role][]Permission{
	RoleProprietaire: {
		PermConsulter,
		PermGererBiens,
		PermGererChambres,
		PermGererLocataires,
		PermGererContrats,
		PermEncaisserLoyers,
		PermGererDocuments,
		PermGererUtilisateurs,
	},
	RoleGestionnaire: {
		PermConsulter,
		PermGererBiens,
		PermGererChambres,
		PermGererLocataires,
		PermGererContrats,
		PermEncaisserLoyers,
		PermGererDocuments,
	},
	RoleLecteur: {
		PermConsulter,
	},
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("permission denied: %s role cannot %s", role, permission)
	}
	return nil
}

// GetRolePermissions returns all permissions for a role
func (as *AuthorizationService) GetRolePermissions(role Role) []Permission {
	return RolePermissions[role]
}

// CanMutate reports whether a role may perform write operations at all.
func (as *AuthorizationService) CanMutate(role Role) bool {
	perms := RolePermissions[role]
	for _, p := range perms {
		if p != PermConsulter {
			return true
		}
	}
	return false
}
