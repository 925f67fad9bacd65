package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxUserName    = "user_name"
	CtxUserRole    = "user_role"
)

// RoleGovernor marks platform staff who review projects and fund releases.
const RoleGovernor = "governor"

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by the auth middleware
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// IsGovernor reports whether the authenticated user carries the governor role.
func IsGovernor(c *gin.Context) bool {
	return strings.EqualFold(strings.TrimSpace(c.GetString(CtxUserRole)), RoleGovernor)
}

// ActorFrom builds the acting user for service calls.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:          UserFirebaseUID(c),
		DisplayName: strings.TrimSpace(c.GetString(CtxUserName)),
		IsGovernor:  IsGovernor(c),
	}
}
