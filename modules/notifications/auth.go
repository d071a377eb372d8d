package notifications

import (
	"context"

	"github.com/dmitrymomot/notifyhub/notification"
	"github.com/dmitrymomot/notifyhub/pkg/jwt"
)

// AccessClaims extends the registered JWT claims with the caller's role.
// Subject carries the recipient identifier.
type AccessClaims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

// identity extracts the authenticated recipient id and role from the request
// context populated by the JWT middleware.
func identity(ctx context.Context) (string, notification.Role, bool) {
	claims, ok := jwt.GetClaims[AccessClaims](ctx)
	if !ok || claims.Subject == "" {
		return "", "", false
	}
	return claims.Subject, notification.Role(claims.Role), true
}

// canStream reports whether the role is authorized to open a notification
// stream and use the recipient-facing endpoints.
func canStream(role notification.Role) bool {
	return role == notification.RoleOperator || role == notification.RoleAdmin
}
