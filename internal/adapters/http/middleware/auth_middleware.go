package middleware

import (
	"strings"

	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/domain"
	"saccohub/internal/pkg/jwt"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set member info in context
		c.Locals("memberID", claims.MemberID)
		c.Locals("memberNo", claims.MemberNo)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

// RequireRole creates role-based authorization middleware. The member's
// current role and membership state are read from the store on every
// request, so a suspension or demotion takes effect immediately even while
// an older access token is still circulating.
func RequireRole(memberRepo repositories.MemberRepository, allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, ok := c.Locals("memberID").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		member, err := memberRepo.GetByID(c.Context(), memberID)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !member.IsActive || member.MembershipStatus != domain.MembershipApproved {
			return response.Forbidden(c, "Membership is not in good standing")
		}

		for _, allowedRole := range allowedRoles {
			if member.Role == allowedRole {
				c.Locals("role", member.Role)
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly(memberRepo repositories.MemberRepository) fiber.Handler {
	return RequireRole(memberRepo, domain.RoleAdmin)
}

// TreasurerOrAdmin middleware allows TREASURER or ADMIN roles
func TreasurerOrAdmin(memberRepo repositories.MemberRepository) fiber.Handler {
	return RequireRole(memberRepo, domain.RoleTreasurer, domain.RoleAdmin)
}

// MemberID extracts the authenticated member ID from the request context
func MemberID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("memberID").(uint)
	return id, ok
}
