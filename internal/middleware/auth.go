package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"tutorhub/internal/domain"
	jwtsvc "tutorhub/internal/pkg/jwt"
	"tutorhub/internal/pkg/response"
	"tutorhub/internal/repository"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token and stores user_id/role in the
// request context.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// PartyChecker verifies the caller actually is one of the two parties on
// a slot. Hiding controls client-side is not an authorization model:
// every party endpoint passes through here server-side.
type PartyChecker struct {
	slots *repository.SlotRepository
}

func NewPartyChecker(slots *repository.SlotRepository) *PartyChecker {
	return &PartyChecker{slots: slots}
}

// CheckSlotParty expects a slot ID in URL param "id". Admins pass; any
// other caller must be the slot's tutor or learner. The loaded slot is
// stashed in the context so handlers don't fetch it twice.
func (pc *PartyChecker) CheckSlotParty() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid slot ID")
			c.Abort()
			return
		}

		slot, err := pc.slots.GetByID(c.Request.Context(), slotID)
		if err != nil {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Slot not found")
			c.Abort()
			return
		}

		role := c.GetString("role")
		if role != string(domain.RoleAdmin) && slot.TutorID != userID && slot.LearnerID != userID {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not a party on this slot")
			c.Abort()
			return
		}

		c.Set("slot", slot)
		c.Next()
	}
}

// SlotFromContext returns the slot stashed by CheckSlotParty.
func SlotFromContext(c *gin.Context) (*domain.Slot, bool) {
	v, ok := c.Get("slot")
	if !ok {
		return nil, false
	}
	slot, ok := v.(*domain.Slot)
	return slot, ok
}
