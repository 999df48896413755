// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/dto"
)

// OwnerHeader is the request header carrying the owner id. Authentication is
// handled upstream of this service; the ledger only requires a well-formed id.
const OwnerHeader = "X-Owner-ID"

type contextKey string

// OwnerIDKey is the Gin context key holding the parsed owner id.
const OwnerIDKey contextKey = "ownerID"

// OwnerMiddleware parses and validates the owner id header.
type OwnerMiddleware struct{}

// NewOwnerMiddleware creates a new owner middleware instance.
func NewOwnerMiddleware() *OwnerMiddleware {
	return &OwnerMiddleware{}
}

// Handle returns a Gin handler that rejects requests without a valid owner id.
func (m *OwnerMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(OwnerHeader)
		if raw == "" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Missing " + OwnerHeader + " header",
				Code:  string(domainerror.ErrCodeInvalidOwnerID),
			})
			c.Abort()
			return
		}

		ownerID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid owner id",
				Code:  string(domainerror.ErrCodeInvalidOwnerID),
			})
			c.Abort()
			return
		}

		c.Set(string(OwnerIDKey), ownerID)
		c.Next()
	}
}

// GetOwnerIDFromContext extracts the owner ID from the Gin context.
func GetOwnerIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, exists := c.Get(string(OwnerIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := ownerID.(uuid.UUID)
	return id, ok
}
