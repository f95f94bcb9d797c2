package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// accountNameKey stores the authenticated caller, which is the JWT subject.
// Transfers and account reads address accounts by their unique name.
const accountNameKey = contextKey("accountName")

// WithAccountName returns a copy of ctx carrying the authenticated account name.
func WithAccountName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, accountNameKey, name)
}

// GetAccountNameFromContext retrieves the authenticated account name.
// It returns the name and a boolean indicating if it was found.
func GetAccountNameFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(accountNameKey)); exists {
		name, ok := val.(string)
		return name, ok && name != ""
	}
	name, ok := c.Request.Context().Value(accountNameKey).(string)
	return name, ok && name != ""
}
