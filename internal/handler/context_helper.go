package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID carries the authenticated student's ID. Authentication itself
// happens upstream at the gateway; this service trusts the header.
const HeaderUserID = "X-User-ID"

func userIDFromContext(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderUserID))
}
