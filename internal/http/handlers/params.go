package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
)

const msgNotFound = "not found"

// pathID parses a positive int64 path parameter; anything else is a 404.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

// queryFlag treats "1" and "true" as set.
func queryFlag(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// queryInt reads an optional non-negative integer; a malformed value writes
// a 400 and returns false.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.RespondError(c, http.StatusBadRequest, name+": a valid non-negative integer is required")
		return 0, false
	}
	return n, true
}

// bindJSON decodes the request body; decode failures become a 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}
