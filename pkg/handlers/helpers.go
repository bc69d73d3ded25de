package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"techmart-api/pkg/services"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case services.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrSuggestionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrSuggestionNotPending):
		status = http.StatusConflict
	case errors.Is(err, services.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// parseIDParam は数値のパスパラメータを取得します。
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "無効なIDです: " + c.Param(name)})
		return 0, false
	}
	return id, true
}

// queryInt は整数のクエリパラメータを取得します（未指定はデフォルト値）。
func queryInt(c *gin.Context, name string, defaultValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "無効な " + name + " です: " + raw})
		return 0, false
	}
	return n, true
}
