package api

import (
	"errors"
	"net/http"

	"food-pick/store"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code string, err error) {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": code, "detail": detail})
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "bad_request", err)
}

// respondStoreError maps service errors: ErrNotFound to 404, anything else
// to 500 with the cause logged rather than echoed.
func (h *MenuHandler) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "not_found", store.ErrNotFound)
		return
	}
	h.log.Error("request failed", "path", c.FullPath(), "error", err)
	respondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
}
