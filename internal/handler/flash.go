package handler

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "flash"

// setFlash stores a one-shot notice for the next dashboard render.
// Base64 keeps arbitrary text cookie-safe.
func setFlash(c *gin.Context, message string) {
	encoded := base64.URLEncoding.EncodeToString([]byte(message))
	c.SetCookie(flashCookieName, encoded, 60, "/", "", false, true)
}

// PopFlash returns and clears the pending flash notice, if any.
func PopFlash(c *gin.Context) string {
	encoded, err := c.Cookie(flashCookieName)
	if err != nil || encoded == "" {
		return ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// redirectWithFlash sends the form client back to the dashboard with a
// transient notice.
func redirectWithFlash(c *gin.Context, message string) {
	setFlash(c, message)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// isFormClient reports whether the request came from a plain HTML form
// rather than an async caller. Async callers send JSON or mark the
// request with X-Requested-With.
func isFormClient(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return false
	}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		return false
	}
	return true
}

// flashForError renders a service error as a short user-facing notice.
func flashForError(err error) string {
	_, resp := serviceErrorResponse(err)
	return resp.Message
}

// Dashboard is the redirect target for form clients. It pops the
// pending flash notice; the frontend renders the rest.
func Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flash": PopFlash(c)})
}
