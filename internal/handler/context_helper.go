package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-scheduling-api/internal/middleware"
	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return claims
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// termQuery reads the optional academicYear and semester query parameters.
func termQuery(c *gin.Context) (string, int, error) {
	year := strings.TrimSpace(c.Query("academicYear"))
	semester, err := intQuery(c, "semester")
	if err != nil {
		return "", 0, err
	}
	return year, semester, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, name+" must be a number")
	}
	return value, nil
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
