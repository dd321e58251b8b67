package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"credit_scoring/internal/credit"    // Credit parameters service
	"credit_scoring/internal/predictor" // Artifact errors
	"credit_scoring/internal/scoring"   // Validation errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// respondError maps service errors onto status codes without exposing internals
func respondError(c *gin.Context, err error) {
	var verr *scoring.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, credit.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Credit parameters not found"})
	case errors.Is(err, credit.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Credit parameters already exist for this user"})
	case errors.Is(err, predictor.ErrArtifactMissing):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Credit model unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
