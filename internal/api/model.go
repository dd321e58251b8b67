package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"credit_scoring/internal/predictor" // Model artifact handle

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// ReloadModelHandler re-reads the model artifact after it has been replaced
func ReloadModelHandler(handle *predictor.Handle) gin.HandlerFunc {
	return func(c *gin.Context) {
		model, err := handle.Reload()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  handle.Path(), // Artifact path
				"error": err.Error(),   // Error message
			}).Error("Model reload failed")
			if errors.Is(err, predictor.ErrArtifactMissing) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Credit model unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Credit model could not be loaded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"version":  model.Version,       // Artifact version
			"features": len(model.Features), // Expected feature count
			"classes":  model.Classes,       // Output labels
		})
	}
}

// HealthHandler reports whether the database is reachable
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
