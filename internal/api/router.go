package api

import (
	"net/http" // HTTP handler adapter

	"credit_scoring/internal/credit"     // Credit parameters service
	"credit_scoring/internal/middleware" // Custom package for middleware
	"credit_scoring/internal/predictor"  // Model artifact handle
	"credit_scoring/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Deps are the collaborators the HTTP surface needs
type Deps struct {
	DB        *gorm.DB            // Database handle
	Service   *credit.Service     // Credit parameters service
	Handle    *predictor.Handle   // Model artifact handle
	Cache     *utils.Cache        // Response cache
	Metrics   http.Handler        // Prometheus exposition, optional
	Telemetry *middleware.Metrics // Request metrics, optional
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New() // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(d.Telemetry))

	// Credit parameters routes
	credits := r.Group("/calculate/credit-parameters")
	credits.POST("", CreateCreditParametersHandler(d.Service))            // Create and grade
	credits.GET("", ListCreditParametersHandler(d.Service))               // List records
	credits.GET("/:id", GetCreditParametersHandler(d.Service))            // Retrieve one record
	credits.PUT("/:id", UpdateCreditParametersHandler(d.Service, false))  // Full update
	credits.PATCH("/:id", UpdateCreditParametersHandler(d.Service, true)) // Partial update
	credits.DELETE("/:id", DeleteCreditParametersHandler(d.Service))      // Hard delete

	// User routes
	r.GET("/users", ListUsersHandler(d.DB, d.Cache))         // List users
	r.DELETE("/users/:id", DeleteUserHandler(d.DB, d.Cache)) // Soft delete a user

	// Operational routes
	r.POST("/admin/model/reload", ReloadModelHandler(d.Handle)) // Re-read the model artifact
	r.GET("/healthz", HealthHandler(d.DB))                      // Liveness and DB check
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics)) // Prometheus metrics
	}
	return r
}
