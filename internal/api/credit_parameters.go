package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"credit_scoring/internal/credit"  // Credit parameters service
	"credit_scoring/internal/scoring" // Submission payloads

	"github.com/gin-gonic/gin" // Gin web framework
)

// parseID reads the numeric record ID from the path
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Credit parameters not found"})
		return 0, false
	}
	return uint(id), true
}

// bindInput decodes the JSON body into a raw submission
func bindInput(c *gin.Context) (scoring.Input, bool) {
	var in scoring.Input
	if err := c.ShouldBindJSON(&in); err != nil || in == nil {
		// If binding fails, return bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return nil, false
	}
	return in, true
}

// CreateCreditParametersHandler validates, grades and stores a submission
func CreateCreditParametersHandler(svc *credit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindInput(c)
		if !ok {
			return
		}
		rec, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rec) // Return the created record with its grade
	}
}

// ListCreditParametersHandler returns a page of records
func ListCreditParametersHandler(svc *credit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c)
		out, err := svc.List(c.Request.Context(), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetCreditParametersHandler returns a single record
func GetCreditParametersHandler(svc *credit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		rec, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// UpdateCreditParametersHandler replaces (PUT) or patches (PATCH) a record
func UpdateCreditParametersHandler(svc *credit.Service, partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		in, ok := bindInput(c)
		if !ok {
			return
		}
		rec, err := svc.Update(c.Request.Context(), id, in, partial)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// DeleteCreditParametersHandler removes a record
func DeleteCreditParametersHandler(svc *credit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// pagination reads page and page_size, falling back to 1 and 20
func pagination(c *gin.Context) (int, int) {
	page := 1                          // Default page number
	pageSize := credit.DefaultPageSize // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= credit.MaxPageSize {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}
