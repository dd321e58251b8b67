package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Timestamps in logs

	"credit_scoring/internal/domain" // Importing domain models
	"credit_scoring/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// UserResponse represents the user data returned by the users endpoints
type UserResponse struct {
	ID          uint      `json:"id"`           // User ID
	UUID        string    `json:"uuid"`         // Public identifier
	Email       string    `json:"email"`        // Email
	FirstName   string    `json:"first_name"`   // First name
	LastName    string    `json:"last_name"`    // Last name
	PhoneNumber string    `json:"phone_number"` // Contact number
	HasCredit   bool      `json:"has_credit"`   // Owns a credit parameters record
	CreatedAt   time.Time `json:"created_at"`   // Creation time
}

// usersPage is the cached shape of a users page
type usersPage struct {
	Users      []UserResponse `json:"users"`       // List of users
	Page       int            `json:"page"`        // Current page
	PageSize   int            `json:"page_size"`   // Page size
	Total      int64          `json:"total"`       // Total number of users
	TotalPages int            `json:"total_pages"` // Total pages
	Cached     bool           `json:"cached"`      // Served from cache
}

// ListUsersHandler returns active users and whether each owns a credit record
func ListUsersHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		// Create a cache key based on pagination parameters
		cacheKey := utils.KeyUsersList + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached usersPage
		// If cached data found, return it
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			cached.Cached = true // Indicate response is from cache
			c.JSON(http.StatusOK, cached)
			return
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		if err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.WithContext(ctx).Order("id").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		// Find which of these users own a credit record
		ids := make([]uint, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var owners []uint
		if len(ids) > 0 {
			if err := db.WithContext(ctx).Model(&domain.CreditParameters{}).Where("user_id IN ?", ids).Pluck("user_id", &owners).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
				return
			}
		}
		hasCredit := make(map[uint]bool, len(owners))
		for _, id := range owners {
			hasCredit[id] = true
		}
		resp := usersPage{
			Users:      make([]UserResponse, len(users)),      // List of users
			Page:       page,                                  // Current page
			PageSize:   pageSize,                              // Page size
			Total:      total,                                 // Total number of users
			TotalPages: (int(total) + pageSize - 1) / pageSize, // Total pages
		}
		// Map users to response format
		for i, u := range users {
			resp.Users[i] = UserResponse{
				ID:          u.ID,            // User ID
				UUID:        u.UUID.String(), // Public identifier
				Email:       u.Email,         // Email
				FirstName:   u.FirstName,     // First name
				LastName:    u.LastName,      // Last name
				PhoneNumber: u.PhoneNumber,   // Contact number
				HasCredit:   hasCredit[u.ID], // Owns a credit record
				CreatedAt:   u.CreatedAt,     // Creation time
			}
		}
		// Cache the response for future requests
		_ = cache.Set(ctx, cacheKey, resp)
		c.JSON(http.StatusOK, resp) // Return the response
	}
}

// DeleteUserHandler soft-deletes a user; their credit record is kept
func DeleteUserHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(&user).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to delete user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,                         // User ID
			"email":     user.Email,                      // User email
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("User soft-deleted")
		_ = cache.DeletePrefix(c.Request.Context(), utils.KeyUsersList) // Invalidate users pages
		c.Status(http.StatusNoContent)
	}
}
