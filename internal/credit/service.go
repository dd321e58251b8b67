// Package credit stores credit parameter records and grades them on creation.
package credit

import (
	"context" // Request scoping
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"strconv" // Cache keys

	"credit_scoring/internal/domain"    // Importing domain models
	"credit_scoring/internal/predictor" // Credit grading
	"credit_scoring/internal/scoring"   // Validation
	"credit_scoring/internal/users"     // User resolution
	"credit_scoring/internal/utils"     // Cache helpers

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Association control
)

var (
	ErrNotFound = errors.New("credit parameters not found")
	ErrConflict = errors.New("credit parameters already exist for this user")
)

// User field messages
const (
	MsgUserRequired = "user is required."
	MsgUserInvalid  = "Enter a valid email address."
	MsgUserUnknown  = "User with this email does not exist."
)

// Pagination limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one page of records
type Page struct {
	Items      []Record `json:"results"`     // Records on this page
	Page       int      `json:"page"`        // Current page
	PageSize   int      `json:"page_size"`   // Page size
	Total      int64    `json:"total"`       // Total number of records
	TotalPages int      `json:"total_pages"` // Total pages
	Cached     bool     `json:"cached"`      // Served from cache
}

// Service implements create, read, update and delete over credit parameters
type Service struct {
	db        *gorm.DB
	predictor *predictor.Predictor
	cache     *utils.Cache
}

// NewService wires a Service; cache may be nil
func NewService(db *gorm.DB, p *predictor.Predictor, cache *utils.Cache) *Service {
	return &Service{db: db, predictor: p, cache: cache}
}

// userEmail extracts the submitted user email, if any
func userEmail(in scoring.Input) (string, bool, error) {
	v, ok := in[scoring.FieldUser]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, users.ErrInvalidEmail
	}
	return s, true, nil
}

// userFieldError turns a resolver error into a field error on user
func userFieldError(err error) *scoring.ValidationError {
	switch {
	case errors.Is(err, users.ErrEmailRequired):
		return scoring.NewValidationError(scoring.FieldUser, MsgUserRequired)
	case errors.Is(err, users.ErrInvalidEmail):
		return scoring.NewValidationError(scoring.FieldUser, MsgUserInvalid)
	case errors.Is(err, users.ErrUserNotFound):
		return scoring.NewValidationError(scoring.FieldUser, MsgUserUnknown)
	}
	return nil
}

// mergeErrors folds a user field error into the validation result
func mergeErrors(fieldErr error, userErr *scoring.ValidationError) error {
	if userErr == nil {
		return fieldErr
	}
	var verr *scoring.ValidationError
	if errors.As(fieldErr, &verr) {
		for f, msg := range userErr.Fields {
			verr.Fields[f] = msg
		}
		return verr
	}
	return userErr
}

// Create validates and grades a submission, then stores it together with its
// user in a single transaction.
func (s *Service) Create(ctx context.Context, in scoring.Input) (*Record, error) {
	email, _, err := userEmail(in)
	var userErr *scoring.ValidationError
	if err != nil {
		userErr = userFieldError(err)
	} else {
		_, err = users.CheckEmail(email)
		userErr = userFieldError(err)
	}
	if err := mergeErrors(scoring.Validate(in, false), userErr); err != nil {
		logrus.WithFields(logrus.Fields{
			"user":  email,       // Submitted user email
			"error": err.Error(), // Offending fields
		}).Warn("Credit parameters rejected")
		return nil, err
	}

	pred, err := s.predictor.Predict(in)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user":  email,       // Submitted user email
			"error": err.Error(), // Prediction failure
		}).Error("Credit score prediction failed")
		return nil, fmt.Errorf("predict credit score: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user":   email,       // Submitted user email
		"grade":  pred.Grade,  // Predicted grade
		"source": pred.Source, // model or fallback
	}).Info("Credit score predicted")

	var rec domain.CreditParameters
	var usersChanged bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, outcome, err := users.Resolve(tx, email, in.String(scoring.FieldName))
		usersChanged = outcome != users.Existing // Created or restored
		if err != nil {
			return err // Return error to rollback
		}
		var existing int64
		if err := tx.Model(&domain.CreditParameters{}).Where("user_id = ?", user.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrConflict
		}
		rec = domain.CreditParameters{UserID: user.ID}
		apply(&rec, in)
		grade := pred.Grade
		rec.CreditScore = &grade
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err // Return error to rollback
		}
		rec.User = *user
		return nil // Commit transaction
	})
	if err != nil {
		err = translateWriteError(err)
		entry := logrus.WithFields(logrus.Fields{
			"user":  email,       // Submitted user email
			"error": err.Error(), // Error message
		})
		if errors.Is(err, ErrConflict) {
			entry.Warn("Credit parameters already exist for user")
		} else {
			entry.Error("Failed to save credit parameters")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"id":           rec.ID,     // Record ID
		"user_id":      rec.UserID, // Owner ID
		"credit_score": pred.Grade, // Stored grade
	}).Info("Credit parameters created")
	s.invalidate(ctx, 0)
	if usersChanged {
		if err := s.cache.DeletePrefix(ctx, utils.KeyUsersList); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate users cache")
		}
	}
	out := toRecord(&rec)
	return &out, nil
}

// Get returns a single record
func (s *Service) Get(ctx context.Context, id uint) (*Record, error) {
	key := utils.KeyCreditItem + strconv.FormatUint(uint64(id), 10)
	var cached Record
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	rec, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	out := toRecord(rec)
	_ = s.cache.Set(ctx, key, out)
	return &out, nil
}

// List returns one page of records ordered by ID
func (s *Service) List(ctx context.Context, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	key := utils.KeyCreditList + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
	var cached Page
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		cached.Cached = true
		return &cached, nil
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.CreditParameters{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count credit parameters: %w", err)
	}
	var recs []domain.CreditParameters
	if err := withUser(db).Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list credit parameters: %w", err)
	}
	out := &Page{
		Items:      make([]Record, len(recs)),             // Records on this page
		Page:       page,                                  // Current page
		PageSize:   pageSize,                              // Page size
		Total:      total,                                 // Total number of records
		TotalPages: (int(total) + pageSize - 1) / pageSize, // Total pages
	}
	for i := range recs {
		out.Items[i] = toRecord(&recs[i])
	}
	_ = s.cache.Set(ctx, key, out)
	return out, nil
}

// Update replaces (partial false) or patches (partial true) a record.
// A supplied user email must belong to an existing user. The stored grade is
// only changed when credit_score is supplied.
func (s *Service) Update(ctx context.Context, id uint, in scoring.Input, partial bool) (*Record, error) {
	email, hasUser, err := userEmail(in)
	var userErr *scoring.ValidationError
	if err != nil {
		userErr = userFieldError(err)
	} else if hasUser {
		_, err = users.CheckEmail(email)
		userErr = userFieldError(err)
	}
	if err := mergeErrors(scoring.Validate(in, partial), userErr); err != nil {
		logrus.WithFields(logrus.Fields{
			"id":    id,          // Record ID
			"error": err.Error(), // Offending fields
		}).Warn("Credit parameters update rejected")
		return nil, err
	}

	var rec *domain.CreditParameters
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if rec, err = s.load(tx, id); err != nil {
			return err
		}
		if hasUser {
			user, err := users.Lookup(tx, email)
			if err != nil {
				if verr := userFieldError(err); verr != nil {
					return verr
				}
				return err
			}
			rec.UserID = user.ID
			rec.User = *user
		}
		apply(rec, in)
		return tx.Omit(clause.Associations).Save(rec).Error
	})
	if err != nil {
		err = translateWriteError(err)
		logrus.WithFields(logrus.Fields{
			"id":    id,          // Record ID
			"user":  email,       // Requested owner
			"error": err.Error(), // Error message
		}).Error("Failed to update credit parameters")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"id":      rec.ID,     // Record ID
		"user_id": rec.UserID, // Owner ID
		"partial": partial,    // PATCH or PUT
	}).Info("Credit parameters updated")
	s.invalidate(ctx, id)
	out := toRecord(rec)
	return &out, nil
}

// Delete removes a record permanently; its user is kept
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.CreditParameters{}, id)
	if res.Error != nil {
		logrus.WithFields(logrus.Fields{
			"id":    id,                // Record ID
			"error": res.Error.Error(), // Error message
		}).Error("Failed to delete credit parameters")
		return fmt.Errorf("delete credit parameters: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	logrus.WithField("id", id).Info("Credit parameters deleted")
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id uint) {
	if id != 0 {
		if err := s.cache.Delete(ctx, utils.KeyCreditItem+strconv.FormatUint(uint64(id), 10)); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate credit parameters cache")
		}
	}
	if err := s.cache.DeletePrefix(ctx, utils.KeyCreditList); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate credit parameters cache")
	}
}

func (s *Service) load(db *gorm.DB, id uint) (*domain.CreditParameters, error) {
	var rec domain.CreditParameters
	if err := withUser(db).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load credit parameters: %w", err)
	}
	return &rec, nil
}

// withUser preloads the owner, including soft-deleted ones
func withUser(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func translateWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, users.ErrConflict):
		return ErrConflict
	}
	var verr *scoring.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	if fe := userFieldError(err); fe != nil {
		return fe
	}
	return err
}
