package credit

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"credit_scoring/internal/db"
	"credit_scoring/internal/domain"
	"credit_scoring/internal/predictor"
	"credit_scoring/internal/scoring"
	"credit_scoring/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ==========================
// Test Helper Functions
// ==========================

// alwaysModel expects the required fields only and always answers label
func alwaysModel(label string) *predictor.Model {
	m := &predictor.Model{Classes: []string{"Other", label}, Encoders: map[string]map[string]float64{}}
	for _, f := range scoring.FeatureMap {
		if f.Field == scoring.FieldMonth || f.Field == scoring.FieldCreditHistoryAge {
			continue
		}
		m.Features = append(m.Features, f.Name)
		if !f.Numerical {
			m.Encoders[f.Name] = map[string]float64{}
		}
	}
	for range m.Classes {
		m.Coefficients = append(m.Coefficients, make([]float64, len(m.Features)))
	}
	m.Intercepts = []float64{0, 1}
	return m
}

// driftedModel never matches the submitted row, forcing fallback grading
func driftedModel() *predictor.Model {
	return &predictor.Model{
		Features:     []string{"Some_Other_Feature"},
		Classes:      []string{"Poor", "Good"},
		Coefficients: [][]float64{{0}, {0}},
		Intercepts:   []float64{0, 0},
	}
}

type fixture struct {
	db     *gorm.DB
	svc    *Service
	handle *predictor.Handle
	redis  *miniredis.Miniredis
}

func newFixture(t *testing.T, model *predictor.Model) *fixture {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	handle := predictor.NewHandle(filepath.Join(t.TempDir(), "credit_model.json"), nil)
	if model != nil {
		handle.Swap(model)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &fixture{
		db:     gdb,
		svc:    NewService(gdb, predictor.New(handle, nil), utils.NewCache(rdb, time.Minute)),
		handle: handle,
		redis:  mr,
	}
}

func validInput(email string) scoring.Input {
	return scoring.Input{
		"user":                      email,
		"name":                      "John Doe",
		"occupation":                "Engineer",
		"delay_from_due_date":       "0",
		"credit_mix":                "Standard",
		"payment_of_minimum_amount": "Yes",
		"payment_behaviour":         "low_spend_small_value_payments",
		"changed_credit_limit":      "No",
		"age":                       30.0,
		"annual_income":             "50000.00",
		"monthly_in_hand_salary":    "4000.00",
		"number_of_bank_accounts":   2.0,
		"number_of_credit_cards":    1.0,
		"interest_rate":             "12.50",
		"number_of_loans":           1.0,
		"number_of_delayed_payment": 0.0,
		"num_credit_inquiries":      0.0,
		"outstanding_debt":          "1000.00",
		"credit_utilization_ratio":  "10.50",
		"total_emi_per_month":       "500.00",
		"amount_invested_monthly":   "200.00",
		"monthly_balance":           "3000.00",
	}
}

func (f *fixture) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.User{}).Count(&n).Error)
	return n
}

// ==========================
// Create
// ==========================

func TestCreate_UsesModelGrade(t *testing.T) {
	f := newFixture(t, alwaysModel("Good"))

	rec, err := f.svc.Create(context.Background(), validInput("john@example.com"))
	require.NoError(t, err)
	require.NotNil(t, rec.CreditScore)
	assert.Equal(t, "good", *rec.CreditScore)
	assert.Equal(t, "john@example.com", rec.User)
	assert.Equal(t, 50000.0, rec.AnnualIncome)
	assert.Equal(t, 10.5, rec.CreditUtilizationRatio)

	var stored domain.CreditParameters
	require.NoError(t, f.db.First(&stored, rec.ID).Error)
	assert.Equal(t, "good", *stored.CreditScore)
}

func TestCreate_FallbackGrades(t *testing.T) {
	tests := []struct {
		name        string
		utilization any
		delayed     any
		mix         string
		want        string
	}{
		{"poor", 90.0, 12.0, "Good", "poor"},
		{"good", 20.0, 1.0, "good", "good"},
		{"standard", 50.0, 5.0, "Standard", "standard"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, driftedModel())
			in := validInput("user" + string(rune('a'+i)) + "@example.com")
			in["credit_utilization_ratio"] = tt.utilization
			in["number_of_delayed_payment"] = tt.delayed
			in["credit_mix"] = tt.mix

			rec, err := f.svc.Create(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *rec.CreditScore)
		})
	}
}

func TestCreate_NewUserFromName(t *testing.T) {
	f := newFixture(t, driftedModel())

	in := validInput("jane@example.com")
	in["name"] = "Jane Mary Smith"
	_, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	var user domain.User
	require.NoError(t, f.db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Mary Smith", user.LastName)
	assert.Equal(t, int64(1), f.countUsers(t))

	in = validInput("single@example.com")
	in["name"] = "Madonna"
	_, err = f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, f.db.Where("email = ?", "single@example.com").First(&user).Error)
	assert.Equal(t, "Madonna", user.FirstName)
	assert.Empty(t, user.LastName)
}

func TestCreate_ReusesExistingUser(t *testing.T) {
	f := newFixture(t, driftedModel())
	existing := domain.User{Email: "known@example.com", FirstName: "Known", LastName: "User", PhoneNumber: "07123456001"}
	require.NoError(t, f.db.Create(&existing).Error)

	rec, err := f.svc.Create(context.Background(), validInput("known@example.com"))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, rec.UserID)
	assert.Equal(t, int64(1), f.countUsers(t))
}

func TestCreate_DuplicateIsConflict(t *testing.T) {
	f := newFixture(t, driftedModel())

	_, err := f.svc.Create(context.Background(), validInput("twice@example.com"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), validInput("twice@example.com"))
	assert.ErrorIs(t, err, ErrConflict)

	var n int64
	require.NoError(t, f.db.Model(&domain.CreditParameters{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreate_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t, driftedModel())

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), validInput("race@example.com"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(1), f.countUsers(t))

	var n int64
	require.NoError(t, f.db.Model(&domain.CreditParameters{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreate_RestoredUserClearsUsersCache(t *testing.T) {
	f := newFixture(t, driftedModel())
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, validInput("back@example.com"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, rec.ID))
	require.NoError(t, f.db.Delete(&domain.User{}, rec.UserID).Error)

	usersKey := utils.KeyUsersList + "page=1:size=20"
	require.NoError(t, f.redis.Set(usersKey, `{"users":[]}`))

	restored, err := f.svc.Create(ctx, validInput("back@example.com"))
	require.NoError(t, err)
	assert.Equal(t, rec.UserID, restored.UserID)
	assert.Equal(t, int64(1), f.countUsers(t))
	assert.False(t, f.redis.Exists(usersKey))
}

func TestCreate_ValidationErrors(t *testing.T) {
	f := newFixture(t, driftedModel())

	in := validInput("")
	delete(in, "occupation")
	in["age"] = "thirty"
	_, err := f.svc.Create(context.Background(), in)

	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"user":       MsgUserRequired,
		"occupation": "categorical occupation is required.",
		"age":        scoring.MsgNotANumber,
	}, verr.Fields)
	assert.Equal(t, int64(0), f.countUsers(t))

	in = validInput("bad-email")
	_, err = f.svc.Create(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgUserInvalid, verr.Fields["user"])
}

func TestCreate_ArtifactMissing(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Create(context.Background(), validInput("nomodel@example.com"))
	assert.ErrorIs(t, err, predictor.ErrArtifactMissing)
	assert.Equal(t, int64(0), f.countUsers(t))
}

// ==========================
// Read, Update, Delete
// ==========================

func TestGet_CachesRecord(t *testing.T) {
	f := newFixture(t, driftedModel())
	created, err := f.svc.Create(context.Background(), validInput("get@example.com"))
	require.NoError(t, err)

	rec, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "get@example.com", rec.User)
	assert.True(t, f.redis.Exists(utils.KeyCreditItem+"1"))

	cached, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, cached.Name)
	assert.Equal(t, rec.User, cached.User)

	_, err = f.svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_Paginates(t *testing.T) {
	f := newFixture(t, driftedModel())
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := f.svc.Create(context.Background(), validInput(email))
		require.NoError(t, err)
	}

	page, err := f.svc.List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.Cached)

	page, err = f.svc.List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, page.Cached)

	// A write drops the cached pages
	_, err = f.svc.Create(context.Background(), validInput("d@example.com"))
	require.NoError(t, err)
	page, err = f.svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.False(t, page.Cached)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "d@example.com", page.Items[1].User)
}

func TestUpdate_FullReplace(t *testing.T) {
	f := newFixture(t, driftedModel())
	created, err := f.svc.Create(context.Background(), validInput("upd@example.com"))
	require.NoError(t, err)
	_, err = f.svc.Get(context.Background(), created.ID) // warm the cache
	require.NoError(t, err)

	in := validInput("upd@example.com")
	in["name"] = "Jane Doe"
	in["monthly_balance"] = "1234.567"
	rec, err := f.svc.Update(context.Background(), created.ID, in, false)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, 1234.57, rec.MonthlyBalance)
	assert.Equal(t, *created.CreditScore, *rec.CreditScore)

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
}

func TestUpdate_Partial(t *testing.T) {
	f := newFixture(t, driftedModel())
	created, err := f.svc.Create(context.Background(), validInput("patch@example.com"))
	require.NoError(t, err)

	rec, err := f.svc.Update(context.Background(), created.ID, scoring.Input{"occupation": "Doctor", "credit_score": "Poor"}, true)
	require.NoError(t, err)
	assert.Equal(t, "Doctor", rec.Occupation)
	assert.Equal(t, "poor", *rec.CreditScore)
	assert.Equal(t, "John Doe", rec.Name)

	_, err = f.svc.Update(context.Background(), created.ID, scoring.Input{"occupation": "Doctor"}, false)
	var verr *scoring.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdate_UserMustExist(t *testing.T) {
	f := newFixture(t, driftedModel())
	created, err := f.svc.Create(context.Background(), validInput("owner@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), created.ID, scoring.Input{"user": "ghost@example.com"}, true)
	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgUserUnknown, verr.Fields["user"])
	assert.Equal(t, int64(1), f.countUsers(t))
}

func TestUpdate_MoveToUser(t *testing.T) {
	f := newFixture(t, driftedModel())
	first, err := f.svc.Create(context.Background(), validInput("first@example.com"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), validInput("second@example.com"))
	require.NoError(t, err)
	free := domain.User{Email: "free@example.com", FirstName: "Free", PhoneNumber: domain.PlaceholderPhone}
	require.NoError(t, f.db.Create(&free).Error)

	_, err = f.svc.Update(context.Background(), first.ID, scoring.Input{"user": "second@example.com"}, true)
	assert.ErrorIs(t, err, ErrConflict)

	rec, err := f.svc.Update(context.Background(), first.ID, scoring.Input{"user": "free@example.com"}, true)
	require.NoError(t, err)
	assert.Equal(t, free.ID, rec.UserID)
	assert.Equal(t, "free@example.com", rec.User)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t, driftedModel())
	_, err := f.svc.Update(context.Background(), 42, scoring.Input{"name": "x"}, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, driftedModel())
	created, err := f.svc.Create(context.Background(), validInput("del@example.com"))
	require.NoError(t, err)
	_, err = f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), created.ID))
	_, err = f.svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(1), f.countUsers(t))

	assert.ErrorIs(t, f.svc.Delete(context.Background(), created.ID), ErrNotFound)
}
