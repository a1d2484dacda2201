package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Pradhyumna23/Nourish-AI/config"
	"github.com/Pradhyumna23/Nourish-AI/models"
)

// newTestDB opens a throwaway in-memory database, one per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		Email:         fmt.Sprintf("%s-%d@example.com", t.Name(), time.Now().UnixNano()),
		Password:      "x",
		FirstName:     "Test",
		Birthday:      time.Date(1994, 5, 1, 0, 0, 0, 0, time.UTC),
		Sex:           models.SexFemale,
		HeightCm:      165,
		WeightKg:      60,
		ActivityLevel: models.ActivityModeratelyActive,
		PrimaryGoal:   models.GoalMaintenance,
		Onboarded:     true,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func logEntry(t *testing.T, db *gorm.DB, userID uint, date time.Time, meal models.MealType, e models.FoodLogEntry) {
	t.Helper()

	e.UserID = userID
	e.Date = dayStart(date)
	e.MealType = meal
	if e.FoodName == "" {
		e.FoodName = "test food"
	}
	if e.Quantity == 0 {
		e.Quantity = 1
	}
	require.NoError(t, db.Create(&e).Error)
}
