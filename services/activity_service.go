package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

// ActivityService tracks daily hydration and exercise, one row per user per
// day.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

func (s *ActivityService) dayRow(userID uint, date time.Time) (*models.DailyActivityLog, error) {
	day := dayStart(date)
	var log models.DailyActivityLog
	err := s.db.Where("user_id = ? AND date = ?", userID, day).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log = models.DailyActivityLog{UserID: userID, Date: day}
		if err := s.db.Create(&log).Error; err != nil {
			return nil, fmt.Errorf("failed to create activity row: %w", err)
		}
		return &log, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// AddHydration increments today's glasses by n (may be negative to undo,
// floored at zero).
func (s *ActivityService) AddHydration(userID uint, date time.Time, n float64) (*models.DailyActivityLog, error) {
	log, err := s.dayRow(userID, date)
	if err != nil {
		return nil, err
	}
	log.Hydration += n
	if log.Hydration < 0 {
		log.Hydration = 0
	}
	if err := s.db.Save(log).Error; err != nil {
		return nil, fmt.Errorf("failed to update hydration: %w", err)
	}
	return log, nil
}

// AddExercise increments today's active minutes.
func (s *ActivityService) AddExercise(userID uint, date time.Time, minutes float64) (*models.DailyActivityLog, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("minutes must be positive: %w", ErrValidation)
	}
	log, err := s.dayRow(userID, date)
	if err != nil {
		return nil, err
	}
	log.Exercise += minutes
	if err := s.db.Save(log).Error; err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return log, nil
}

// Get returns the day's log, zero-valued when nothing was recorded.
func (s *ActivityService) Get(userID uint, date time.Time) (*models.DailyActivityLog, error) {
	day := dayStart(date)
	var log models.DailyActivityLog
	err := s.db.Where("user_id = ? AND date = ?", userID, day).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DailyActivityLog{UserID: userID, Date: day}, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}
