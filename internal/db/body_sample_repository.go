package db

import (
	"time"

	"github.com/macrolens/macrolens/internal/models"
	"gorm.io/gorm"
)

type BodySampleRepository struct {
	database *gorm.DB
}

func NewBodySampleRepository(database *gorm.DB) *BodySampleRepository {
	return &BodySampleRepository{database: database}
}

func (repo *BodySampleRepository) ListForWindow(from time.Time, to time.Time, userIDs []uint) ([]models.BodySample, error) {
	query := repo.database.Model(&models.BodySample{}).
		Where("sampled_at >= ? AND sampled_at < ?", from, to)
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}

	samples := make([]models.BodySample, 0)
	if err := query.Order("sampled_at ASC, id ASC").Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}

// LatestWeightKg returns the subject's most recent recorded weight, zero
// when none exists.
func (repo *BodySampleRepository) LatestWeightKg(userID uint) (float64, error) {
	sample := models.BodySample{}
	result := repo.database.
		Where("user_id = ? AND weight_kg IS NOT NULL", userID).
		Order("sampled_at DESC, id DESC").
		Limit(1).
		Find(&sample)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 || sample.WeightKg == nil {
		return 0, nil
	}
	return *sample.WeightKg, nil
}
