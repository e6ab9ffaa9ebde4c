package db

import (
	"time"

	"github.com/macrolens/macrolens/internal/models"
	"gorm.io/gorm"
)

type NutritionLogRepository struct {
	database *gorm.DB
}

func NewNutritionLogRepository(database *gorm.DB) *NutritionLogRepository {
	return &NutritionLogRepository{database: database}
}

// ListForWindow bulk-fetches entries with createdAt in [from, to), exclusive
// upper bound. Empty id and phone sets mean no subject restriction. The
// phone linkage only covers entries without a direct owner id, so an entry
// owned by another subject never rides in on a shared phone number.
func (repo *NutritionLogRepository) ListForWindow(from time.Time, to time.Time, userIDs []uint, phoneNumbers []string) ([]models.NutritionLog, error) {
	query := repo.database.Model(&models.NutritionLog{}).
		Where("created_at >= ? AND created_at < ?", from, to)

	switch {
	case len(userIDs) > 0 && len(phoneNumbers) > 0:
		query = query.Where("user_id IN ? OR (user_id = 0 AND phone_number IN ?)", userIDs, phoneNumbers)
	case len(userIDs) > 0:
		query = query.Where("user_id IN ?", userIDs)
	case len(phoneNumbers) > 0:
		query = query.Where("user_id = 0 AND phone_number IN ?", phoneNumbers)
	}

	entries := make([]models.NutritionLog, 0)
	if err := query.Order("created_at ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
