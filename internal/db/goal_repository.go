package db

import (
	"github.com/macrolens/macrolens/internal/models"
	"gorm.io/gorm"
)

type GoalRepository struct {
	database *gorm.DB
}

func NewGoalRepository(database *gorm.DB) *GoalRepository {
	return &GoalRepository{database: database}
}

// ListActive fetches active goals for the given owners; an empty owner set
// fetches all active goals.
func (repo *GoalRepository) ListActive(userIDs []uint) ([]models.Goal, error) {
	query := repo.database.Model(&models.Goal{}).Where("active = ?", true)
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}

	goals := make([]models.Goal, 0)
	if err := query.Order("user_id ASC, id ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}
