package db

import (
	"strings"

	"github.com/macrolens/macrolens/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	user := models.User{}
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	user := models.User{}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := repo.database.Where("email = ?", normalized).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ListByIDs(userIDs []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}
	if err := repo.database.Where("id IN ?", userIDs).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) ListAll() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}
