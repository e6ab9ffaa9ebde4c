package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	NutritionLogs *NutritionLogRepository
	Goals         *GoalRepository
	BodySamples   *BodySampleRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		NutritionLogs: NewNutritionLogRepository(database),
		Goals:         NewGoalRepository(database),
		BodySamples:   NewBodySampleRepository(database),
	}
}
