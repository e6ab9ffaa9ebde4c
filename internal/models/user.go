package models

import "time"

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:client"`
	PhoneNumber  string `gorm:"index"`
	WaterIntake  string
	CreatedAt    time.Time `gorm:"not null"`
}
