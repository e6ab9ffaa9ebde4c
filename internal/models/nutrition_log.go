package models

import "time"

// NutritionLog rows are written by the messaging/AI pipeline and are
// read-only to the analytics service. Entries reach us either linked to a
// user id directly or only through the normalized phone number of the
// inbound message that produced them.
type NutritionLog struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"index"`
	PhoneNumber    string `gorm:"index"`
	FoodName       string
	Calories       *float64
	Protein        *float64
	Carbs          *float64
	Fat            *float64
	Summary        string
	CategoriesJSON string `gorm:"column:categories_json"`
	LiquidVolume   *float64
	LiquidUnit     string
	CreatedAt      time.Time `gorm:"not null;index"`
}
