package models

import "time"

// BodySample comes from anamnesis records. Every metric is optional and
// several samples may land on the same calendar day.
type BodySample struct {
	ID                   uint      `gorm:"primaryKey"`
	UserID               uint      `gorm:"not null;index"`
	SampledAt            time.Time `gorm:"not null;index"`
	WeightKg             *float64
	BodyMassIndex        *float64
	BodyFatPercentage    *float64
	MuscleMassPercentage *float64
	CreatedAt            time.Time
}
