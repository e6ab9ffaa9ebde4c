package models

import "time"

const (
	GoalProtein       = "PROTEIN"
	GoalCarbohydrate  = "CARBOHYDRATE"
	GoalFat           = "FAT"
	GoalWater         = "WATER"
	GoalFiber         = "FIBER"
	GoalEnergy        = "ENERGY"
	GoalCalorieTarget = "CALORIE_TARGET"
)

const (
	TargetModeAbsolute = "ABSOLUTE"
	TargetModePerKg    = "PER_KG"
)

const (
	PeriodicityDaily   = "DAILY"
	PeriodicityWeekly  = "WEEKLY"
	PeriodicityMonthly = "MONTHLY"
	PeriodicityCustom  = "CUSTOM"
)

type Goal struct {
	ID               uint    `gorm:"primaryKey"`
	UserID           uint    `gorm:"not null;index"`
	Type             string  `gorm:"not null"`
	TargetValue      float64 `gorm:"not null"`
	TargetMode       string  `gorm:"not null;default:ABSOLUTE"`
	Periodicity      string  `gorm:"not null;default:DAILY"`
	CustomPeriodDays *int
	StartDate        *time.Time
	EndDate          *time.Time
	Active           bool `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
