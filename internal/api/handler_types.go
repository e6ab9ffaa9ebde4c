package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/macrolens/macrolens/internal/db"
	"github.com/macrolens/macrolens/internal/services"
	"gorm.io/gorm"
)

const (
	authCookieName = "macrolens_token"
	contextUserKey = "current_user"

	defaultAuthTokenTTL = 7 * 24 * time.Hour
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	repositories  *db.Repositories
	reportService *services.ReportService
}

type authClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func NewHandler(database *gorm.DB, secretKey string, location *time.Location, cookieSecure bool) *Handler {
	if location == nil {
		location = time.UTC
	}
	handler := &Handler{
		db:           database,
		secretKey:    []byte(secretKey),
		location:     location,
		cookieSecure: cookieSecure,
	}
	handler.ensureDependencies()
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.repositories = db.NewRepositories(handler.db)
	}
	if handler.reportService == nil {
		handler.reportService = services.NewReportService(
			handler.repositories.NutritionLogs,
			handler.repositories.Goals,
			handler.repositories.BodySamples,
			handler.repositories.Users,
			handler.location,
		)
	}
}
