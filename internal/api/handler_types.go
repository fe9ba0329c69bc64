package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/ember/internal/db"
	"github.com/terraincognita07/ember/internal/services"
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	repositories *db.Repositories
	authService  *services.AuthService
	habitService *services.HabitService
	entryService *services.EntryService
	statsService *services.StatsService
}

const (
	authCookieName = "ember_auth"
	contextUserKey = "current_user"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}
