package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/ember/internal/models"
)

var ErrVerificationTokenMismatch = errors.New("verification token mismatch")

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	MarkEmailVerified(userID uint) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (service *AuthService) RegistrationEmailExists(email string) (bool, error) {
	return service.users.ExistsByNormalizedEmail(NormalizeEmail(email))
}

func (service *AuthService) CreateUser(user *models.User) error {
	return service.users.Create(user)
}

func (service *AuthService) FindByNormalizedEmail(email string) (models.User, error) {
	return service.users.FindByNormalizedEmail(NormalizeEmail(email))
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// VerifyEmailToken marks the user's email verified when the presented token
// matches the one issued at registration.
func (service *AuthService) VerifyEmailToken(user models.User, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || user.VerificationToken == "" || token != user.VerificationToken {
		return ErrVerificationTokenMismatch
	}
	return service.users.MarkEmailVerified(user.ID)
}
