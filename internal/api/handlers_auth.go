package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ember/internal/models"
	"github.com/terraincognita07/ember/internal/security"
	"github.com/terraincognita07/ember/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const verificationTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	email := services.NormalizeEmail(credentials.Email)
	if email == "" || !strings.Contains(email, "@") || len(credentials.Password) < 8 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	exists, err := handler.authService.RegistrationEmailExists(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	verificationToken, err := security.RandomString(32, verificationTokenAlphabet)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create verification token")
	}

	user := models.User{
		Email:             email,
		PasswordHash:      string(passwordHash),
		Timezone:          "UTC",
		VerificationToken: verificationToken,
		CreatedAt:         time.Now().In(handler.location),
	}
	if err := handler.authService.CreateUser(&user); err != nil {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":                 true,
		"verification_token": verificationToken,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.FindByNormalizedEmail(credentials.Email)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"id":               user.ID,
		"email":            user.Email,
		"display_name":     user.DisplayName,
		"timezone":         user.Timezone,
		"reminders_opt_in": user.RemindersOptIn,
		"email_verified":   user.EmailVerified,
	})
}

func (handler *Handler) VerifyEmail(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.authService.VerifyEmailToken(*user, c.Query("token")); err != nil {
		if errors.Is(err, services.ErrVerificationTokenMismatch) {
			return apiError(c, fiber.StatusBadRequest, "invalid verification token")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to verify email")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) UpdateNotificationSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := notificationSettingsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	updates := map[string]any{}
	if input.RemindersOptIn != nil {
		updates["reminders_opt_in"] = *input.RemindersOptIn
	}
	if strings.TrimSpace(input.Timezone) != "" {
		updates["timezone"] = services.LoadLocationOrUTC(input.Timezone).String()
	}
	if strings.TrimSpace(input.TelegramChatID) != "" {
		updates["telegram_chat_id"] = strings.TrimSpace(input.TelegramChatID)
	}
	if len(updates) == 0 {
		return apiError(c, fiber.StatusBadRequest, "nothing to update")
	}

	if err := handler.repositories.Users.UpdateByID(user.ID, updates); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update settings")
	}
	return c.JSON(fiber.Map{"ok": true})
}
