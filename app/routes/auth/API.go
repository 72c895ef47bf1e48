package auth

import (
	"database/sql"
	"time"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterGuardianRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Occupation *string `json:"occupation"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func LoginAPI(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	db := config.GetDB()

	user, err := database.GetUserByEmail(db, req.Email)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to look up user")
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	roles, err := database.GetUserRoles(db, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load roles")
	}
	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, r.Name)
	}

	token, err := GenerateJWT(user.ID, user.Email, user.FirstName, user.LastName, roleNames)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	sessionID := uuid.New().String()
	if err := database.CreateSession(db, sessionID, user.ID, time.Now().Add(24*time.Hour)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"roles":      roleNames,
		},
	})
}

// RegisterGuardianAPI is the public self-registration endpoint. It only
// ever creates guardian accounts; staff accounts are provisioned by a
// super admin.
func RegisterGuardianAPI(c *fiber.Ctx) error {
	var req RegisterGuardianRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid registration details: "+err.Error())
	}

	db := config.GetDB()

	if _, err := database.GetUserByEmail(db, req.Email); err == nil {
		return fiber.NewError(fiber.StatusConflict, "An account with this email already exists")
	} else if err != sql.ErrNoRows {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to look up user")
	}

	user := &models.User{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if err := database.CreateUser(db, user, models.RoleGuardian); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create account")
	}

	guardian := &models.Guardian{
		UserID:     user.ID,
		Phone:      req.Phone,
		Address:    req.Address,
		Occupation: req.Occupation,
	}
	if err := database.CreateGuardian(db, guardian); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create guardian profile")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user_id":     user.ID,
			"guardian_id": guardian.ID,
		},
	})
}

func LogoutAPI(c *fiber.Ctx) error {
	if principal := CurrentPrincipal(c); principal != nil {
		if err := database.DeleteSessionsForUser(config.GetDB(), principal.UserID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to log out")
		}
	}
	c.ClearCookie("jwt_token")
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

func MeAPI(c *fiber.Ctx) error {
	principal := CurrentPrincipal(c)
	if principal == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":         principal.UserID,
			"email":      principal.Email,
			"first_name": principal.FirstName,
			"last_name":  principal.LastName,
			"roles":      principal.Roles,
		},
	})
}

func ChangePasswordAPI(c *fiber.Ctx) error {
	principal := CurrentPrincipal(c)
	if principal == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "New password must be at least 8 characters")
	}

	db := config.GetDB()

	user, err := database.GetUserByID(db, principal.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to look up user")
	}

	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Current password is incorrect")
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	if err := database.UpdateUserPassword(db, user.ID, hashed); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update password")
	}

	// Other sessions do not survive a password change.
	if err := database.DeleteSessionsForUser(db, user.ID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to invalidate sessions")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password updated"})
}
