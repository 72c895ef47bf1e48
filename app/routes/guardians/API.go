package guardians

import (
	"database/sql"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Occupation *string `json:"occupation"`
}

func GetProfileAPI(c *fiber.Ctx) error {
	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}

	students, err := database.GetStudentsForGuardian(config.GetDB(), guardian.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"guardian": guardian,
			"students": students,
		},
	})
}

func UpdateProfileAPI(c *fiber.Ctx) error {
	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	guardian.Phone = req.Phone
	guardian.Address = req.Address
	guardian.Occupation = req.Occupation

	if err := database.UpdateGuardianProfile(config.GetDB(), guardian); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update profile")
	}
	return c.JSON(fiber.Map{"success": true, "data": guardian})
}

func ListGuardiansAPI(c *fiber.Ctx) error {
	guardians, err := database.ListGuardians(config.GetDB(), c.Query("search"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch guardians")
	}
	return c.JSON(fiber.Map{"success": true, "data": guardians, "total": len(guardians)})
}

func GetGuardianAPI(c *fiber.Ctx) error {
	guardian, err := database.GetGuardianByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Guardian not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch guardian")
	}
	return c.JSON(fiber.Map{"success": true, "data": guardian})
}

func GetGuardianStudentsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	if _, err := database.GetGuardianByID(db, c.Params("id")); err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Guardian not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch guardian")
	}

	students, err := database.GetStudentsForGuardian(db, c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return c.JSON(fiber.Map{"success": true, "data": students, "total": len(students)})
}
