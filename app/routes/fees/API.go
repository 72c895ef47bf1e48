package fees

import (
	"database/sql"
	"errors"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type FeeScheduleRequest struct {
	GradeLevel      string `json:"grade_level" validate:"required"`
	SchoolYear      string `json:"school_year" validate:"required"`
	TuitionFeeCents int64  `json:"tuition_fee_cents" validate:"gte=0"`
	MiscFeeCents    int64  `json:"misc_fee_cents" validate:"gte=0"`
	LabFeeCents     int64  `json:"lab_fee_cents" validate:"gte=0"`
	LibraryFeeCents int64  `json:"library_fee_cents" validate:"gte=0"`
	SportsFeeCents  int64  `json:"sports_fee_cents" validate:"gte=0"`
	IsActive        *bool  `json:"is_active"`
}

type DuplicateRequest struct {
	TargetYear string `json:"target_year" validate:"required"`
}

func ListFeeSchedulesAPI(c *fiber.Ctx) error {
	schoolYear := c.Query("school_year")
	activeOnly := c.Query("active") == "true"

	schedules, err := database.ListFeeSchedules(config.GetDB(), schoolYear, activeOnly)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee schedules")
	}
	return c.JSON(fiber.Map{"success": true, "data": schedules, "total": len(schedules)})
}

// LookupFeeScheduleAPI resolves the active schedule for a grade and
// year, the same lookup enrollment submission performs.
func LookupFeeScheduleAPI(c *fiber.Ctx) error {
	gradeLevel := models.GradeLevel(c.Query("grade_level"))
	schoolYear := c.Query("school_year", config.AppConfig.CurrentSchoolYear)

	if !models.IsValidGrade(gradeLevel) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown grade level")
	}

	schedule, err := database.GetActiveFeeSchedule(config.GetDB(), gradeLevel, schoolYear)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee schedule")
	}
	if schedule == nil {
		return fiber.NewError(fiber.StatusNotFound, "No active fee schedule for this grade level and school year")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"data":        schedule,
		"total_cents": schedule.TotalCents(),
	})
}

func GetFeeScheduleAPI(c *fiber.Ctx) error {
	schedule, err := database.GetFeeScheduleByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Fee schedule not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee schedule")
	}
	return c.JSON(fiber.Map{"success": true, "data": schedule})
}

func CreateFeeScheduleAPI(c *fiber.Ctx) error {
	var req FeeScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid fee schedule: "+err.Error())
	}
	if !models.IsValidGrade(models.GradeLevel(req.GradeLevel)) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown grade level")
	}
	if !models.IsSchoolYear(req.SchoolYear) {
		return fiber.NewError(fiber.StatusBadRequest, "school_year must be consecutive years like 2025-2026")
	}

	schedule := &models.FeeSchedule{
		GradeLevel:      models.GradeLevel(req.GradeLevel),
		SchoolYear:      req.SchoolYear,
		TuitionFeeCents: req.TuitionFeeCents,
		MiscFeeCents:    req.MiscFeeCents,
		LabFeeCents:     req.LabFeeCents,
		LibraryFeeCents: req.LibraryFeeCents,
		SportsFeeCents:  req.SportsFeeCents,
		IsActive:        true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if err := database.CreateFeeSchedule(config.GetDB(), schedule); err != nil {
		if errors.Is(err, database.ErrFeeScheduleExists) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create fee schedule")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": schedule})
}

func UpdateFeeScheduleAPI(c *fiber.Ctx) error {
	var req FeeScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid fee schedule: "+err.Error())
	}

	db := config.GetDB()
	schedule, err := database.GetFeeScheduleByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Fee schedule not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee schedule")
	}

	// Grade level and school year are the schedule's identity; only the
	// amounts and active flag are editable.
	schedule.TuitionFeeCents = req.TuitionFeeCents
	schedule.MiscFeeCents = req.MiscFeeCents
	schedule.LabFeeCents = req.LabFeeCents
	schedule.LibraryFeeCents = req.LibraryFeeCents
	schedule.SportsFeeCents = req.SportsFeeCents
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if err := database.UpdateFeeSchedule(db, schedule); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update fee schedule")
	}
	return c.JSON(fiber.Map{"success": true, "data": schedule})
}

// DuplicateFeeScheduleAPI copies an existing schedule into a new school
// year, the usual way next year's prices get seeded.
func DuplicateFeeScheduleAPI(c *fiber.Ctx) error {
	var req DuplicateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Target school year is required")
	}
	if !models.IsSchoolYear(req.TargetYear) {
		return fiber.NewError(fiber.StatusBadRequest, "target_year must be consecutive years like 2025-2026")
	}

	schedule, err := database.DuplicateFeeSchedule(config.GetDB(), c.Params("id"), req.TargetYear)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Fee schedule not found")
	}
	if errors.Is(err, database.ErrFeeScheduleExists) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to duplicate fee schedule")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": schedule})
}

func DeleteFeeScheduleAPI(c *fiber.Ctx) error {
	err := database.DeleteFeeSchedule(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Fee schedule not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete fee schedule")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Fee schedule deleted"})
}
