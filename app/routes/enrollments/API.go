package enrollments

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"
	"lakeside-academy/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type SubmitEnrollmentRequest struct {
	StudentID  string `json:"student_id" validate:"required,uuid"`
	SchoolYear string `json:"school_year"`
	GradeLevel string `json:"grade_level" validate:"required"`
	Quarter    string `json:"quarter"`

	// Staff-only fields, ignored for guardian callers.
	DiscountCents     int64 `json:"discount_cents" validate:"gte=0"`
	AllowRetention    bool  `json:"allow_retention"`
	AllowAcceleration bool  `json:"allow_acceleration"`
}

type UpdateEnrollmentRequest struct {
	GradeLevel string `json:"grade_level" validate:"required"`
	Quarter    string `json:"quarter" validate:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ApproveRequest struct {
	Remarks *string `json:"remarks"`
}

type BulkApproveRequest struct {
	EnrollmentIDs []string `json:"enrollment_ids" validate:"required,min=1,dive,uuid"`
}

// eligibilityError maps the eligibility sentinel errors onto 422 so the
// caller can distinguish a rule rejection from a malformed request.
func eligibilityError(err error) error {
	for _, sentinel := range []error{
		services.ErrDuplicateYear, services.ErrPendingExists, services.ErrActiveEnrollment,
		services.ErrInvalidGrade, services.ErrGradeRegression, services.ErrGradeSkip,
		services.ErrRetentionDenied,
	} {
		if errors.Is(err, sentinel) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
	}
	return nil
}

// requireStudentVisible applies guardian row scoping: a guardian asking
// about a student they are not linked to gets 404, never 403.
func requireStudentVisible(c *fiber.Ctx, db *sql.DB, studentID string) (*models.Guardian, error) {
	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return nil, err
	}
	if guardian == nil {
		return nil, nil
	}

	linked, err := database.IsGuardianOf(db, guardian.ID, studentID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check access")
	}
	if !linked {
		return nil, fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	return guardian, nil
}

func SubmitEnrollmentAPI(c *fiber.Ctx) error {
	var req SubmitEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid enrollment details: "+err.Error())
	}

	gradeLevel := models.GradeLevel(req.GradeLevel)
	if !models.IsValidGrade(gradeLevel) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown grade level")
	}
	quarter := models.Quarter(req.Quarter)
	if req.Quarter != "" && !models.IsValidQuarter(quarter) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown quarter")
	}
	if quarter == "" {
		quarter = models.FirstQuarter
	}
	schoolYear := req.SchoolYear
	if schoolYear == "" {
		schoolYear = config.AppConfig.CurrentSchoolYear
	}
	if !models.IsSchoolYear(schoolYear) {
		return fiber.NewError(fiber.StatusBadRequest, "school_year must be consecutive years like 2025-2026")
	}

	db := config.GetDB()

	guardian, err := requireStudentVisible(c, db, req.StudentID)
	if err != nil {
		return err
	}

	if _, err := database.GetStudentByID(db, req.StudentID); err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	e := &models.Enrollment{
		StudentID:  req.StudentID,
		SchoolYear: schoolYear,
		Quarter:    quarter,
		GradeLevel: gradeLevel,
	}

	var overrides services.EligibilityOverrides
	if guardian != nil {
		e.GuardianID = &guardian.ID
	} else {
		// Discounts and progression overrides are staff decisions.
		e.DiscountCents = req.DiscountCents
		overrides = services.EligibilityOverrides{
			AllowRetention:    req.AllowRetention,
			AllowAcceleration: req.AllowAcceleration,
		}
	}

	if err := database.CreateEnrollment(db, e, overrides); err != nil {
		if mapped := eligibilityError(err); mapped != nil {
			return mapped
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit enrollment")
	}

	services.NotifyGuardiansOfStudent(db, e.StudentID, services.EventEnrollmentSubmitted,
		"Enrollment submitted",
		fmt.Sprintf("An enrollment for %s, school year %s, has been submitted and is awaiting review.", e.GradeLevel, e.SchoolYear))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": e})
}

// CheckEligibilityAPI runs the eligibility rules without creating
// anything, so the enrollment form can surface problems up front.
func CheckEligibilityAPI(c *fiber.Ctx) error {
	studentID := c.Query("student_id")
	gradeLevel := models.GradeLevel(c.Query("grade_level"))
	schoolYear := c.Query("school_year", config.AppConfig.CurrentSchoolYear)

	if studentID == "" || !models.IsValidGrade(gradeLevel) {
		return fiber.NewError(fiber.StatusBadRequest, "student_id and a valid grade_level are required")
	}
	if !models.IsSchoolYear(schoolYear) {
		return fiber.NewError(fiber.StatusBadRequest, "school_year must be consecutive years like 2025-2026")
	}

	db := config.GetDB()
	if _, err := requireStudentVisible(c, db, studentID); err != nil {
		return err
	}

	history, err := database.GetEnrollmentsByStudent(db, studentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load enrollment history")
	}

	result := fiber.Map{"eligible": true}
	if err := services.CheckEligibility(history, schoolYear, gradeLevel, services.EligibilityOverrides{}); err != nil {
		result["eligible"] = false
		result["reason"] = err.Error()
	}
	if grade, ok := services.CurrentGradeLevel(history); ok {
		result["current_grade"] = grade
		if next, ok := models.NextGrade(grade); ok {
			result["expected_grade"] = next
		}
	}
	result["new_student"] = services.IsNewStudent(history)

	return c.JSON(fiber.Map{"success": true, "data": result})
}

func ListEnrollmentsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	filters := database.EnrollmentFilters{
		SchoolYear:    c.Query("school_year"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		GradeLevel:    c.Query("grade_level"),
		Search:        c.Query("search"),
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}
	if guardian != nil {
		filters.GuardianID = guardian.ID
		filters.Search = ""
	}

	summaries, total, err := database.ListEnrollments(db, filters)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch enrollments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summaries,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func GetEnrollmentAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	e, err := database.GetEnrollmentByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch enrollment")
	}

	if _, err := requireStudentVisible(c, db, e.StudentID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": e})
}

func UpdateEnrollmentAPI(c *fiber.Ctx) error {
	var req UpdateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Grade level and quarter are required")
	}

	gradeLevel := models.GradeLevel(req.GradeLevel)
	quarter := models.Quarter(req.Quarter)
	if !models.IsValidGrade(gradeLevel) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown grade level")
	}
	if !models.IsValidQuarter(quarter) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown quarter")
	}

	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}

	updated, err := database.UpdatePendingEnrollment(config.GetDB(), c.Params("id"), guardian.ID, gradeLevel, quarter)
	if err == sql.ErrNoRows || errors.Is(err, database.ErrNotOwnedByCaller) {
		// Ownership failures are indistinguishable from absence.
		return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
	}
	if errors.Is(err, database.ErrEditNotPermitted) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		if mapped := eligibilityError(err); mapped != nil {
			return mapped
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update enrollment")
	}

	return c.JSON(fiber.Map{"success": true, "data": updated})
}

func CancelEnrollmentAPI(c *fiber.Ctx) error {
	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}

	err = database.CancelPendingEnrollment(config.GetDB(), c.Params("id"), guardian.ID)
	if err == sql.ErrNoRows || errors.Is(err, database.ErrNotOwnedByCaller) {
		return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
	}
	if errors.Is(err, database.ErrEditNotPermitted) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to cancel enrollment")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Enrollment cancelled"})
}

func ApproveEnrollmentAPI(c *fiber.Ctx) error {
	var req ApproveRequest
	_ = c.BodyParser(&req)

	principal := auth.CurrentPrincipal(c)
	db := config.GetDB()

	e, err := database.ApproveEnrollment(db, c.Params("id"), principal.UserID, req.Remarks)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
	}
	if errors.Is(err, database.ErrNotPending) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to approve enrollment")
	}

	services.NotifyGuardiansOfStudent(db, e.StudentID, services.EventEnrollmentApproved,
		"Enrollment approved",
		fmt.Sprintf("The enrollment for %s, school year %s, has been approved.", e.GradeLevel, e.SchoolYear))

	return c.JSON(fiber.Map{"success": true, "data": e})
}

func RejectEnrollmentAPI(c *fiber.Ctx) error {
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "A rejection reason is required")
	}

	principal := auth.CurrentPrincipal(c)
	db := config.GetDB()

	e, err := database.RejectEnrollment(db, c.Params("id"), principal.UserID, req.Reason)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
	}
	if errors.Is(err, database.ErrNotPending) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reject enrollment")
	}

	services.NotifyGuardiansOfStudent(db, e.StudentID, services.EventEnrollmentRejected,
		"Enrollment rejected",
		fmt.Sprintf("The enrollment for %s, school year %s, was rejected: %s", e.GradeLevel, e.SchoolYear, req.Reason))

	return c.JSON(fiber.Map{"success": true, "data": e})
}

func BulkApproveAPI(c *fiber.Ctx) error {
	var req BulkApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "At least one enrollment ID is required")
	}

	principal := auth.CurrentPrincipal(c)

	approved, err := database.BulkApproveEnrollments(config.GetDB(), req.EnrollmentIDs, principal.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to approve enrollments")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"approved": approved,
		"skipped":  len(req.EnrollmentIDs) - approved,
	})
}

func CompleteEnrollmentAPI(c *fiber.Ctx) error {
	e, err := database.CompleteEnrollment(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
	}
	if errors.Is(err, database.ErrNotEnrolled) || errors.Is(err, database.ErrUnpaidCompletion) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to complete enrollment")
	}

	return c.JSON(fiber.Map{"success": true, "data": e})
}
