package students

import (
	"database/sql"
	"strconv"
	"time"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateStudentRequest struct {
	FirstName  string            `json:"first_name" validate:"required"`
	LastName   string            `json:"last_name" validate:"required"`
	Birthdate  models.CustomTime `json:"birthdate" validate:"required"`
	Gender     models.Gender     `json:"gender" validate:"required,oneof=male female other"`
	GradeLevel string            `json:"grade_level"`

	// Only honored for guardian callers, who are linked to the new
	// student automatically.
	Relationship models.RelationshipType `json:"relationship_type"`
}

type UpdateStudentRequest struct {
	FirstName  string            `json:"first_name" validate:"required"`
	LastName   string            `json:"last_name" validate:"required"`
	Birthdate  models.CustomTime `json:"birthdate" validate:"required"`
	Gender     models.Gender     `json:"gender" validate:"required,oneof=male female other"`
	GradeLevel string            `json:"grade_level"`
	IsActive   *bool             `json:"is_active"`
}

type LinkGuardianRequest struct {
	GuardianID       string                  `json:"guardian_id" validate:"required,uuid"`
	Relationship     models.RelationshipType `json:"relationship_type" validate:"required"`
	IsPrimaryContact bool                    `json:"is_primary_contact"`
}

func ListStudentsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}
	if guardian != nil {
		students, err := database.GetStudentsForGuardian(db, guardian.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
		}
		return c.JSON(fiber.Map{"success": true, "data": students, "total": len(students)})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	filters := database.StudentFilters{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		GradeLevel: c.Query("grade_level"),
		Gender:     c.Query("gender"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	students, total, err := database.GetStudentsWithFilters(db, filters)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    students,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func StudentsStatsAPI(c *fiber.Ctx) error {
	stats, err := database.GetStudentsStats(config.GetDB())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student stats")
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// CreateStudentAPI registers a new student. Staff create unlinked rows;
// a guardian caller is linked to the child they register.
func CreateStudentAPI(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid student details: "+err.Error())
	}
	if req.GradeLevel != "" && !models.IsValidGrade(models.GradeLevel(req.GradeLevel)) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown grade level")
	}

	db := config.GetDB()

	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}

	number, err := database.GenerateStudentNumber(db, time.Now().Year())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate student number")
	}

	student := &models.Student{
		StudentNumber: number,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Birthdate:     req.Birthdate,
		Gender:        req.Gender,
		GradeLevel:    models.GradeLevel(req.GradeLevel),
	}
	if err := database.CreateStudent(db, student); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}

	if guardian != nil {
		relationship := req.Relationship
		if relationship == "" {
			relationship = models.LegalGuardian
		}
		if err := database.LinkGuardianToStudent(db, guardian.ID, student.ID, relationship, true); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to link guardian to student")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": student})
}

func GetStudentAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")
	db := config.GetDB()

	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}
	if guardian != nil {
		linked, err := database.IsGuardianOf(db, guardian.ID, studentID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check access")
		}
		if !linked {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
	}

	student, err := database.GetStudentByID(db, studentID)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	guardians, err := database.GetStudentGuardians(db, studentID)
	if err == nil {
		student.Guardians = guardians
	}

	return c.JSON(fiber.Map{"success": true, "data": student})
}

func UpdateStudentAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid student details: "+err.Error())
	}
	if req.GradeLevel != "" && !models.IsValidGrade(models.GradeLevel(req.GradeLevel)) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown grade level")
	}

	db := config.GetDB()
	student, err := database.GetStudentByID(db, studentID)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Birthdate = req.Birthdate
	student.Gender = req.Gender
	student.GradeLevel = models.GradeLevel(req.GradeLevel)
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := database.UpdateStudent(db, student); err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update student")
	}

	return c.JSON(fiber.Map{"success": true, "data": student})
}

func DeleteStudentAPI(c *fiber.Ctx) error {
	err := database.DeleteStudent(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete student")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Student deleted"})
}

func GetStudentGuardiansAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")
	db := config.GetDB()

	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}
	if guardian != nil {
		linked, err := database.IsGuardianOf(db, guardian.ID, studentID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check access")
		}
		if !linked {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
	}

	links, err := database.GetStudentGuardians(db, studentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch guardians")
	}
	return c.JSON(fiber.Map{"success": true, "data": links})
}

func LinkGuardianAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")

	var req LinkGuardianRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Guardian and relationship are required")
	}

	db := config.GetDB()
	if _, err := database.GetGuardianByID(db, req.GuardianID); err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Guardian not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch guardian")
	}

	if err := database.LinkGuardianToStudent(db, req.GuardianID, studentID, req.Relationship, req.IsPrimaryContact); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to link guardian")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Guardian linked"})
}

func UnlinkGuardianAPI(c *fiber.Ctx) error {
	err := database.UnlinkGuardianFromStudent(config.GetDB(), c.Params("guardianId"), c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Link not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to unlink guardian")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Guardian unlinked"})
}
