package documents

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"
	"lakeside-academy/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

const maxUploadBytes = 10 << 20 // 10 MB

type RejectDocumentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// fetchVisibleDocument loads a document with guardian row scoping applied.
func fetchVisibleDocument(c *fiber.Ctx, db *sql.DB, documentID string) (*models.Document, *models.Guardian, error) {
	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return nil, nil, err
	}

	var d *models.Document
	if guardian != nil {
		d, err = database.GetDocumentForGuardian(db, documentID, guardian.ID)
	} else {
		d, err = database.GetDocumentByID(db, documentID)
	}
	if err == sql.ErrNoRows {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch document")
	}
	return d, guardian, nil
}

// UploadDocumentAPI accepts a multipart upload and records the document
// in pending verification status.
func UploadDocumentAPI(c *fiber.Ctx) error {
	studentID := c.FormValue("student_id")
	documentType := models.DocumentType(c.FormValue("document_type"))
	enrollmentID := c.FormValue("enrollment_id")

	if studentID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "student_id is required")
	}
	if !models.IsValidDocumentType(documentType) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown document type")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "A file is required")
	}
	if file.Size > maxUploadBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "File exceeds the 10 MB limit")
	}

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

	path, err := store.Store(file, "documents/"+studentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to store file")
	}

	d := &models.Document{
		StudentID:    studentID,
		DocumentType: documentType,
		FileName:     file.Filename,
		FilePath:     path,
	}
	if enrollmentID != "" {
		d.EnrollmentID = &enrollmentID
	}

	if err := database.CreateDocument(db, d); err != nil {
		if delErr := store.Delete(path); delErr != nil {
			log.Printf("failed to remove orphaned upload %s: %v", path, delErr)
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record document")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": d})
}

func ListDocumentsAPI(c *fiber.Ctx) error {
	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}
	guardianID := ""
	if guardian != nil {
		guardianID = guardian.ID
	}

	documents, err := database.ListDocuments(config.GetDB(), c.Query("student_id"), c.Query("status"), guardianID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch documents")
	}
	return c.JSON(fiber.Map{"success": true, "data": documents, "total": len(documents)})
}

func GetDocumentAPI(c *fiber.Ctx) error {
	d, _, err := fetchVisibleDocument(c, config.GetDB(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"data":         d,
		"download_url": store.URL(d.FilePath, 15*time.Minute),
	})
}

func VerifyDocumentAPI(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	db := config.GetDB()

	d, err := database.VerifyDocument(db, c.Params("id"), principal.UserID)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	if errors.Is(err, database.ErrNotPendingDocument) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to verify document")
	}

	services.NotifyGuardiansOfStudent(db, d.StudentID, services.EventDocumentVerified,
		"Document verified",
		fmt.Sprintf("The %s document %q has been verified.", d.DocumentType, d.FileName))

	return c.JSON(fiber.Map{"success": true, "data": d})
}

func RejectDocumentAPI(c *fiber.Ctx) error {
	var req RejectDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "A rejection reason is required")
	}

	principal := auth.CurrentPrincipal(c)
	db := config.GetDB()

	d, err := database.RejectDocument(db, c.Params("id"), principal.UserID, req.Reason)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	if errors.Is(err, database.ErrNotPendingDocument) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reject document")
	}

	services.NotifyGuardiansOfStudent(db, d.StudentID, services.EventDocumentRejected,
		"Document rejected",
		fmt.Sprintf("The %s document %q was rejected: %s", d.DocumentType, d.FileName, req.Reason))

	return c.JSON(fiber.Map{"success": true, "data": d})
}

// DeleteDocumentAPI removes the record, then attempts file deletion. A
// failed file delete is logged and swallowed; the record is already gone.
func DeleteDocumentAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	d, guardian, err := fetchVisibleDocument(c, db, c.Params("id"))
	if err != nil {
		return err
	}
	// Guardians may only remove documents still awaiting verification.
	if guardian != nil && d.VerificationStatus != models.VerificationPending {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Only pending documents can be removed")
	}

	filePath, err := database.DeleteDocument(db, d.ID)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete document")
	}

	if err := store.Delete(filePath); err != nil {
		log.Printf("failed to delete document file %s: %v", filePath, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Document deleted"})
}

// DownloadFileAPI serves a stored file when the signed URL checks out.
func DownloadFileAPI(c *fiber.Ctx) error {
	path := c.Params("*")
	expires := c.Query("expires")
	signature := c.Query("signature")

	if !store.Verify(path, expires, signature) {
		return fiber.NewError(fiber.StatusForbidden, "Invalid or expired link")
	}
	return c.SendFile(store.AbsolutePath(path))
}
