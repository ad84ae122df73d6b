package handler

import (
	"mime"
	"path"

	"github.com/gofiber/fiber/v2"

	"arsip/internal/http/middleware"
	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/service"
)

const defaultActivityLimit = 50

type createDocumentForm struct {
	CategoryID   int64  `form:"category_id" json:"category_id" validate:"required,gt=0"`
	DocumentDate string `form:"document_date" json:"document_date" validate:"required,datetime=2006-01-02"`
}

type updateDocumentRequest struct {
	CategoryID   int64  `form:"category_id" json:"category_id" validate:"gte=0"`
	DocumentDate string `form:"document_date" json:"document_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListDocuments lists active documents.
//
// @Summary List documents
// @Tags Documents
// @Security BearerAuth
// @Produce json
// @Param category query int false "Category ID (a root includes its children)"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param search query string false "Free text"
// @Param created_by query string false "Uploader user ID"
// @Param page query int false "Page, starting at 1"
// @Param page_size query int false "Page size, max 100"
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		verr := &service.ValidationError{}
		f := repository.DocumentFilter{
			CategoryID: queryInt64(c, "category", verr),
			DateFrom:   queryDate(c, "date_from", verr),
			DateTo:     queryDate(c, "date_to", verr),
			Search:     c.Query("search"),
			CreatedBy:  c.Query("created_by"),
		}
		if err := verr.OrNil(); err != nil {
			return respondError(c, err)
		}

		res, err := svc.List(c.UserContext(), f, pageParams(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument stores a non-SPD PDF (multipart/form-data, field name: file).
//
// @Summary Upload document
// @Tags Documents
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF, max 10 MB"
// @Param category_id formData int true "Category ID"
// @Param document_date formData string true "YYYY-MM-DD"
// @Success 201 {object} successPayload
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /api/documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form createDocumentForm
		if err := bind(c, &form); err != nil {
			return respondError(c, err)
		}
		verr := &service.ValidationError{}
		date := parseDate("document_date", form.DocumentDate, verr)
		if err := verr.OrNil(); err != nil {
			return respondError(c, err)
		}

		file, closeFile, err := uploadedFile(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "File tidak dapat dibaca")
		}
		defer closeFile()

		doc, err := svc.Create(c.UserContext(), middleware.CurrentUser(c), service.CreateDocumentInput{
			CategoryID:   form.CategoryID,
			DocumentDate: date,
			File:         file,
		})
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusCreated, "Dokumen berhasil diunggah", doc)
	}
}

// GetDocument returns one active document.
//
// @Summary Get document
// @Tags Documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument changes category or date. Omitted fields are kept.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		var req updateDocumentRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		verr := &service.ValidationError{}
		date := parseDate("document_date", req.DocumentDate, verr)
		if err := verr.OrNil(); err != nil {
			return respondError(c, err)
		}

		doc, err := svc.Update(c.UserContext(), middleware.CurrentUser(c), id, service.UpdateDocumentInput{
			CategoryID:   req.CategoryID,
			DocumentDate: date,
		})
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Dokumen berhasil diperbarui", doc)
	}
}

// DeleteDocument soft-deletes a document.
//
// @Summary Delete document
// @Tags Documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func RestoreDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := svc.Restore(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Dokumen berhasil dipulihkan", doc)
	}
}

// DownloadDocument streams the PDF as an attachment and records a download.
//
// @Summary Download document
// @Tags Documents
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Document ID"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return serveDocument(svc, model.ActionDownload, "attachment")
}

// PreviewDocument streams the PDF inline and records a view.
func PreviewDocument(svc service.DocumentService) fiber.Handler {
	return serveDocument(svc, model.ActionView, "inline")
}

func serveDocument(svc service.DocumentService, action model.ActionType, disposition string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		opened, err := svc.Open(c.UserContext(), middleware.CurrentUser(c), id, action)
		if err != nil {
			return respondError(c, err)
		}

		name := opened.Document.FileName
		if name == "" {
			name = path.Base(opened.Document.FilePath)
		}
		c.Set(fiber.HeaderContentType, opened.ContentType)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{"filename": name}))
		// fasthttp closes the body once it has been written.
		return c.SendStream(opened.Body, int(opened.Size))
	}
}

// DocumentActivities lists the audit trail of a document, newest first.
//
// @Summary Document activities
// @Tags Documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Document ID"
// @Param limit query int false "Max entries"
// @Success 200 {object} successPayload
// @Router /api/documents/{id}/activities [get]
func DocumentActivities(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		items, err := svc.Activities(c.UserContext(), id, c.QueryInt("limit", defaultActivityLimit))
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", items)
	}
}
