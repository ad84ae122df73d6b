package handler

import (
	"github.com/gofiber/fiber/v2"

	"arsip/internal/archive"
	"arsip/internal/http/middleware"
	"arsip/internal/service"
)

type createSPDForm struct {
	DocumentDate     string `form:"document_date" json:"document_date" validate:"required,datetime=2006-01-02"`
	EmployeeID       int64  `form:"employee" json:"employee" validate:"required,gt=0"`
	Destination      string `form:"destination" json:"destination" validate:"required,max=50"`
	DestinationOther string `form:"destination_other" json:"destination_other" validate:"max=200"`
	StartDate        string `form:"start_date" json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `form:"end_date" json:"end_date" validate:"required,datetime=2006-01-02"`
}

type updateSPDRequest struct {
	DocumentDate     string `form:"document_date" json:"document_date" validate:"omitempty,datetime=2006-01-02"`
	EmployeeID       int64  `form:"employee" json:"employee" validate:"gte=0"`
	Destination      string `form:"destination" json:"destination" validate:"max=50"`
	DestinationOther string `form:"destination_other" json:"destination_other" validate:"max=200"`
	StartDate        string `form:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate          string `form:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func spdInput(documentDate string, employeeID int64, destination, other, start, end string) (service.SPDInput, error) {
	verr := &service.ValidationError{}
	in := service.SPDInput{
		DocumentDate:     parseDate("document_date", documentDate, verr),
		EmployeeID:       employeeID,
		Destination:      destination,
		DestinationOther: other,
		StartDate:        parseDate("start_date", start, verr),
		EndDate:          parseDate("end_date", end, verr),
	}
	return in, verr.OrNil()
}

// ListSPD lists travel orders.
//
// @Summary List SPD
// @Tags SPD
// @Security BearerAuth
// @Produce json
// @Param employee query int false "Employee ID"
// @Param destination query string false "Destination code or free text"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param search query string false "Free text"
// @Param page query int false "Page, starting at 1"
// @Param page_size query int false "Page size, max 100"
// @Success 200 {object} service.DocumentListResult
// @Router /api/spd [get]
func ListSPD(svc service.SPDService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		verr := &service.ValidationError{}
		f := service.SPDFilter{
			EmployeeID:  queryInt64(c, "employee", verr),
			Destination: c.Query("destination"),
			DateFrom:    queryDate(c, "date_from", verr),
			DateTo:      queryDate(c, "date_to", verr),
			Search:      c.Query("search"),
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

// CreateSPD uploads a travel-order PDF with its metadata.
//
// @Summary Upload SPD
// @Tags SPD
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF, max 10 MB"
// @Param document_date formData string true "YYYY-MM-DD"
// @Param employee formData int true "Employee ID"
// @Param destination formData string true "Destination code"
// @Param destination_other formData string false "Required when destination is other"
// @Param start_date formData string true "YYYY-MM-DD"
// @Param end_date formData string true "YYYY-MM-DD"
// @Success 201 {object} successPayload
// @Failure 400 {object} errorPayload
// @Router /api/spd [post]
func CreateSPD(svc service.SPDService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form createSPDForm
		if err := bind(c, &form); err != nil {
			return respondError(c, err)
		}
		in, err := spdInput(form.DocumentDate, form.EmployeeID, form.Destination, form.DestinationOther, form.StartDate, form.EndDate)
		if err != nil {
			return respondError(c, err)
		}

		file, closeFile, err := uploadedFile(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "File tidak dapat dibaca")
		}
		defer closeFile()

		doc, err := svc.Create(c.UserContext(), middleware.CurrentUser(c), service.CreateSPDInput{SPDInput: in, File: file})
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusCreated, "SPD berhasil diunggah", doc)
	}
}

func GetSPD(svc service.SPDService) fiber.Handler {
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

// UpdateSPD replaces the metadata; the stored file is renamed to match.
func UpdateSPD(svc service.SPDService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		var req updateSPDRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		in, err := spdInput(req.DocumentDate, req.EmployeeID, req.Destination, req.DestinationOther, req.StartDate, req.EndDate)
		if err != nil {
			return respondError(c, err)
		}
		doc, err := svc.Update(c.UserContext(), middleware.CurrentUser(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "SPD berhasil diperbarui", doc)
	}
}

func DeleteSPD(svc service.SPDService) fiber.Handler {
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

// ListDestinations returns the fixed destination choices.
func ListDestinations() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return respond(c, fiber.StatusOK, "", archive.Destinations)
	}
}
