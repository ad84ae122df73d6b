package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"arsip/internal/archive"
	"arsip/internal/service"
)

var validate = newValidator()

// newValidator reports fields by their wire name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Wajib diisi"
	case "min":
		return fmt.Sprintf("Minimal %s karakter", fe.Param())
	case "max":
		return fmt.Sprintf("Maksimal %s karakter", fe.Param())
	case "datetime":
		return "Format tanggal harus YYYY-MM-DD"
	}
	return "Nilai tidak valid"
}

// validateStruct runs the struct tags and converts failures into a
// service.ValidationError so they render like service-side rule errors.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}
	verr := &service.ValidationError{}
	for _, fe := range fes {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

// bind parses a JSON or form body into dst and validates it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return service.FieldError("body", "Format request tidak valid")
	}
	return validateStruct(dst)
}

// parseDate returns the zero time for an empty value.
func parseDate(field, s string, verr *service.ValidationError) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := archive.ParseDate(s)
	if err != nil {
		verr.Add(field, "Format tanggal harus YYYY-MM-DD")
		return time.Time{}
	}
	return t
}

func queryDate(c *fiber.Ctx, key string, verr *service.ValidationError) *time.Time {
	t := parseDate(key, c.Query(key), verr)
	if t.IsZero() {
		return nil
	}
	return &t
}

func queryInt64(c *fiber.Ctx, key string, verr *service.ValidationError) int64 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		verr.Add(key, "Nilai tidak valid")
		return 0
	}
	return n
}

func pageParams(c *fiber.Ctx) service.PageParams {
	return service.PageParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	}
}

// documentID validates a UUID path parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// numericID validates a positive integer path parameter.
func numericID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "ID tidak valid")
}

// uploadedFile opens the "file" part of a multipart request. The returned
// close func must be called once the service is done with the content.
func uploadedFile(c *fiber.Ctx) (service.UploadFile, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return service.UploadFile{}, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return service.UploadFile{}, func() {}, err
	}
	return service.UploadFile{Name: fh.Filename, Size: fh.Size, Content: f}, func() { f.Close() }, nil
}
