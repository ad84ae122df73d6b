package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"arsip/internal/service"
)

// DashboardStats returns totals, the last twelve months and top uploaders.
//
// @Summary Dashboard statistics
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successPayload
// @Router /api/dashboard/stats [get]
func DashboardStats(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Stats(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", st)
	}
}

// MonthlyReport summarises one month. month=YYYY-MM defaults to the
// current month; format=csv returns a download instead of JSON.
//
// @Summary Monthly report
// @Tags Dashboard
// @Security BearerAuth
// @Produce json,text/csv
// @Param month query string false "YYYY-MM"
// @Param format query string false "json or csv"
// @Success 200 {object} successPayload
// @Failure 400 {object} errorPayload
// @Router /api/reports/monthly [get]
func MonthlyReport(svc service.DashboardService, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		period := now()
		if raw := c.Query("month"); raw != "" {
			t, err := time.Parse("2006-01", raw)
			if err != nil {
				return respondError(c, service.FieldError("month", "Format bulan harus YYYY-MM"))
			}
			period = t
		}

		r, err := svc.MonthlyReport(c.UserContext(), period.Year(), period.Month())
		if err != nil {
			return respondError(c, err)
		}

		switch c.Query("format", "json") {
		case "json":
			return respond(c, fiber.StatusOK, "", r)
		case "csv":
			var buf bytes.Buffer
			if err := r.WriteCSV(&buf); err != nil {
				return err
			}
			c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
			c.Attachment(fmt.Sprintf("laporan_dokumen_%04d_%02d.csv", r.Year, int(r.Month)))
			return c.Send(buf.Bytes())
		}
		return respondError(c, service.FieldError("format", "Format harus json atau csv"))
	}
}
