package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"arsip/internal/http/middleware"
	"arsip/internal/service"
)

// PurgeDeleted permanently removes documents soft-deleted more than `days`
// ago (default 90). dry_run=true only reports what would go.
//
// @Summary Purge soft-deleted documents
// @Tags Maintenance
// @Security BearerAuth
// @Produce json
// @Param days query int false "Age in days, default 90"
// @Param dry_run query bool false "Only list candidates"
// @Success 200 {object} successPayload
// @Failure 403 {object} errorPayload
// @Router /api/maintenance/purge [post]
func PurgeDeleted(svc service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Unparsable values are rejected, never defaulted.
		verr := &service.ValidationError{}
		days := queryInt64(c, "days", verr)
		dryRun := false
		if raw := c.Query("dry_run"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				verr.Add("dry_run", "Nilai tidak valid")
			}
			dryRun = v
		}
		if err := verr.OrNil(); err != nil {
			return respondError(c, err)
		}

		res, err := svc.PurgeDeleted(c.UserContext(), middleware.CurrentUser(c), int(days), dryRun)
		if err != nil {
			return respondError(c, err)
		}
		msg := "Pembersihan selesai"
		if res.DryRun {
			msg = "Simulasi pembersihan selesai"
		}
		return respond(c, fiber.StatusOK, msg, res)
	}
}
