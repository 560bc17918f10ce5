package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"auditapi/internal/service"
)

// FillForm runs the fill pipeline against a template. The template id comes
// from the path when present; with no path id the service falls back to the
// configured default template.
func FillForm(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.FormInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "malformed request body")
		}

		res, err := svc.Fill(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// UpdateForm produces the next immutable version of an existing form,
// re-renders it, and appends a fresh ledger entry.
func UpdateForm(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.FormInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "malformed request body")
		}

		res, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetFormVersion returns the snapshot of a form lineage at an exact version.
func GetFormVersion(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		version, err := strconv.Atoi(c.Params("version"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "version must be an integer")
		}

		form, err := svc.GetVersion(c.UserContext(), c.Params("id"), version)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(form)
	}
}

// ListUserForms returns a user's audit forms. ?status=FILLED restricts to
// filled forms; ?sort=version_desc orders newest version first.
func ListUserForms(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filledOnly := c.Query("status") == "FILLED"
		sortVersionDesc := c.Query("sort") == "version_desc"

		forms, err := svc.ListUserForms(c.UserContext(), c.Params("userId"), filledOnly, sortVersionDesc)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(forms)
	}
}

// DeleteForm removes a form. Its ledger entries remain; the ledger is
// append-only.
func DeleteForm(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetLatestArtifact returns the newest ledger entry for a form lineage,
// carrying the presigned PDF URL.
func GetLatestArtifact(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, err := svc.LatestArtifact(c.UserContext(), c.Params("formId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entry)
	}
}
