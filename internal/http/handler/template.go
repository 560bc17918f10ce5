package handler

import (
	"github.com/gofiber/fiber/v2"

	"auditapi/internal/service"
)

// CreateTemplate stores a new blank audit template.
func CreateTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TemplateInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "malformed request body")
		}

		tmpl, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tmpl)
	}
}

// ListTemplates returns all templates pending fill.
func ListTemplates(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		templates, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(templates)
	}
}

// GetTemplate returns a single template by id.
func GetTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tmpl, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tmpl)
	}
}

// UpdateTemplate replaces a template's restaurant name and sections in place.
func UpdateTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TemplateInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "malformed request body")
		}

		tmpl, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tmpl)
	}
}

// DeleteTemplate removes a template by id.
func DeleteTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
