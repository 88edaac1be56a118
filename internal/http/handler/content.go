package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"auditapi/internal/model"
	"auditapi/internal/service"
)

// contentListResponse wraps the entries of one request.
type contentListResponse struct {
	Data []model.ContentEntry `json:"data"`
}

// ListContents returns the content entries of a request, newest first.
func ListContents(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		entries, err := svc.List(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(contentListResponse{Data: entries})
	}
}

// optionalFile reads the optional "file" multipart field. A missing field is
// not an error; the entry may be text-only.
func optionalFile(c *fiber.Ctx) (*service.FileInput, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, func() {}, nil
	}
	in, closeFn, err := fileInput(fh)
	if err != nil {
		return nil, func() {}, err
	}
	return &in, closeFn, nil
}

// CreateContent adds an entry under a request
// (multipart/form-data: body text plus optional file).
func CreateContent(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		file, closeFn, err := optionalFile(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFn()

		entry, err := svc.Create(c.UserContext(), actor, id, c.FormValue("body"), file)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// optionalBody reads the "body" multipart field, telling an omitted field
// apart from an explicit empty value. Omitted means the stored body stays.
func optionalBody(c *fiber.Ctx) *string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	values, ok := form.Value["body"]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// EditContent updates an entry's body and/or replaces its file.
func EditContent(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		file, closeFn, err := optionalFile(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFn()

		entry, err := svc.Edit(c.UserContext(), actor, id, optionalBody(c), file)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(entry)
	}
}

// evaluatePayload is the JSON body for reviewer decisions.
type evaluatePayload struct {
	Decision model.ContentStatus `json:"decision"`
}

// EvaluateContent records a reviewer decision on an entry.
func EvaluateContent(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var payload evaluatePayload
		if err := c.BodyParser(&payload); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		entry, err := svc.Evaluate(c.UserContext(), actor, id, payload.Decision)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(entry)
	}
}

// DeleteContent removes one content entry.
func DeleteContent(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
