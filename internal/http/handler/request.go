package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"auditapi/internal/http/middleware"
	"auditapi/internal/model"
	"auditapi/internal/service"
)

// currentActor pulls the resolved actor out of the context. The Actor
// middleware guards every workflow route, so absence means a wiring bug.
func currentActor(c *fiber.Ctx) (model.Actor, error) {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return model.Actor{}, writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}
	return actor, nil
}

// fileInput opens a multipart file header as a service FileInput.
// The returned closer must be invoked after the service call completes.
func fileInput(fh *multipart.FileHeader) (service.FileInput, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return service.FileInput{}, nil, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return service.FileInput{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	}, func() { _ = f.Close() }, nil
}

// loadRequestResponse is the tagged found/not-found envelope for a plan's
// explanation request. Absence of a request is a normal state, not a 404.
type loadRequestResponse struct {
	Found   bool                      `json:"found"`
	Request *model.ExplanationRequest `json:"request,omitempty"`
}

// LoadRequest returns the single explanation request for a plan.
func LoadRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		planID := c.Params("planId")
		if _, err := uuid.Parse(planID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid plan id format")
		}
		req, found, err := svc.Load(c.UserContext(), planID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(loadRequestResponse{Found: found, Request: req})
	}
}

// CreateRequest opens an explanation request for a plan
// (multipart/form-data: responder_id plus one or more files).
func CreateRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		planID := c.Params("planId")
		if _, err := uuid.Parse(planID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid plan id format")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		}
		responderID := c.FormValue("responder_id")

		headers := form.File["files"]
		inputs := make([]service.FileInput, 0, len(headers))
		for _, fh := range headers {
			in, closeFn, err := fileInput(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer closeFn()
			inputs = append(inputs, in)
		}

		req, err := svc.Create(c.UserContext(), actor, planID, responderID, inputs)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

// updateRequestPayload is the JSON body for request updates.
type updateRequestPayload struct {
	ResponderID string              `json:"responder_id"`
	Status      model.RequestStatus `json:"status"`
}

// UpdateRequest sets responder and status; attachments are untouched.
func UpdateRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var payload updateRequestPayload
		if err := c.BodyParser(&payload); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		req, err := svc.Update(c.UserContext(), actor, id, payload.ResponderID, payload.Status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(req)
	}
}

// CompleteRequest transitions a pending request to completed.
func CompleteRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		req, err := svc.Complete(c.UserContext(), actor, id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(req)
	}
}

// DeleteRequest removes a request; files and content entries go with it.
func DeleteRequest(svc service.RequestService) fiber.Handler {
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

// AddRequestFile attaches one more file to an existing request
// (multipart/form-data, field name: file).
func AddRequestFile(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		in, closeFn, err := fileInput(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFn()

		stored, err := svc.AddAttachment(c.UserContext(), actor, id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(stored)
	}
}

// RemoveRequestFile detaches and removes one request file.
func RemoveRequestFile(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := currentActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.RemoveAttachment(c.UserContext(), actor, id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadRequestFile redirects to a time-limited download URL.
func DownloadRequestFile(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.AttachmentDownloadURL(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}
