package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"codelm-be/internal/dto"
	"codelm-be/internal/pkg/serverutils"
	"codelm-be/internal/service"
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sourceController struct {
	service service.ISourceService
}

func NewSourceController(service service.ISourceService) ISourceController {
	return &sourceController{service: service}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebook/v1/:id/sources")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.GetAll)
	h.Delete("", c.Delete)
}

// Upload accepts multipart form files under the "files" field. The response
// lists what was accepted for background indexing and what was rejected.
func (c *sourceController) Upload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	notebookId, _ := uuid.Parse(ctx.Params("id"))

	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Multipart form is required"))
	}

	files := form.File["files"]
	if len(files) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "At least one file is required"))
	}

	res, err := c.service.Upload(ctx.Context(), userId, notebookId, files)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Sources accepted for indexing", res))
}

func (c *sourceController) GetAll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	notebookId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.GetAll(ctx.Context(), userId, notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sources", res))
}

func (c *sourceController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	notebookId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.DeleteSourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NotebookId = notebookId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete source", nil))
}
