package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"codelm-be/internal/dto"
	"codelm-be/internal/pkg/serverutils"
	"codelm-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebook/v1/:id/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Ask)
	h.Get("", c.History)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	notebookId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NotebookId = notebookId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	notebookId, _ := uuid.Parse(ctx.Params("id"))

	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.History(ctx.Context(), userId, notebookId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
