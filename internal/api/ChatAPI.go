package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/httpresponse"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/service"
)

type ChatAPI struct {
	Router  fiber.Router
	Service *service.Service
}

type historyResponse struct {
	ConversationID string            `json:"conversation_id"`
	Turns          []domain.ChatTurn `json:"turns"`
}

func (api *ChatAPI) Register() {
	// Generation failures come back as a normal response carrying the
	// fallback text; only caller mistakes produce an error status here.
	api.Router.Post(
		"/chat", func(c *fiber.Ctx) error {
			var req service.ChatRequest
			if err := c.BodyParser(&req); err != nil {
				return httpresponse.ApplyErrorToResponse(c, apperr.NewValidationError("invalid chat request body", err.Error()))
			}

			resp, err := api.Service.Chat(c.UserContext(), req)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}
			return httpresponse.ApplySuccessToResponse(c, resp)
		},
	)

	api.Router.Get(
		"/chat/suggestions", func(c *fiber.Ctx) error {
			return httpresponse.ApplySuccessToResponse(c, fiber.Map{"suggestions": api.Service.Suggestions()})
		},
	)

	api.Router.Get(
		"/chat/:conversation_id/history", func(c *fiber.Ctx) error {
			id := c.Params("conversation_id")
			turns, err := api.Service.History(c.UserContext(), id)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}
			return httpresponse.ApplySuccessToResponse(c, historyResponse{ConversationID: id, Turns: turns})
		},
	)
}
