package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/httpresponse"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/service"
)

type SystemAPI struct {
	Router  fiber.Router
	Service *service.Service
}

func (api *SystemAPI) Register() {
	api.Router.Get(
		"/system/stats", func(c *fiber.Ctx) error {
			return httpresponse.ApplySuccessToResponse(c, api.Service.SystemStats())
		},
	)

	api.Router.Get(
		"/system/health", func(c *fiber.Ctx) error {
			return httpresponse.ApplySuccessToResponse(c, api.Service.Health())
		},
	)
}
