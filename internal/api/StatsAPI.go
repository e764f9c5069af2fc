package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/httpresponse"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/service"
)

type StatsAPI struct {
	Router  fiber.Router
	Service *service.Service
}

func (api *StatsAPI) Register() {
	api.Router.Get(
		"/stats/dashboard", func(c *fiber.Ctx) error {
			return httpresponse.ApplySuccessToResponse(c, api.Service.Dashboard())
		},
	)
}
