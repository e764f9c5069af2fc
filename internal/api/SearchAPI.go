package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/httpresponse"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/service"
)

type SearchAPI struct {
	Router  fiber.Router
	Service *service.Service
}

type semanticResponse struct {
	Results []service.SearchResult `json:"results"`
	Query   string                 `json:"query"`
	Count   int                    `json:"count"`
}

func (api *SearchAPI) Register() {
	api.Router.Get(
		"/search/semantic", func(c *fiber.Ctx) error {
			limit, err := queryInt(c, "limit", 0)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}

			query := c.Query("query")
			results, err := api.Service.SemanticSearch(query, limit)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}
			return httpresponse.ApplySuccessToResponse(c, semanticResponse{Results: results, Query: query, Count: len(results)})
		},
	)

	api.Router.Get(
		"/organization/:name", func(c *fiber.Ctx) error {
			details, err := api.Service.OrganizationDetails(c.Params("name"))
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}
			return httpresponse.ApplySuccessToResponse(c, details)
		},
	)

	api.Router.Get(
		"/insights/financial", func(c *fiber.Ctx) error {
			insights, err := api.Service.FinancialInsights(c.UserContext(), c.Query("query", service.DefaultInsightQuery))
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}
			return httpresponse.ApplySuccessToResponse(c, insights)
		},
	)
}
