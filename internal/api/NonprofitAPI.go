package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/httpresponse"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/service"
)

const defaultPageLimit = 100

type NonprofitAPI struct {
	Router  fiber.Router
	Service *service.Service
}

type nonprofitPage struct {
	Nonprofits []domain.Nonprofit `json:"nonprofits"`
	Total      int                `json:"total"`
	Offset     int                `json:"offset"`
	Limit      int                `json:"limit"`
}

func (api *NonprofitAPI) Register() {
	api.Router.Get(
		"/nonprofits", func(c *fiber.Ctx) error {
			limit, err := queryInt(c, "limit", defaultPageLimit)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}
			offset, err := queryInt(c, "offset", 0)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}

			filter := domain.ListFilter{
				Search:   c.Query("search"),
				NTEECode: c.Query("ntee_code"),
			}
			page, total, err := api.Service.ListNonprofits(offset, limit, filter)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}

			return httpresponse.ApplySuccessToResponse(c, nonprofitPage{
				Nonprofits: page,
				Total:      total,
				Offset:     offset,
				Limit:      limit,
			})
		},
	)

	api.Router.Get(
		"/nonprofits/:ein", func(c *fiber.Ctx) error {
			rec, err := api.Service.Nonprofit(c.Params("ein"))
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, err)
			}
			return httpresponse.ApplySuccessToResponse(c, rec)
		},
	)
}

// queryInt reads an integer query parameter. An absent parameter yields def.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewInvalidArgumentError(key+" must be an integer", raw)
	}
	return v, nil
}
