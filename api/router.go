package api

import (
	"net/http"

	"food-pick/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	MenuHandler *MenuHandler
	Log         *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Log))
	r.Use(Metrics())
	r.Use(CORS())

	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if h := cfg.MenuHandler; h != nil {
		menus := api.Group("/menus")
		{
			menus.GET("", h.All)
			menus.GET("/:id", h.ByID)
			menus.GET("/category/:category", h.ByCategory)
			menus.GET("/categories", h.ByCategories)
			menus.GET("/search", h.Search)
			menus.GET("/spicy", h.Spicy)
			menus.GET("/diet", h.Diet)
			menus.GET("/no-liquid", h.NoLiquid)
			menus.GET("/price/:range", h.ByPriceRange)
			menus.GET("/filter", h.Filter)
			menus.GET("/situation/:situation", h.BySituation)
			menus.GET("/weather/:weather", h.ByWeather)
			menus.GET("/random", h.Random)
			menus.GET("/recommend", h.RecommendQuery)
			menus.POST("/recommend", h.RecommendBody)
		}

		meta := api.Group("/meta")
		{
			meta.GET("/categories", h.Categories)
			meta.GET("/price-ranges", h.PriceRanges)
		}
	}
	return r
}
