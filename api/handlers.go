package api

import (
	"errors"
	"net/http"
	"strconv"

	"food-pick/logger"
	"food-pick/models"
	"food-pick/services"
	"food-pick/validation"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menus *services.MenuService
	log   *logger.Logger
}

func NewMenuHandler(menus *services.MenuService, baseLog *logger.Logger) *MenuHandler {
	return &MenuHandler{menus: menus, log: baseLog.With("handler", "MenuHandler")}
}

func (h *MenuHandler) list(c *gin.Context, items []models.MenuItem, err error) {
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewMenuResponses(items))
}

// bindQuery binds the query string into dst and validates it.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		respondBadRequest(c, err)
		return false
	}
	if err := validation.Struct(dst); err != nil {
		respondBadRequest(c, err)
		return false
	}
	return true
}

// GET /api/menus
func (h *MenuHandler) All(c *gin.Context) {
	items, err := h.menus.All(c.Request.Context())
	h.list(c, items, err)
}

// GET /api/menus/:id
func (h *MenuHandler) ByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, errors.New("id must be a positive integer"))
		return
	}
	m, err := h.menus.ByID(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewMenuResponse(*m))
}

// GET /api/menus/category/:category
func (h *MenuHandler) ByCategory(c *gin.Context) {
	cat, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	items, err := h.menus.ByCategory(c.Request.Context(), cat)
	h.list(c, items, err)
}

// GET /api/menus/categories?categories=KOREAN,JAPANESE
func (h *MenuHandler) ByCategories(c *gin.Context) {
	var q categoriesQuery
	if !bindQuery(c, &q) {
		return
	}
	cats, err := parseCategories(q.Categories)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	items, err := h.menus.ByCategories(c.Request.Context(), cats)
	h.list(c, items, err)
}

// GET /api/menus/search?name=
func (h *MenuHandler) Search(c *gin.Context) {
	var q searchQuery
	if !bindQuery(c, &q) {
		return
	}
	items, err := h.menus.SearchByName(c.Request.Context(), q.Name)
	h.list(c, items, err)
}

// GET /api/menus/spicy?max=
func (h *MenuHandler) Spicy(c *gin.Context) {
	var q spicyQuery
	if !bindQuery(c, &q) {
		return
	}
	items, err := h.menus.BySpicyLevel(c.Request.Context(), *q.Max)
	h.list(c, items, err)
}

// GET /api/menus/diet
func (h *MenuHandler) Diet(c *gin.Context) {
	items, err := h.menus.DietFriendly(c.Request.Context())
	h.list(c, items, err)
}

// GET /api/menus/no-liquid
func (h *MenuHandler) NoLiquid(c *gin.Context) {
	items, err := h.menus.WithoutLiquid(c.Request.Context())
	h.list(c, items, err)
}

// GET /api/menus/price/:range
func (h *MenuHandler) ByPriceRange(c *gin.Context) {
	p, err := models.ParsePriceRange(c.Param("range"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	items, err := h.menus.ByPriceRange(c.Request.Context(), p)
	h.list(c, items, err)
}

// GET /api/menus/filter
func (h *MenuHandler) Filter(c *gin.Context) {
	var q filterQuery
	if !bindQuery(c, &q) {
		return
	}
	cats, err := parseCategories(q.Categories)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	f := services.Filter{
		Categories:       cats,
		MaxSpicy:         q.MaxSpicy,
		DietFriendly:     q.DietFriendly,
		HasLiquidOrSauce: q.HasLiquidOrSauce,
	}
	if q.PriceRange != "" {
		p, err := models.ParsePriceRange(q.PriceRange)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		f.PriceRange = &p
	}
	items, err := h.menus.Filtered(c.Request.Context(), f)
	h.list(c, items, err)
}

// GET /api/menus/situation/:situation?minScore=
func (h *MenuHandler) BySituation(c *gin.Context) {
	var q minScoreQuery
	if !bindQuery(c, &q) {
		return
	}
	sit := models.ParseSituation(c.Param("situation"))
	items, err := h.menus.ForSituation(c.Request.Context(), sit, q.MinScore)
	h.list(c, items, err)
}

// GET /api/menus/weather/:weather?minScore=
func (h *MenuHandler) ByWeather(c *gin.Context) {
	var q minScoreQuery
	if !bindQuery(c, &q) {
		return
	}
	w := models.ParseWeather(c.Param("weather"))
	items, err := h.menus.ForWeather(c.Request.Context(), w, q.MinScore)
	h.list(c, items, err)
}

// GET /api/menus/random?count=
func (h *MenuHandler) Random(c *gin.Context) {
	var q randomQuery
	if !bindQuery(c, &q) {
		return
	}
	items, err := h.menus.Random(c.Request.Context(), q.Count)
	h.list(c, items, err)
}

// GET /api/menus/recommend reads criteria from the query string.
func (h *MenuHandler) RecommendQuery(c *gin.Context) {
	var req recommendRequest
	if !bindQuery(c, &req) {
		return
	}
	h.recommend(c, req)
}

// POST /api/menus/recommend reads criteria from a JSON body.
func (h *MenuHandler) RecommendBody(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondBadRequest(c, err)
		return
	}
	h.recommend(c, req)
}

func (h *MenuHandler) recommend(c *gin.Context, req recommendRequest) {
	criteria, err := services.CriteriaFromStrings(req.raw())
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	items, err := h.menus.Recommend(c.Request.Context(), criteria)
	h.list(c, items, err)
}

// GET /api/meta/categories
func (h *MenuHandler) Categories(c *gin.Context) {
	out := make([]EnumResponse, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		out = append(out, EnumResponse{Value: string(cat), Display: cat.DisplayName()})
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/meta/price-ranges
func (h *MenuHandler) PriceRanges(c *gin.Context) {
	out := make([]EnumResponse, 0, len(models.PriceRanges()))
	for _, p := range models.PriceRanges() {
		out = append(out, EnumResponse{Value: string(p), Display: p.DisplayName()})
	}
	c.JSON(http.StatusOK, out)
}
