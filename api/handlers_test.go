package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"food-pick/logger"
	"food-pick/models"
	"food-pick/services"
	"food-pick/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func menu(id int64, name string, mutate func(*models.MenuItem)) models.MenuItem {
	m := models.MenuItem{
		ID: id, Name: name, Category: models.CategoryKorean, PriceRange: models.PriceUnder10K,
		AloneScore: 3, DateScore: 3, FamilyScore: 3, GroupScore: 3,
		HotWeatherScore: 3, ColdWeatherScore: 3, RainyWeatherScore: 3,
	}
	if mutate != nil {
		mutate(&m)
	}
	return m
}

func fixtures() []models.MenuItem {
	desc := "묵은지 찌개"
	return []models.MenuItem{
		menu(1, "김치찌개", func(m *models.MenuItem) {
			m.Description = &desc
			m.SpicyLevel, m.HasLiquidOrSauce = 3, true
			m.AloneScore, m.ColdWeatherScore, m.RainyWeatherScore, m.HotWeatherScore = 5, 5, 4, 2
		}),
		menu(2, "초밥", func(m *models.MenuItem) {
			m.Category, m.PriceRange, m.DietFriendly = models.CategoryJapanese, models.PriceUnder30K, true
			m.DateScore, m.HotWeatherScore = 5, 5
		}),
		menu(3, "삼겹살", func(m *models.MenuItem) {
			m.PriceRange = models.PriceUnder20K
			m.GroupScore, m.FamilyScore, m.AloneScore = 5, 4, 1
		}),
		menu(4, "떡볶이", func(m *models.MenuItem) {
			m.Category, m.SpicyLevel, m.HasLiquidOrSauce = models.CategorySnack, 4, true
		}),
	}
}

func newTestRouter(s store.MenuStore) *gin.Engine {
	log := logger.Nop()
	svc := services.NewMenuService(s, log)
	return NewRouter(RouterConfig{MenuHandler: NewMenuHandler(svc, log), Log: log})
}

func do(t *testing.T, r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMenus(t *testing.T, w *httptest.ResponseRecorder) []MenuResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out []MenuResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func menuNames(ms []MenuResponse) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestHealthcheckAndRequestID(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore())
	w := do(t, r, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(fixtures()...))
	do(t, r, http.MethodGet, "/api/menus", nil)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodpick_http_request_duration_seconds")
}

func TestGetMenuByID(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(fixtures()...))

	w := do(t, r, http.MethodGet, "/api/menus/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "김치찌개", got["name"])
	assert.Equal(t, "KOREAN", got["category"])
	assert.Equal(t, "한식", got["categoryDisplay"])
	assert.Equal(t, "1만원 이하", got["priceRangeDisplay"])
	assert.Equal(t, "묵은지 찌개", got["description"])
	assert.Equal(t, true, got["hasLiquidOrSauce"])
	scores := got["scores"].(map[string]any)
	assert.EqualValues(t, 4, scores["rainyWeather"])
	assert.EqualValues(t, 5, scores["alone"])

	w = do(t, r, http.MethodGet, "/api/menus/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"not_found"`)

	w = do(t, r, http.MethodGet, "/api/menus/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpoints(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(fixtures()...))

	tests := []struct {
		target string
		want   []string
	}{
		{"/api/menus", []string{"김치찌개", "초밥", "삼겹살", "떡볶이"}},
		{"/api/menus/category/japanese", []string{"초밥"}},
		{"/api/menus/category/간식", []string{"떡볶이"}},
		{"/api/menus/categories?categories=KOREAN,SNACK", []string{"김치찌개", "삼겹살", "떡볶이"}},
		{"/api/menus/categories?categories=JAPANESE&categories=snack", []string{"초밥", "떡볶이"}},
		{"/api/menus/categories", []string{}},
		{"/api/menus/search?name=찌개", []string{"김치찌개"}},
		{"/api/menus/spicy?max=3", []string{"김치찌개", "초밥", "삼겹살"}},
		{"/api/menus/diet", []string{"초밥"}},
		{"/api/menus/no-liquid", []string{"초밥", "삼겹살"}},
		{"/api/menus/price/under_20k", []string{"삼겹살"}},
		{"/api/menus/filter?categories=KOREAN&hasLiquidOrSauce=true", []string{"김치찌개"}},
		{"/api/menus/filter?maxSpicy=0&priceRange=UNDER_30K", []string{"초밥"}},
		{"/api/menus/situation/group", []string{"삼겹살"}},
		{"/api/menus/situation/family?minScore=3", []string{"김치찌개", "초밥", "삼겹살", "떡볶이"}},
		{"/api/menus/situation/picnic", []string{}},
		{"/api/menus/weather/hot", []string{"초밥"}},
		{"/api/menus/weather/겨울", []string{"김치찌개"}},
		{"/api/menus/weather/rainy", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got := decodeMenus(t, do(t, r, http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.want, menuNames(got))
		})
	}
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(fixtures()...))

	for _, target := range []string{
		"/api/menus/category/pizza",
		"/api/menus/categories?categories=pizza",
		"/api/menus/search",
		"/api/menus/spicy",
		"/api/menus/spicy?max=9",
		"/api/menus/spicy?max=hot",
		"/api/menus/price/free",
		"/api/menus/filter?priceRange=free",
		"/api/menus/situation/date?minScore=8",
		"/api/menus/random?count=-1",
		"/api/menus/recommend?maxSpicy=6",
		"/api/menus/recommend?priceRange=free",
	} {
		t.Run(target, func(t *testing.T) {
			w := do(t, r, http.MethodGet, target, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"bad_request"`)
		})
	}
}

func TestRandom(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(fixtures()...))

	assert.Len(t, decodeMenus(t, do(t, r, http.MethodGet, "/api/menus/random?count=2", nil)), 2)
	assert.Len(t, decodeMenus(t, do(t, r, http.MethodGet, "/api/menus/random", nil)), 4)
}

func TestRecommend(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(fixtures()...))

	got := decodeMenus(t, do(t, r, http.MethodGet, "/api/menus/recommend?situation=혼밥&weather=cold", nil))
	assert.Equal(t, []string{"김치찌개", "초밥", "떡볶이"}, menuNames(got))

	got = decodeMenus(t, do(t, r, http.MethodGet, "/api/menus/recommend?weather=spring", nil))
	assert.Empty(t, got)

	got = decodeMenus(t, do(t, r, http.MethodGet, "/api/menus/recommend?avoidLiquid=true", nil))
	assert.Equal(t, []string{"초밥", "삼겹살"}, menuNames(got))

	body, _ := json.Marshal(map[string]any{
		"situation":  "date",
		"weather":    "hot",
		"categories": []string{"JAPANESE", "KOREAN"},
	})
	got = decodeMenus(t, do(t, r, http.MethodPost, "/api/menus/recommend", body))
	assert.Equal(t, []string{"초밥", "삼겹살"}, menuNames(got))

	w := do(t, r, http.MethodPost, "/api/menus/recommend", []byte(`{"maxSpicy": "x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetaEndpoints(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore())

	w := do(t, r, http.MethodGet, "/api/meta/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats []EnumResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	require.Len(t, cats, len(models.Categories()))
	assert.Equal(t, EnumResponse{Value: "CAFE", Display: "카페/디저트"}, cats[5])

	w = do(t, r, http.MethodGet, "/api/meta/price-ranges", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":"OVER_30K"`)
}

type brokenStore struct{ store.MenuStore }

func (brokenStore) FetchAll(context.Context) ([]models.MenuItem, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestStoreFailureIsInternalError(t *testing.T) {
	r := newTestRouter(brokenStore{MenuStore: store.NewMemoryStore()})
	w := do(t, r, http.MethodGet, "/api/menus", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
