package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/provider"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

type testApp struct {
	t         *testing.T
	engine    *gin.Engine
	container *provider.Container
}

func newPaystackStub(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/subaccount":
			_, _ = w.Write([]byte(`{"status":true,"message":"Subaccount created","data":{"subaccount_code":"ACCT_test","business_name":"Ada Obi"}}`))
		case r.URL.Path == "/bank/resolve" && r.URL.Query().Get("account_number") == "0123456789":
			_, _ = w.Write([]byte(`{"status":true,"message":"Account number resolved","data":{"account_number":"0123456789","account_name":"ADA OBI"}}`))
		case r.URL.Path == "/bank/resolve":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"status":false,"message":"Could not resolve account name"}`))
		case r.URL.Path == "/bank":
			_, _ = w.Write([]byte(`{"status":true,"message":"Banks retrieved","data":[{"name":"GTBank","code":"058","slug":"gtbank","active":true}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, models.InitDB("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}))
	require.NoError(t, models.AutoMigrate())

	paystackStub := newPaystackStub(t)
	cfg := &config.Config{
		Server:      config.ServerConfig{Mode: "debug"},
		UserJWT:     config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 24},
		Session:     config.SessionConfig{ExpireHours: 24},
		Upload:      config.UploadConfig{Dir: t.TempDir()},
		Paystack:    config.PaystackConfig{SecretKey: "sk_test", APIBaseURL: paystackStub.URL, PercentageCharge: 10},
		Marketplace: config.MarketplaceConfig{Currency: constants.CurrencyNGN, PlatformFeePercent: 10},
		Web:         config.WebConfig{SignInPath: "/sign-in", ArtistSetupPath: "/onboarding/artist"},
	}
	container := provider.NewContainer(cfg)
	t.Cleanup(container.Close)
	return &testApp{t: t, engine: SetupRouter(cfg, container), container: container}
}

func (a *testApp) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env apiEnvelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *testApp) signUp(email string) (uint, string) {
	a.t.Helper()
	_, env := a.do(http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{
		"name":            "Ada Obi",
		"email":           email,
		"password":        "sup3r-secret",
		"confirmPassword": "sup3r-secret",
	})
	require.Equal(a.t, 0, env.StatusCode, env.Msg)
	var data struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(a.t, data.Token)
	return data.User.ID, data.Token
}

func (a *testApp) becomeArtist(token string) uint {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/me/artist", token, map[string]string{
		"name":          "Ada Obi",
		"bio":           "Oil painter from Lagos",
		"portfolioUrl":  "https://ada.example.com",
		"accountNumber": "0123456789",
		"bankCode":      "058",
	})
	require.Equal(a.t, 0, env.StatusCode, env.Msg)
	assert.Equal(a.t, "Artist profile created successfully", env.Msg)
	assert.Contains(a.t, w.Header().Values("Set-Cookie")[0], "toast=")
	var artist models.Artist
	require.NoError(a.t, json.Unmarshal(env.Data, &artist))
	return artist.ID
}

func TestArtistRoutesRequireArtistProfile(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp("ada@example.com")

	w, _ := app.do(http.MethodGet, "/api/v1/artist/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := app.do(http.MethodGet, "/api/v1/artist/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, env.StatusCode)

	_, env = app.do(http.MethodGet, "/api/v1/me/artist", token, nil)
	assert.Equal(t, "null", string(env.Data))

	app.becomeArtist(token)

	w, env = app.do(http.MethodGet, "/api/v1/artist/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.StatusCode, env.Msg)

	_, env = app.do(http.MethodPost, "/api/v1/me/artist", token, map[string]string{
		"name":          "Ada Obi",
		"bio":           "Oil painter from Lagos",
		"accountNumber": "0123456789",
		"bankCode":      "058",
	})
	assert.Equal(t, 400, env.StatusCode)
	assert.Equal(t, "Artist profile already exists", env.Msg)
}

func TestSignOutInvalidatesToken(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp("ada@example.com")

	_, env := app.do(http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, 0, env.StatusCode)

	_, env = app.do(http.MethodPost, "/api/v1/auth/sign-out", token, nil)
	require.Equal(t, 0, env.StatusCode)

	w, _ := app.do(http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBankEndpointsBeforeArtistProfile(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp("ada@example.com")

	_, env := app.do(http.MethodGet, "/api/v1/artist/banks", token, nil)
	require.Equal(t, 0, env.StatusCode, env.Msg)
	assert.Contains(t, string(env.Data), `"code":"058"`)

	_, env = app.do(http.MethodPost, "/api/v1/artist/bank/validate", token, map[string]string{"accountNumber": "0123456789", "bankCode": "058"})
	assert.Equal(t, 0, env.StatusCode)
	assert.Equal(t, "Bank details validated successfully", env.Msg)

	_, env = app.do(http.MethodPost, "/api/v1/artist/bank/validate", token, map[string]string{"accountNumber": "0000000000", "bankCode": "058"})
	assert.Equal(t, 400, env.StatusCode)
	assert.Equal(t, "Invalid bank details", env.Msg)
}

func TestArtistSurface(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp("ada@example.com")
	artistID := app.becomeArtist(token)
	buyerID, _ := app.signUp("buyer@example.com")

	stock := 3
	artwork := &models.Artwork{
		ArtistID:    artistID,
		Title:       "Harmattan Morning",
		Description: "Oil on canvas, dusty light",
		Price:       2_500_000,
		Dimensions:  "60x90x3",
		Weight:      decimal.NewFromInt(2),
		Condition:   constants.ConditionNew,
		Category:    constants.CategoryPainting,
		Stock:       &stock,
	}
	require.NoError(t, models.DB.Create(artwork).Error)

	// 折扣
	_, env := app.do(http.MethodPost, "/api/v1/artist/discounts", token, map[string]interface{}{
		"code":        "LAUNCH10",
		"description": "Launch discount",
		"percentage":  10,
		"startDate":   "2099-01-01T00:00:00Z",
		"endDate":     "2099-02-01T00:00:00Z",
		"artworkIds":  []uint{artwork.ID},
	})
	require.Equal(t, 0, env.StatusCode, env.Msg)

	_, env = app.do(http.MethodGet, "/api/v1/artist/discounts", token, nil)
	require.Equal(t, 0, env.StatusCode)
	assert.Contains(t, string(env.Data), `"applied_to_artworks":1`)
	assert.Contains(t, string(env.Data), `"is_valid":false`)

	// 作品列表
	_, env = app.do(http.MethodGet, "/api/v1/artist/artworks?search=harmattan", token, nil)
	require.Equal(t, 0, env.StatusCode)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)
	assert.JSONEq(t, `{"current_page":1,"total_pages":1,"total_items":1}`, string(env.Pagination))

	// 超出总页数时返回空列表，分页信息保持真实总数
	_, env = app.do(http.MethodGet, "/api/v1/artist/artworks?page=3&limit=1", token, nil)
	require.Equal(t, 0, env.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.JSONEq(t, `{"current_page":3,"total_pages":1,"total_items":1}`, string(env.Pagination))

	_, env = app.do(http.MethodGet, "/api/v1/artist/artworks?page=0", token, nil)
	assert.Equal(t, 400, env.StatusCode)
	assert.Contains(t, string(env.Data), `"page"`)

	_, env = app.do(http.MethodGet, fmt.Sprintf("/api/v1/artist/artworks/%d", artwork.ID+100), token, nil)
	assert.Equal(t, 404, env.StatusCode)

	// 发货状态
	order, err := app.container.OrderPlacementService.PlaceOrder(context.Background(), service.PlaceOrderInput{
		BuyerID: buyerID,
		Status:  constants.OrderStatusPaid,
		Lines:   []service.PlaceOrderLine{{ArtworkID: artwork.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	shippingPath := fmt.Sprintf("/api/v1/artist/orders/%d/shipping", order.ID)
	_, env = app.do(http.MethodPatch, shippingPath, token, map[string]string{"status": "delivered"})
	assert.Equal(t, 409, env.StatusCode)
	assert.Contains(t, string(env.Data), `"success":false`)

	_, env = app.do(http.MethodPatch, shippingPath, token, map[string]string{"status": "SHIPPED"})
	require.Equal(t, 0, env.StatusCode, env.Msg)
	assert.Contains(t, string(env.Data), `"shipping_status":"SHIPPED"`)

	_, env = app.do(http.MethodPatch, "/api/v1/artist/orders/999999/shipping", token, map[string]string{"status": "SHIPPED"})
	assert.Equal(t, 404, env.StatusCode)
	assert.Equal(t, "Order not found", env.Msg)

	_, env = app.do(http.MethodGet, "/api/v1/artist/orders/recent", token, nil)
	require.Equal(t, 0, env.StatusCode)
	assert.Contains(t, string(env.Data), `"email":"buyer@example.com"`)

	_, env = app.do(http.MethodGet, "/api/v1/artist/dashboard?refresh=true", token, nil)
	require.Equal(t, 0, env.StatusCode)
	assert.Contains(t, string(env.Data), `"total_orders":1`)
}

func TestArtistPermissionCatalogIsSeeded(t *testing.T) {
	app := newTestApp(t)
	userID, token := app.signUp("ada@example.com")
	app.becomeArtist(token)

	_, env := app.do(http.MethodGet, "/api/v1/artist/permissions", token, nil)
	require.Equal(t, 0, env.StatusCode, env.Msg)
	var items []permissionCatalogItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.NotEmpty(t, items)

	for _, item := range items {
		allowed, err := app.container.AuthzService.EnforceUser(userID, "/api/v1"+item.Object, item.Method)
		require.NoError(t, err)
		assert.True(t, allowed, "route %s has no artist policy", item.Permission)
		assert.NotContains(t, item.Object, "bank")
	}
}

func TestDerivePermissionModule(t *testing.T) {
	assert.Equal(t, "orders", derivePermissionModule("/artist/orders/:id/shipping"))
	assert.Equal(t, "dashboard", derivePermissionModule("/artist/dashboard"))
	assert.Equal(t, "system", derivePermissionModule("/"))
}
