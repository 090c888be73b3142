package endpoint_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/config"
	"github.com/ariebrainware/coffee-brokerage/endpoint"
	"github.com/ariebrainware/coffee-brokerage/middleware"
	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// requestParams groups HTTP request parameters to reduce function arguments
type requestParams struct {
	method  string
	path    string
	body    interface{}
	headers map[string]string
}

// fakeClock is a manually advanced audit.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	trail  *audit.Trail
	clock  *fakeClock
}

// setupTestDB opens a fresh in-memory database with every table migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := *config.LoadConfig()
	cfg.SQLitePath = fmt.Sprintf("file:testdb_endpoint_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := config.Open(&cfg)
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

// setupEndpointTest wires the router the way main does, with a fake clock
// and a fixed network so audit entries are deterministic.
func setupEndpointTest(t *testing.T) *testEnv {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	trail := audit.NewTrail(audit.Options{
		Clock: clock,
		Probe: audit.StaticProbe(audit.NetworkInfo{Type: "4g", Speed: "10 Mbps", Latency: 50}),
	})
	t.Cleanup(trail.Close)

	db := setupTestDB(t)
	r := gin.New()
	r.Use(middleware.RequestContext(), middleware.DatabaseMiddleware(db), middleware.TrailMiddleware(trail))
	endpoint.RegisterRoutes(r, middleware.RateLimitConfig{})

	return &testEnv{router: r, db: db, trail: trail, clock: clock}
}

func doRequest(t *testing.T, r http.Handler, params requestParams) (*httptest.ResponseRecorder, apiResp) {
	t.Helper()
	var body []byte
	switch v := params.body.(type) {
	case nil:
	case string:
		body = []byte(v)
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		body = b
	}

	req := httptest.NewRequest(params.method, params.path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	for k, v := range params.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResp
	if json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func decodeData(t *testing.T, resp apiResp, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func sampleAddress() model.Address {
	return model.Address{
		Street:  "Rua das Flores",
		Number:  "120",
		City:    "Varginha",
		State:   "MG",
		Country: "Brasil",
		ZipCode: "37010-000",
	}
}

func clientBody(name, cpf string) map[string]interface{} {
	return map[string]interface{}{
		"name": name,
		"cpf":  cpf,
		"bankInfo": model.BankInfo{
			BankName:      "Banco do Brasil",
			AccountNumber: "12345-6",
			Branch:        "0001",
			AccountType:   model.AccountChecking,
		},
		"warehouseAddress": sampleAddress(),
	}
}

func companyBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":    name,
		"cnpj":    "12.345.678/0001-90",
		"address": sampleAddress(),
		"bankInfo": model.BankInfo{
			BankName:      "Sicoob",
			AccountNumber: "999-1",
			Branch:        "3001",
			AccountType:   model.AccountSavings,
		},
	}
}

func createClient(t *testing.T, env *testEnv, name, cpf string) model.Client {
	t.Helper()
	w, resp := doRequest(t, env.router, requestParams{method: http.MethodPost, path: "/client", body: clientBody(name, cpf)})
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)
	var c model.Client
	decodeData(t, resp, &c)
	return c
}

func contractBody(sellerID, buyerID uint) map[string]interface{} {
	return map[string]interface{}{
		"sellerId":        sellerID,
		"buyerId":         buyerID,
		"deliveryAddress": sampleAddress(),
		"quantity":        100,
		"price":           1250.5,
		"date":            "2024-05-10T00:00:00Z",
	}
}

// setupContractParties registers the company and two clients.
func setupContractParties(t *testing.T, env *testEnv) (seller, buyer model.Client) {
	t.Helper()
	w, resp := doRequest(t, env.router, requestParams{method: http.MethodPut, path: "/company", body: companyBody("Café Corretora")})
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	return createClient(t, env, "Seller Farm", "111.111.111-11"), createClient(t, env, "Buyer Roastery", "222.222.222-22")
}
