package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/clock"
	"github.com/roomledger/roomledger/internal/config"
	ledgerdomain "github.com/roomledger/roomledger/internal/ledger/domain"
	ledgerrepository "github.com/roomledger/roomledger/internal/ledger/repository"
	ledgerservice "github.com/roomledger/roomledger/internal/ledger/service"
	"github.com/roomledger/roomledger/internal/observability"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	propertyrepository "github.com/roomledger/roomledger/internal/property/repository"
	propertyservice "github.com/roomledger/roomledger/internal/property/service"
	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
	tenancyrepository "github.com/roomledger/roomledger/internal/tenancy/repository"
	tenancyservice "github.com/roomledger/roomledger/internal/tenancy/service"
	billdomain "github.com/roomledger/roomledger/internal/utilitybill/domain"
	billrepository "github.com/roomledger/roomledger/internal/utilitybill/repository"
	billservice "github.com/roomledger/roomledger/internal/utilitybill/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&propertydomain.Property{},
		&tenancydomain.Tenancy{},
		&billdomain.UtilityBill{},
		&billdomain.BillAllocation{},
		&billdomain.BillCalculation{},
		&ledgerdomain.Account{},
		&ledgerdomain.Entry{},
		&ledgerdomain.EntryLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.Fixed{T: time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)}

	ledgerRepo := ledgerrepository.Provide()
	for _, account := range ledgerservice.DefaultAccounts() {
		account.ID = node.Generate()
		require.NoError(t, ledgerRepo.EnsureAccount(context.Background(), db, &account))
	}
	ledgerSvc := ledgerservice.New(ledgerservice.Params{DB: db, Log: log, GenID: node, Repo: ledgerRepo})

	propertyRepo := propertyrepository.Provide()
	tenancyRepo := tenancyrepository.Provide()

	propertySvc := propertyservice.New(propertyservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk, Repo: propertyRepo,
	})
	tenancySvc := tenancyservice.New(tenancyservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk, Repo: tenancyRepo, PropertyRepo: propertyRepo,
	})
	billSvc := billservice.New(billservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: billrepository.Provide(), PropertyRepo: propertyRepo, TenancyRepo: tenancyRepo,
		Ledger: ledgerSvc,
	})

	srv := NewServer(Params{
		Config:      config.Config{},
		Log:         log,
		DB:          db,
		Metrics:     observability.NewMetrics(),
		PropertySvc: propertySvc,
		TenancySvc:  tenancySvc,
		BillSvc:     billSvc,
		LedgerSvc:   ledgerSvc,
	})
	return srv.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthAndReadiness(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/v1/readiness", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data struct {
			Status           string `json:"status"`
			ActiveProperties int    `json:"active_properties"`
			LedgerSeeded     bool   `json:"ledger_seeded"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "ready", body.Data.Status)
	require.True(t, body.Data.LedgerSeeded)
}

func TestPropertyLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/v1/properties", gin.H{
		"name":         "Sunset Villa",
		"billing_mode": "shared",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var created struct {
		Data propertydomain.Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.Equal(t, "sunset-villa", created.Data.Code)

	resp = doJSON(t, router, http.MethodGet, "/v1/properties/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/v1/properties/"+snowflake.ID(77).String(), nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)

	// Unknown billing mode maps to a 400 with a stable code.
	resp := doJSON(t, router, http.MethodPost, "/v1/properties", gin.H{
		"name":         "Bad",
		"billing_mode": "hourly",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "invalid_billing_mode", body.Error.Code)
	require.NotEmpty(t, body.Error.Message)
}

func TestPreviewOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/v1/prorations/preview", gin.H{
		"amount":       100,
		"period_start": "2024-01-01",
		"period_end":   "2024-01-10",
		"mode":         "shared",
		"tenants": []gin.H{
			{"id": "a", "name": "Alice", "start_date": "2024-01-01"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data struct {
			PerTenant []struct {
				Name   string  `json:"name"`
				Days   int     `json:"days_present"`
				Amount float64 `json:"amount_to_pay"`
			} `json:"per_tenant"`
			OwnerShare float64  `json:"owner_share"`
			Log        []string `json:"log"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data.PerTenant, 1)
	require.Equal(t, 10, body.Data.PerTenant[0].Days)
	require.InDelta(t, 100, body.Data.PerTenant[0].Amount, 1e-6)
	require.NotEmpty(t, body.Data.Log)

	// Reversed period is rejected before any computation.
	resp = doJSON(t, router, http.MethodPost, "/v1/prorations/preview", gin.H{
		"amount":       100,
		"period_start": "2024-01-10",
		"period_end":   "2024-01-01",
		"mode":         "shared",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.NotEmpty(t, resp.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "caller-supplied", rec.Header().Get("X-Request-Id"))
}
