// Package server exposes the admin HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/config"
	ledgerdomain "github.com/roomledger/roomledger/internal/ledger/domain"
	"github.com/roomledger/roomledger/internal/observability"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	quotadomain "github.com/roomledger/roomledger/internal/quota/domain"
	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
	billdomain "github.com/roomledger/roomledger/internal/utilitybill/domain"
)

type Params struct {
	fx.In

	Config      config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	Metrics     *observability.Metrics
	PropertySvc propertydomain.Service
	TenancySvc  tenancydomain.Service
	BillSvc     billdomain.Service
	LedgerSvc   ledgerdomain.Service
	QuotaSvc    quotadomain.Service `optional:"true"`
}

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	db          *gorm.DB
	metrics     *observability.Metrics
	propertySvc propertydomain.Service
	tenancySvc  tenancydomain.Service
	billSvc     billdomain.Service
	ledgerSvc   ledgerdomain.Service
	quotaSvc    quotadomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:         p.Config,
		log:         p.Log.Named("server"),
		db:          p.DB,
		metrics:     p.Metrics,
		propertySvc: p.PropertySvc,
		tenancySvc:  p.TenancySvc,
		billSvc:     p.BillSvc,
		ledgerSvc:   p.LedgerSvc,
		quotaSvc:    p.QuotaSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(s.log))
	router.Use(MetricsMiddleware(s.metrics))

	router.GET("/healthz", s.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		prometheus.Gatherers{s.metrics.Registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)))

	v1 := router.Group("/v1")
	{
		v1.GET("/readiness", s.GetReadiness)

		v1.POST("/properties", s.CreateProperty)
		v1.GET("/properties", s.ListProperties)
		v1.GET("/properties/:id", s.GetProperty)
		v1.PATCH("/properties/:id", s.UpdateProperty)
		v1.POST("/properties/:id/archive", s.ArchiveProperty)

		v1.POST("/tenancies", s.CreateTenancy)
		v1.GET("/tenancies", s.ListTenancies)
		v1.GET("/tenancies/:id", s.GetTenancy)
		v1.PATCH("/tenancies/:id", s.UpdateTenancy)
		v1.POST("/tenancies/:id/end", s.EndTenancy)
		v1.DELETE("/tenancies/:id", s.DeleteTenancy)

		v1.POST("/utility-bills", s.CreateUtilityBill)
		v1.GET("/utility-bills", s.ListUtilityBills)
		v1.GET("/utility-bills/:id", s.GetUtilityBill)
		v1.PATCH("/utility-bills/:id", s.UpdateUtilityBill)
		v1.DELETE("/utility-bills/:id", s.DeleteUtilityBill)
		v1.POST("/utility-bills/:id/calculate", s.CalculateUtilityBill)

		v1.POST("/prorations/preview", s.PreviewProration)

		v1.GET("/ledger/accounts", s.ListLedgerAccounts)
		v1.GET("/ledger/entries", s.ListLedgerEntries)
	}

	return router
}

func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTP.Addr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
