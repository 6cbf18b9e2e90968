package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/praxislegal/praxis/internal/client"
	clientdomain "github.com/praxislegal/praxis/internal/client/domain"
	"github.com/praxislegal/praxis/internal/config"
	"github.com/praxislegal/praxis/internal/contact"
	contactdomain "github.com/praxislegal/praxis/internal/contact/domain"
	"github.com/praxislegal/praxis/internal/currency"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/interaction"
	interactiondomain "github.com/praxislegal/praxis/internal/interaction/domain"
	"github.com/praxislegal/praxis/internal/invoice"
	invoicedomain "github.com/praxislegal/praxis/internal/invoice/domain"
	"github.com/praxislegal/praxis/internal/lead"
	leaddomain "github.com/praxislegal/praxis/internal/lead/domain"
	"github.com/praxislegal/praxis/internal/observability"
	obsmiddleware "github.com/praxislegal/praxis/internal/observability/logger"
	obsmetrics "github.com/praxislegal/praxis/internal/observability/metrics"
	obstracing "github.com/praxislegal/praxis/internal/observability/tracing"
	"github.com/praxislegal/praxis/internal/opportunity"
	opportunitydomain "github.com/praxislegal/praxis/internal/opportunity/domain"
	"github.com/praxislegal/praxis/internal/partnershare"
	partnersharedomain "github.com/praxislegal/praxis/internal/partnershare/domain"
	"github.com/praxislegal/praxis/internal/providers"
	"github.com/praxislegal/praxis/internal/providers/pdf"
	"github.com/praxislegal/praxis/internal/ratecard"
	ratecarddomain "github.com/praxislegal/praxis/internal/ratecard/domain"
	"github.com/praxislegal/praxis/internal/timesheet"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(func() firmctx.Capability { return firmctx.AllowAll{} }),
	currency.Module,
	ratecard.Module,
	timesheet.Module,
	providers.Module,
	invoice.Module,
	partnershare.Module,
	lead.Module,
	client.Module,
	contact.Module,
	opportunity.Module,
	interaction.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	currencySvc     currencydomain.Service
	rateCardSvc     ratecarddomain.Service
	timesheetSvc    timesheetdomain.Service
	invoiceSvc      invoicedomain.Service
	partnerShareSvc partnersharedomain.Service
	leadSvc         leaddomain.Service
	clientSvc       clientdomain.Service
	contactSvc      contactdomain.Service
	opportunitySvc  opportunitydomain.Service
	interactionSvc  interactiondomain.Service

	pdfProvider pdf.Provider
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	CurrencySvc     currencydomain.Service
	RateCardSvc     ratecarddomain.Service
	TimesheetSvc    timesheetdomain.Service
	InvoiceSvc      invoicedomain.Service
	PartnerShareSvc partnersharedomain.Service
	LeadSvc         leaddomain.Service
	ClientSvc       clientdomain.Service
	ContactSvc      contactdomain.Service
	OpportunitySvc  opportunitydomain.Service
	InteractionSvc  interactiondomain.Service

	PDFProvider pdf.Provider
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		currencySvc:     p.CurrencySvc,
		rateCardSvc:     p.RateCardSvc,
		timesheetSvc:    p.TimesheetSvc,
		invoiceSvc:      p.InvoiceSvc,
		partnerShareSvc: p.PartnerShareSvc,
		leadSvc:         p.LeadSvc,
		clientSvc:       p.ClientSvc,
		contactSvc:      p.ContactSvc,
		opportunitySvc:  p.OpportunitySvc,
		interactionSvc:  p.InteractionSvc,
		pdfProvider:     p.PDFProvider,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.FirmContext())

	// -------- Currency --------
	api.GET("/currencies", s.ListCurrencies)
	api.GET("/currency/rate", s.GetExchangeRate)
	api.POST("/currency/convert", s.ConvertCurrency)

	// -------- Rate cards --------
	api.GET("/rate-cards", s.ListRateCards)
	api.POST("/rate-cards", s.CreateRateCard)
	api.GET("/rate-cards/resolve", s.ResolveRate)
	api.GET("/rate-cards/:id", s.GetRateCard)
	api.PUT("/rate-cards/:id", s.UpdateRateCard)
	api.DELETE("/rate-cards/:id", s.DeleteRateCard)

	// -------- Timesheets --------
	api.GET("/timesheets", s.ListTimesheetEntries)
	api.POST("/timesheets", s.CreateTimesheetEntry)
	api.GET("/timesheets/:id", s.GetTimesheetEntry)
	api.POST("/timesheets/:id/approve", s.ApproveTimesheetEntry)
	api.POST("/timesheets/:id/reject", s.RejectTimesheetEntry)
	api.PUT("/timesheets/:id/expenses", s.SetExpenseInclusion)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.POST("/invoices/generate", s.GenerateInvoice)
	api.GET("/invoices/:id", s.GetInvoice)
	api.PUT("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.POST("/invoices/:id/split", s.SplitInvoice)
	api.POST("/invoices/:id/payments", s.RecordPayment)
	api.GET("/invoices/:id/document", s.DownloadInvoiceDocument)
	api.GET("/invoices/:id/shares", s.ListPartnerShares)
	api.PUT("/invoices/:id/shares", s.SetPartnerShares)
	api.GET("/invoices/:id/shares/report", s.PartnerShareReport)

	// -------- CRM --------
	api.GET("/leads", s.ListLeads)
	api.POST("/leads", s.CreateLead)
	api.GET("/leads/:id", s.GetLead)
	api.PUT("/leads/:id", s.UpdateLead)
	api.DELETE("/leads/:id", s.DeleteLead)

	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClient)
	api.PUT("/clients/:id", s.UpdateClient)
	api.GET("/clients/:id/matters", s.ListMatters)
	api.POST("/clients/:id/matters", s.CreateMatter)

	api.GET("/contacts", s.ListContacts)
	api.POST("/contacts", s.CreateContact)
	api.GET("/contacts/:id", s.GetContact)
	api.PUT("/contacts/:id", s.UpdateContact)
	api.DELETE("/contacts/:id", s.DeleteContact)

	api.GET("/opportunities", s.ListOpportunities)
	api.POST("/opportunities", s.CreateOpportunity)
	api.GET("/opportunities/:id", s.GetOpportunity)
	api.PUT("/opportunities/:id", s.UpdateOpportunity)
	api.DELETE("/opportunities/:id", s.DeleteOpportunity)

	api.GET("/interactions", s.ListInteractions)
	api.POST("/interactions", s.CreateInteraction)
	api.DELETE("/interactions/:id", s.DeleteInteraction)
}
