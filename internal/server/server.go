package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/capitalninja/ninja/internal/server/handlers"
	"github.com/capitalninja/ninja/internal/server/middleware"
	"github.com/capitalninja/ninja/internal/store/postgres"
	"github.com/capitalninja/ninja/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/goto/salt/mux"
	gorillahandlers "github.com/gorilla/handlers"
	gorillamux "github.com/gorilla/mux"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type Config struct {
	Host string `mapstructure:"host" default:"0.0.0.0"`
	Port int    `mapstructure:"port" default:"8080"`

	// User Identity
	Identity IdentityConfig `mapstructure:"identity"`
}

func (cfg Config) addr() string { return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port) }

type IdentityConfig struct {
	HeaderKeyUserID    string `yaml:"headerkey_id" mapstructure:"headerkey_id" default:"Ninja-User-ID"`
	HeaderKeyUserEmail string `yaml:"headerkey_email" mapstructure:"headerkey_email" default:"Ninja-User-Email"`
}

// Services holds everything the HTTP API dispatches to.
type Services struct {
	Investor  handlers.InvestorService
	List      handlers.ListService
	Raise     handlers.RaiseService
	Campaign  handlers.CampaignService
	Team      handlers.TeamService
	User      middleware.UserService
	Lists     handlers.ListCounter
	Investors handlers.InvestorTypeCounter
}

// NewRouter builds the v1 API. Identity is required for every /v1 route.
func NewRouter(cfg Config, logger log.Logger, nrApp *newrelic.Application, statsdReporter *statsd.Reporter, svc Services) http.Handler {
	r := gorillamux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	r.Use(
		middleware.NewRelic(nrApp),
		middleware.StatsD(statsdReporter),
		middleware.DecodeURL(),
	)
	r.Path("/ping").Methods(http.MethodGet).HandlerFunc(handlers.Ping)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(middleware.ValidateUser(cfg.Identity.HeaderKeyUserID, cfg.Identity.HeaderKeyUserEmail, svc.User))

	investorHandler := handlers.NewInvestorHandler(logger, svc.Investor)
	v1.Path("/investors").Methods(http.MethodGet).HandlerFunc(investorHandler.Search)
	v1.Path("/investors").Methods(http.MethodPut).HandlerFunc(investorHandler.Upsert)
	v1.Path("/investors/contacts").Methods(http.MethodGet).HandlerFunc(investorHandler.Contacts)
	v1.Path("/investors/{id:[0-9]+}").Methods(http.MethodGet).HandlerFunc(investorHandler.GetByID)
	v1.Path("/investors/{id:[0-9]+}").Methods(http.MethodDelete).HandlerFunc(investorHandler.Delete)

	listHandler := handlers.NewListHandler(logger, svc.List)
	v1.Path("/lists").Methods(http.MethodGet).HandlerFunc(listHandler.GetAll)
	v1.Path("/lists").Methods(http.MethodPost).HandlerFunc(listHandler.Create)
	v1.Path("/lists/{id}").Methods(http.MethodGet).HandlerFunc(listHandler.GetByID)
	v1.Path("/lists/{id}").Methods(http.MethodPatch).HandlerFunc(listHandler.Update)
	v1.Path("/lists/{id}").Methods(http.MethodDelete).HandlerFunc(listHandler.Delete)
	v1.Path("/lists/{id}/investors").Methods(http.MethodGet).HandlerFunc(listHandler.GetInvestors)
	v1.Path("/lists/{id}/investors").Methods(http.MethodPost).HandlerFunc(listHandler.AddInvestors)
	v1.Path("/lists/{id}/investors").Methods(http.MethodDelete).HandlerFunc(listHandler.RemoveInvestors)

	raiseHandler := handlers.NewRaiseHandler(logger, svc.Raise)
	v1.Path("/raises").Methods(http.MethodGet).HandlerFunc(raiseHandler.GetAll)
	v1.Path("/raises").Methods(http.MethodPost).HandlerFunc(raiseHandler.Create)
	v1.Path("/raises/{id}").Methods(http.MethodGet).HandlerFunc(raiseHandler.GetByID)
	v1.Path("/raises/{id}").Methods(http.MethodPut).HandlerFunc(raiseHandler.Update)
	v1.Path("/raises/{id}").Methods(http.MethodDelete).HandlerFunc(raiseHandler.Delete)
	v1.Path("/raises/{id}/memo").Methods(http.MethodPatch).HandlerFunc(raiseHandler.UpdateMemo)

	campaignHandler := handlers.NewCampaignHandler(logger, svc.Campaign)
	v1.Path("/campaigns").Methods(http.MethodGet).HandlerFunc(campaignHandler.GetAll)
	v1.Path("/campaigns").Methods(http.MethodPost).HandlerFunc(campaignHandler.Create)
	v1.Path("/campaigns/{id}").Methods(http.MethodGet).HandlerFunc(campaignHandler.GetByID)
	v1.Path("/campaigns/{id}").Methods(http.MethodDelete).HandlerFunc(campaignHandler.Delete)

	teamHandler := handlers.NewTeamHandler(logger, svc.Team)
	v1.Path("/team/invitations").Methods(http.MethodPost).HandlerFunc(teamHandler.Invite)
	v1.Path("/team/invitations/{token}/accept").Methods(http.MethodPost).HandlerFunc(teamHandler.Accept)
	v1.Path("/team/members").Methods(http.MethodGet).HandlerFunc(teamHandler.Members)

	dashboardHandler := handlers.NewDashboardHandler(logger, svc.Lists, svc.Investors)
	v1.Path("/dashboard").Methods(http.MethodGet).HandlerFunc(dashboardHandler.Get)

	return r
}

func Serve(
	ctx context.Context,
	config Config,
	logger log.Logger,
	pgClient *postgres.Client,
	nrApp *newrelic.Application,
	statsdReporter *statsd.Reporter,
	services Services,
) error {
	router := NewRouter(config, logger, nrApp, statsdReporter, services)

	defer func() {
		if pgClient != nil {
			logger.Warn("closing db...")
			if err := pgClient.Close(); err != nil {
				logger.Error("error when closing db", "err", err)
			}
			logger.Warn("db closed...")
		}
	}()

	logger.Info("Starting server", "http_port", config.addr())
	if err := mux.Serve(
		ctx,
		mux.WithHTTPTarget(config.addr(), &http.Server{
			Handler:      gorillahandlers.CompressHandler(router),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}),
		mux.WithGracePeriod(5*time.Second),
	); !errors.Is(err, context.Canceled) {
		logger.Error("mux serve error", "err", err)
	}

	logger.Info("server stopped")
	return nil
}
