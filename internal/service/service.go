package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/arogya-systems/hip-exchange/internal/service/config"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr/postgres"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir"
	hipHTTP "github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/http"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/app"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/app/queries"
	"github.com/arogya-systems/hip-exchange/internal/service/runtime"
)

type Service struct {
	httpServer *http.Server
	pool       *pgxpool.Pool
	log        zerolog.Logger
}

func NewHIPExchangeService(ctx context.Context) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "hip-exchange").Logger()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	store := postgres.NewStore(pool)

	orgResolver := fhir.StaticResolver{
		Org: fhir.Org{
			ID:     cfg.Org.ID,
			Name:   cfg.Org.Name,
			System: cfg.Org.System,
		},
		BaseURL:         cfg.Org.BaseURL,
		CareContextType: cfg.Org.CareContextType,
	}

	queryBus := app.NewQueryBus(
		queries.NewGetPrescriptionsHandler(store, orgResolver, log),
		queries.NewGetOPConsultsHandler(store, orgResolver, log),
		queries.NewGetDiagnosticReportsHandler(store, orgResolver, log),
		queries.NewGetMedicationRequestsHandler(store, orgResolver, log),
	)

	handler := hipHTTP.NewServer(queryBus, log)
	httpServer := runtime.NewHTTPServer(cfg, hipHTTP.Router(handler), log)

	return &Service{
		httpServer: httpServer,
		pool:       pool,
		log:        log,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(timeoutCtx); err != nil {
		return err
	}
	s.pool.Close()

	s.log.Info().Msg("stopped")
	return nil
}
