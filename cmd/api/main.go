package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liftlog/liftlog-api/internal/adapters/httpapi"
	memcalorierepo "github.com/liftlog/liftlog-api/internal/adapters/memory/calorierepo"
	memexerciserepo "github.com/liftlog/liftlog-api/internal/adapters/memory/exerciserepo"
	memidempotency "github.com/liftlog/liftlog-api/internal/adapters/memory/idempotency"
	memlocationrepo "github.com/liftlog/liftlog-api/internal/adapters/memory/locationrepo"
	memprofilerepo "github.com/liftlog/liftlog-api/internal/adapters/memory/profilerepo"
	memtemplaterepo "github.com/liftlog/liftlog-api/internal/adapters/memory/templaterepo"
	memworkoutrepo "github.com/liftlog/liftlog-api/internal/adapters/memory/workoutrepo"
	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	pgcalorierepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/calorierepo"
	pgexerciserepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/exerciserepo"
	pgidempotency "github.com/liftlog/liftlog-api/internal/adapters/postgres/idempotency"
	pglocationrepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/locationrepo"
	pgprofilerepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/profilerepo"
	pgtemplaterepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/templaterepo"
	pgworkoutrepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/workoutrepo"
	"github.com/liftlog/liftlog-api/internal/app/calories"
	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/app/locations"
	"github.com/liftlog/liftlog-api/internal/app/profiles"
	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/app/templates"
	"github.com/liftlog/liftlog-api/internal/app/workouts"
	"github.com/liftlog/liftlog-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/liftlog/liftlog-api/internal/platform/clock"
	"github.com/liftlog/liftlog-api/internal/platform/config"
	"github.com/liftlog/liftlog-api/internal/platform/logging"
	"github.com/liftlog/liftlog-api/internal/platform/seed"
	calorierepoport "github.com/liftlog/liftlog-api/internal/ports/out/calorierepo"
	exerciserepoport "github.com/liftlog/liftlog-api/internal/ports/out/exerciserepo"
	idempotencyport "github.com/liftlog/liftlog-api/internal/ports/out/idempotency"
	locationrepoport "github.com/liftlog/liftlog-api/internal/ports/out/locationrepo"
	profilerepoport "github.com/liftlog/liftlog-api/internal/ports/out/profilerepo"
	templaterepoport "github.com/liftlog/liftlog-api/internal/ports/out/templaterepo"
	workoutrepoport "github.com/liftlog/liftlog-api/internal/ports/out/workoutrepo"
)

func main() {
	cfg, err := config.LoadAppConfigFromEnv()
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	authIssuer := ""
	switch cfg.AuthMode {
	case config.AuthModeDev:
		log.Warn("dev auth enabled; X-Debug-Subject is trusted")
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
		authIssuer = "dev"
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			return err
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
		authIssuer = jwtCfg.Issuer
	}

	clk := platformclock.NewSystemClock()

	var (
		exerciseRepo exerciserepoport.Repository
		workoutRepo  workoutrepoport.Repository
		templateRepo templaterepoport.Repository
		calorieRepo  calorierepoport.Repository
		profileRepo  profilerepoport.Repository
		locationRepo locationrepoport.Repository
		idemStore    idempotencyport.Store
	)

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}

		exerciseRepo = pgexerciserepo.NewRepo(pool)
		workoutRepo = pgworkoutrepo.NewRepo(pool)
		templateRepo = pgtemplaterepo.NewRepo(pool)
		calorieRepo = pgcalorierepo.NewRepo(pool)
		profileRepo = pgprofilerepo.NewRepo(pool)
		locationRepo = pglocationrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, authIssuer)
	default:
		exerciseRepo = memexerciserepo.NewRepo()
		workoutRepo = memworkoutrepo.NewRepo()
		templateRepo = memtemplaterepo.NewRepo()
		calorieRepo = memcalorierepo.NewRepo()
		profileRepo = memprofilerepo.NewRepo()
		locationRepo = memlocationrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}
	log.Info("storage ready", "backend", cfg.StorageBackend)

	exerciseSvc := exercises.NewService(exerciseRepo, clk, log)
	if err := exerciseSvc.Refresh(ctx); err != nil {
		return err
	}
	if cfg.SeedVocabulary {
		added, err := seed.Apply(ctx, exerciseSvc)
		if err != nil {
			return err
		}
		log.Info("exercise vocabulary seeded", "added", added)
	}

	recordSvc := records.NewService(workoutRepo, log)
	profileSvc := profiles.NewService(profileRepo, clk)
	api := httpapi.NewServer(httpapi.Services{
		Exercises: exerciseSvc,
		Records:   recordSvc,
		Workouts:  workouts.NewService(workoutRepo, exerciseSvc, recordSvc, clk),
		Templates: templates.NewService(templateRepo, exerciseSvc, clk),
		Profiles:  profileSvc,
		Calories:  calories.NewService(calorieRepo, profileSvc, clk),
		Locations: locations.NewService(locationRepo, exerciseSvc, profileSvc, clk),
	}, idemStore, log)

	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go runIdempotencyJanitor(ctx, idemStore, cfg.IdempotencyTTL, log)

	errc := make(chan error, 1)
	go func() {
		log.Info("api listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runIdempotencyJanitor drops replay records older than ttl until ctx is done.
func runIdempotencyJanitor(ctx context.Context, store idempotencyport.Store, ttl time.Duration, log *slog.Logger) {
	if ttl <= 0 {
		return
	}
	interval := max(min(ttl/4, time.Hour), time.Second)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := store.DeleteBefore(ctx, now.UTC().Add(-ttl))
			if err != nil {
				log.WarnContext(ctx, "idempotency cleanup failed", "err", err)
				continue
			}
			if n > 0 {
				log.DebugContext(ctx, "idempotency records expired", "count", n)
			}
		}
	}
}
