package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	adapthttp "fooddiary/internal/adapter/http"
	"fooddiary/internal/adapter/memory"
	"fooddiary/internal/adapter/openfoodfacts"
	"fooddiary/internal/adapter/postgres"
	"fooddiary/internal/adapter/rediscache"
	"fooddiary/internal/app"
	"fooddiary/internal/config"
	"fooddiary/internal/domain"
)

// repositories is everything the services need from a storage backend.
type repositories interface {
	domain.FoodRepository
	domain.DiaryRepository
	domain.GoalRepository
	domain.WeightRepository
	domain.WaterRepository
	domain.UserRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		repos    repositories
		sessions domain.SessionRepository
	)
	switch cfg.Storage {
	case config.StorageMemory:
		db := memory.New()
		repos, sessions = db, db.NewSessionRepo()
		log.Printf("using in-memory storage; data is lost on exit")
	default:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		repos, sessions = db, postgres.NewSessionRepo(db)
	}

	var lookup domain.ProductLookup = openfoodfacts.New(cfg.OFFBaseURL, cfg.OFFTimeout)
	if cfg.RedisURL != "" {
		rdb, err := rediscache.NewClient(cfg.RedisURL)
		if err != nil {
			log.Printf("product cache disabled: %v", err)
		} else {
			defer func() { _ = rdb.Close() }()
			lookup = rediscache.New(lookup, rdb, cfg.ProductCacheTTL)
		}
	}

	resolver := domain.NewDayResolver(cfg.Location)
	summarySvc := app.NewSummaryService(repos, repos, resolver)
	authSvc := app.NewAuthService(repos, sessions, repos)

	if cfg.InitialUser != "" {
		err := authSvc.CreateInitialUser(context.Background(), cfg.InitialUser, cfg.InitialPassword)
		switch {
		case err == nil:
			log.Printf("created initial user %q", cfg.InitialUser)
		case errors.Is(err, app.ErrUsersExist):
		default:
			log.Fatalf("initial user: %v", err)
		}
	}

	oidcConfig := adapthttp.OIDCConfig{}
	if cfg.SSOEnabled() {
		provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuer)
		if err != nil {
			log.Fatalf("oidc provider: %v", err)
		}
		oidcConfig = adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.OIDCClientID,
				ClientSecret: cfg.OIDCClientSecret,
				RedirectURL:  cfg.OIDCRedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}
	}

	srv := adapthttp.New(adapthttp.Services{
		Diary:    app.NewDiaryService(repos, resolver),
		Summary:  summarySvc,
		Food:     app.NewFoodService(repos, lookup),
		Goals:    app.NewGoalService(repos),
		Weight:   app.NewWeightService(repos),
		Water:    app.NewWaterService(repos, repos, resolver),
		Progress: app.NewProgressService(summarySvc, repos, repos, resolver),
		Auth:     authSvc,
	}, resolver, oidcConfig).WithForwardAuth(adapthttp.ForwardAuthConfig{
		Enabled:        cfg.ForwardAuth,
		TrustedProxies: cfg.TrustedProxies,
	})
	if cfg.ForwardAuth {
		log.Printf("forward auth enabled (trusted proxies: %v)", cfg.TrustedProxies)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweepSessions(ctx, sessions)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s (diary timezone %s)", cfg.Addr, cfg.Location)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// sweepSessions deletes expired sessions once an hour.
func sweepSessions(ctx context.Context, sessions domain.SessionRepository) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				log.Printf("session sweep: %v", err)
			}
		}
	}
}
