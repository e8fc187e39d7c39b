package main

import (
	"context"
	"github.com/maxaizer/jobboard/internal/clients/board"
	"github.com/maxaizer/jobboard/internal/config"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/maxaizer/jobboard/internal/repositories"
	"github.com/maxaizer/jobboard/internal/server"
	"github.com/maxaizer/jobboard/internal/services"
	log "github.com/sirupsen/logrus"
	"os/signal"
	"syscall"
	"time"
)

const (
	applicationCountsTTL = time.Minute
	skillsTTL            = time.Hour
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	history := repositories.NewSearchHistoryRepository(dbContext.DB)

	client, err := board.NewClient(board.Config{
		BaseURL:     cfg.Backend.BaseURL,
		AccessToken: cfg.Backend.AccessToken,
		Timeout:     cfg.Backend.Timeout,
	})
	if err != nil {
		log.Fatalf("can't create backend client: %v", err)
	}
	if cfg.Backend.MaxRequestsPerSecond > 0 {
		client.SetRateLimit(cfg.Backend.MaxRequestsPerSecond)
	}

	cleaner, err := services.NewHistoryCleaner(history, cfg.History.ExpirationDays)
	if err != nil {
		log.Fatalf("can't create history cleaner: %v", err)
	}
	cleaner.Start()
	defer cleaner.Stop()

	srv, err := server.NewServer(server.Options{
		Address:         cfg.Server.Address,
		DefaultPageSize: cfg.Backend.PageSize,
		RecentLimit:     cfg.History.RecentLimit,
		SessionTTL:      cfg.Server.SessionTTL,
	}, server.Dependencies{
		Jobs:      client,
		Counts:    services.NewCachedApplicationCounts(client, applicationCountsTTL),
		Favorites: client,
		Skills:    services.NewSkillCatalog(client, skillsTTL),
		Companies: services.NewCompanySearch(client),
		History:   history,
	})
	if err != nil {
		log.Fatalf("can't create server: %v", err)
	}

	if err = srv.Run(ctx); err != nil {
		log.Errorf("server stopped with error: %v", err)
	}
	log.Info("Services stopped.")
}
