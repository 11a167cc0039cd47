package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lunchpass/lunchpass-api/internal/api"
	"github.com/lunchpass/lunchpass-api/internal/config"
	"github.com/lunchpass/lunchpass-api/internal/db"
	"github.com/lunchpass/lunchpass-api/internal/logger"
	"github.com/lunchpass/lunchpass-api/internal/repository"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
	"github.com/lunchpass/lunchpass-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	startMonthlyReports(postgresDB)

	s := api.NewServer(conf, postgresDB)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func startMonthlyReports(postgresDB *gorm.DB) {
	kidRepo := repository.NewKidRepository(dao.NewKidDAO(postgresDB))
	spendingRepo := repository.NewSpendingRepository(dao.NewSpendingDAO(postgresDB))
	reports := service.NewReportService(kidRepo, service.NewLedgerService(spendingRepo), service.NewLogNotifier())

	go reports.Run(context.Background())
}
