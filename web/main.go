package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	atrium "github.com/awrgmu/mixcheckin/atrium/v1"
	"github.com/awrgmu/mixcheckin/core"
	"github.com/awrgmu/mixcheckin/infrastructure/devops"
	"github.com/awrgmu/mixcheckin/web/handlers"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := devops.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	dm, err := core.New(cfg.DatabasePath, 10)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer dm.Close()

	client := atrium.NewAtriumClient(cfg.AtriumBaseURL, cfg.AtriumUsername, cfg.AtriumPassword, cfg.AtriumTimeout, logger)
	if err := client.Transport.Login(context.Background()); err != nil {
		logger.Error("initial atrium login failed", "error", err)
		os.Exit(1)
	}

	ledger := core.NewLedger(dm, logger)
	policy := core.NewPolicy(cfg.DuplicateSwipeCode, cfg.AlumniIDs)
	svc := core.NewCheckInService(client, ledger, policy, core.ExtractionFailureMode(cfg.ExtractionFailureMode), logger)

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	handlers.Register(r, svc, ledger)

	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
