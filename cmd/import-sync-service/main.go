package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mmdatafocus/crm_backend/config"
	"github.com/mmdatafocus/crm_backend/importsync"
	"github.com/mmdatafocus/crm_backend/models"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	if err := importsync.RunImportWorker(); err != nil {
		logger.WithFields(logrus.Fields{"field": "worker"}).Fatal("failed to start import worker: " + err.Error())
	}
	logger.WithFields(logrus.Fields{"field": "worker"}).Info("import worker started")

	<-sigCtx.Done()
	logger.WithFields(logrus.Fields{"field": "worker"}).Info("shutting down")
}
