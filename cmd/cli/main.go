package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sanguischat/internal/buildinfo"
	"github.com/dmitrijs2005/sanguischat/internal/client/api"
	"github.com/dmitrijs2005/sanguischat/internal/client/cli"
	"github.com/dmitrijs2005/sanguischat/internal/client/config"
	"github.com/dmitrijs2005/sanguischat/internal/client/export"
	"github.com/dmitrijs2005/sanguischat/internal/client/gateway"
	"github.com/dmitrijs2005/sanguischat/internal/client/services"
	"github.com/dmitrijs2005/sanguischat/internal/client/session"
	"github.com/dmitrijs2005/sanguischat/internal/client/storage"
	"github.com/dmitrijs2005/sanguischat/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stderr, cfg.LogLevel)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "fatal", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := session.NewMetadataStore(db)
	sess := session.New(store, logger)
	if err := sess.Load(ctx); err != nil {
		return err
	}

	gw := gateway.New(cfg.APIBaseURL, sess, logger, gateway.WithTimeout(cfg.RequestTimeout))
	client := api.New(gw)

	deps := cli.Deps{
		Auth:       services.NewAuthService(client, sess, logger),
		Chat:       services.NewChatService(client, logger),
		Expiry:     sess.Expiry,
		SignedInAt: store.SignedInAt,
		Logger:     logger,
	}
	if cfg.ExportToS3() {
		up, err := export.NewS3Exporter(ctx, export.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			return err
		}
		deps.Uploader = up
	}

	// unblock a pending read so the REPL can see the canceled context
	go func() {
		<-ctx.Done()
		_ = os.Stdin.Close()
	}()

	logger.Debug(ctx, "starting", "api", cfg.APIBaseURL, "db", cfg.DBPath)
	cli.NewApp(deps).Run(ctx)
	return nil
}
