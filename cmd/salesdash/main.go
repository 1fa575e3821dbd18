package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talkincode/salesdash/config"
	"github.com/talkincode/salesdash/internal/adminapi"
	"github.com/talkincode/salesdash/internal/app"
	"github.com/talkincode/salesdash/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "", "config yaml file")
	dev      = flag.Bool("dev", false, "run develop mode")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	migrate  = flag.Bool("migrate", false, "run database migrations and exit")
)

func main() {
	flag.Parse()

	if *h {
		flag.Usage()
		return
	}

	cfg := config.MustLoadConfig(*conffile)
	if *dev {
		cfg.System.Debug = true
		cfg.Logger.Mode = "development"
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	switch {
	case *initdb:
		if err := application.InitDb(); err != nil {
			zap.S().Fatalf("initdb: %v", err)
		}
		zap.S().Info("database schema recreated")
		return
	case *migrate:
		if err := application.MigrateDB(true); err != nil {
			zap.S().Fatalf("migrate: %v", err)
		}
		return
	}

	if err := run(application); err != nil {
		zap.S().Error(err)
		application.Release()
		os.Exit(1)
	}
}

// run serves the api until SIGINT or SIGTERM, then drains in-flight requests
func run(ctx app.AppContext) error {
	server := webserver.NewAdminServer(ctx.Config())
	adminapi.New(ctx.DB(), ctx.Config()).Register(server)

	sigctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down admin api server")
		return server.Shutdown(shutdownTimeout)
	})
	return g.Wait()
}
