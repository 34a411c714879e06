package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"moneygement/internal/auth"
	"moneygement/internal/cli"
	"moneygement/internal/services"
	"moneygement/internal/session"
	"moneygement/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("MONEYGEMENT_LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	gw := cli.InitGateway(logger, cfg.DBPath)
	defer gw.Close()

	sess := session.New()
	svc := services.NewService(
		storage.NewUserRepository(gw),
		storage.NewExpenseRepository(gw),
		auth.SHA256Hasher{},
		sess,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	p := newPrompt(svc, sess, os.Stdin, os.Stdout)
	g.Go(func() error {
		return p.run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Prompt loop failed", "error", err)
		os.Exit(1)
	}
}
