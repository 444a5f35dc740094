package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/navid-fn/stockpipe/configs"
	"github.com/navid-fn/stockpipe/internal/logger"
	"github.com/navid-fn/stockpipe/internal/pipeline"
)

func main() {
	cfg := configs.AppLoad()
	log := logger.NewLogger(cfg.LogLevel)

	runner, closeRunner := pipeline.NewFromAppConfig(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	res := runner.Run(ctx)
	stop()
	closeRunner()

	fmt.Println(res.Message)
	if res.State != pipeline.Done {
		os.Exit(1)
	}
}
