package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/memegrid/memegrid/internal/setup"
	"github.com/memegrid/memegrid/internal/setup/telemetry"
	"github.com/memegrid/memegrid/internal/worker/rank"
	"github.com/urfave/cli/v3"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// RankWorker keeps leaderboard ranks and engagement counters fresh.
	RankWorker = "rank"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the memegrid worker",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of workers to start",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  RankWorker,
				Usage: "Start rank workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					runWorkers(ctx, c.Int("workers"))
					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runWorkers starts multiple instances of the rank worker.
func runWorkers(ctx context.Context, count int64) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	for i := int64(0); i < count; i++ {
		workerID := fmt.Sprintf("%d", i)

		app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir, workerID)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}
		defer app.Cleanup(context.Background())

		if delay := app.Config.Worker.StartupDelay; delay > 0 && i > 0 {
			time.Sleep(time.Duration(delay) * time.Millisecond)
		}

		logger := app.LogManager.GetWorkerLogger(RankWorker + "_" + workerID)
		worker := rank.New(app, logger)

		wg.Add(1)

		go func() {
			defer wg.Done()
			worker.Start(ctx)
		}()
	}

	wg.Wait()
}
