// Command flshm-watch prints LocalConnection messages as they arrive and
// serves the channel state over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/fantao963/flshm"
	"github.com/fantao963/flshm/internal/cli"
	"github.com/fantao963/flshm/internal/metrics"
	"github.com/fantao963/flshm/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, log := cli.Setup()
	defer log.Sync()

	perUser := flag.Bool("per-user", cfg.PerUser, "use the per-user channel")
	consume := flag.Bool("consume", false, "clear each message after printing it")
	interval := flag.Duration("interval", cfg.PollInterval, "idle poll interval")
	addr := flag.String("metrics-addr", cfg.MetricsAddr, "status server listen address, empty to disable")
	format := flag.String("format", cli.FormatText, "output format: text, json, yaml or toml")
	flag.Parse()

	if !cli.ValidFormat(*format) {
		fmt.Printf("ERROR: format: %s\n", *format)
		return 1
	}

	seg, err := flshm.Open(*perUser)
	if err != nil {
		log.Error("open failed", zap.Error(err))
		fmt.Println("FAILED: flshm_open")
		return 1
	}
	defer seg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	srv := server.New(server.Config{Addr: *addr, Development: cfg.LogDevelopment}, reg, func() ([]flshm.Connection, error) {
		if err := seg.Lock(); err != nil {
			return nil, err
		}
		defer seg.Unlock()
		return seg.Connections(), nil
	}, log)

	if *addr != "" {
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := srv.ListenAndServe(); err != nil {
				log.Error("status server failed", zap.Error(err))
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("status server shutdown", zap.Error(err))
			}
			<-done
		}()
	}

	handler := func(msg *flshm.Message) {
		srv.Record(msg)
		if err := cli.FormatMessage(os.Stdout, msg, *format); err != nil {
			log.Warn("print failed", zap.Uint32("tick", msg.Tick), zap.Error(err))
		}
		if *format == cli.FormatText {
			fmt.Println()
		}
	}
	w := flshm.NewWatcher(seg, handler,
		flshm.WithConsume(*consume),
		flshm.WithPollInterval(*interval),
		flshm.WithObserver(m),
	)

	log.Info("watching", zap.Bool("perUser", *perUser), zap.Bool("consume", *consume), zap.Duration("interval", *interval))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("watch failed", zap.Error(err))
		fmt.Println("FAILED: flshm_lock")
		return 1
	}
	return 0
}
