package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/latticedb/raftfollower/config"
	"github.com/latticedb/raftfollower/partition"
	"github.com/latticedb/raftfollower/raft"
	"github.com/latticedb/raftfollower/transport"
	"github.com/latticedb/raftfollower/wal"
)

func runE(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	if configPath != "" {
		loaded, err := config.ParseConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("followerd: loading config: %w", err)
		}
		cfg = loaded
	}
	if bindAddr != "" {
		cfg.BindAddress = bindAddr
	}
	if walPath != "" {
		cfg.WalPath = walPath
	}

	log := newLogger(cfg.Logging, os.Stdout)

	instanceID := uuid.NewString()
	log = log.With(zap.String("instance_id", instanceID))

	db, err := bbolt.Open(cfg.WalPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("followerd: opening wal: %w", err)
	}

	boltWal, err := wal.OpenBoltWal(db, cfg.SpaceID, cfg.PartitionID)
	if err != nil {
		return fmt.Errorf("followerd: opening wal bucket: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	metrics := raft.NewChannelMetrics()
	for _, coll := range metrics.PrometheusCollectors() {
		reg.MustRegister(coll)
	}

	clients := transport.NewClientCache(nil)

	part := partition.New(cfg.SpaceID, cfg.PartitionID, cfg.LeaderAddr, boltWal, clients, cfg.Peers, log,
		raft.WithLogger(log),
		raft.WithMetrics(metrics),
		raft.WithMaxBatch(cfg.MaxBatch),
		raft.WithMaxOutstanding(cfg.MaxOutstanding),
		raft.WithRPCTimeout(time.Duration(cfg.RPCTimeout)))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	httpServer := &http.Server{Addr: cfg.BindAddress, Handler: mux}
	errc := make(chan error, 1)
	go func() {
		log.Info("followerd listening", zap.String("addr", cfg.BindAddress))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("followerd received shutdown signal")
	case err := <-errc:
		log.Error("followerd http server failed", zap.Error(err))
	}

	part.StopAll()

	var result *multierror.Error
	cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(cctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("shutting down http server: %w", err))
	}
	if err := db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing wal: %w", err))
	}
	return result.ErrorOrNil()
}
