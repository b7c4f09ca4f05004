package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/service"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
	"github.com/vibast-solutions/ms-go-payment-orchestration/config"
)

var (
	workerMode bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run overdue-payment sweeps",
}

var sweepPrepaymentCmd = &cobra.Command{
	Use:   "prepayment",
	Short: "Fail prepaid payments whose transfer never arrived",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"sweep_prepayment",
			func(cfg *config.Config) service.SweepPolicy {
				return service.SweepPolicy{
					Method:    types.PaymentMethodPrepayment,
					Threshold: cfg.Sweep.PrepaymentThreshold,
					BatchSize: cfg.Sweep.BatchSize,
				}
			},
		)
	},
}

var sweepInvoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Fail invoiced payments that were never settled",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"sweep_invoice",
			func(cfg *config.Config) service.SweepPolicy {
				return service.SweepPolicy{
					Method:    types.PaymentMethodInvoice,
					Threshold: cfg.Sweep.InvoiceThreshold,
					BatchSize: cfg.Sweep.BatchSize,
				}
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.AddCommand(sweepPrepaymentCmd)
	sweepCmd.AddCommand(sweepInvoiceCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(name string, policyResolver func(cfg *config.Config) service.SweepPolicy) {
	cfg, svc, cleanup := mustCreateServices()
	defer cleanup()

	policy := policyResolver(cfg)

	if workerMode {
		runWorker(name, cfg.Sweep.Interval, svc.sweeper, policy)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return svc.sweeper.RunSweepBatch(ctx, policy) })
}

func runWorker(name string, interval time.Duration, sweeper *service.Sweeper, policy service.SweepPolicy) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return sweeper.RunSweepBatch(ctx, policy) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return sweeper.RunSweepBatch(ctx, policy) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
