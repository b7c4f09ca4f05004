package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/controller"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/events"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the event consumer",
	Long:  "Start the Echo HTTP server for provider callbacks and the Kafka consumer driving the payment saga.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, svc, cleanup := mustCreateServices()
	defer cleanup()

	consumer, err := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, svc.coordinator, svc.coordinator)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize event consumer")
	}

	providerController := controller.NewProviderConnectionController(svc.router, svc.payments, svc.eventBuilder)
	e := setupHTTPServer(providerController)

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		logrus.WithField("group", cfg.Kafka.ConsumerGroup).Info("Starting event consumer")
		if err := consumer.Run(consumerCtx); err != nil && err != context.Canceled {
			logrus.WithError(err).Error("Event consumer stopped")
		}
	}()

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	cancelConsumer()
	if err := consumer.Close(); err != nil {
		logrus.WithError(err).Warn("Consumer shutdown error")
	}
	<-consumerDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(providerController *controller.ProviderConnectionController) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())

	e.GET("/health", providerController.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	payments := e.Group("/payments")
	payments.GET("/:id", providerController.GetPayment)

	connection := e.Group("/payment-provider-connection")
	connection.POST("/update-payment-status", providerController.UpdatePaymentStatus)
	connection.POST("/payment-captured", providerController.PaymentCaptured)

	return e
}
