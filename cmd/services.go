package cmd

import (
	"database/sql"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/events"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/provider"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/repository"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/service"
	"github.com/vibast-solutions/ms-go-payment-orchestration/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

type serviceSet struct {
	payments     *service.PaymentService
	eventBuilder *service.EventBuilder
	router       *service.MethodRouter
	coordinator  *service.SagaCoordinator
	sweeper      *service.Sweeper
}

func mustCreateServices() (*config.Config, *serviceSet, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	publisher, err := events.NewPublisher(cfg.Kafka.Brokers)
	if err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to initialize event publisher")
	}

	paymentRepo := repository.NewPaymentRepository(db)
	openOrderRepo := repository.NewOpenOrderRepository(db)
	paymentInfoRepo := repository.NewPaymentInformationRepository(db)

	connector := provider.NewConnector(provider.Config{
		BaseURL:     cfg.Provider.BaseURL,
		RetryCount:  cfg.Provider.RetryCount,
		RetryDelay:  cfg.Provider.RetryDelay,
		HTTPTimeout: cfg.Provider.HTTPTimeout,
	})

	payments := service.NewPaymentService(paymentRepo)
	eventBuilder := service.NewEventBuilder(openOrderRepo, publisher)

	router := service.NewMethodRouter(
		payments,
		paymentInfoRepo,
		service.NewCreditCardStrategy(payments, connector, eventBuilder),
		service.NewPrepaymentStrategy(payments, connector, eventBuilder),
		service.NewInvoiceStrategy(payments, connector, eventBuilder),
	)

	coordinator := service.NewSagaCoordinator(payments, openOrderRepo, paymentInfoRepo, eventBuilder, router)
	sweeper := service.NewSweeper(payments, eventBuilder)

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close event publisher")
		}
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, &serviceSet{
		payments:     payments,
		eventBuilder: eventBuilder,
		router:       router,
		coordinator:  coordinator,
		sweeper:      sweeper,
	}, cleanup
}
