package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	setEnv(t, "PROVIDER_BASE_URL", "http://provider:3000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadRequiresProviderBaseURL(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/payment?parseTime=true")
	unsetEnv(t, "PROVIDER_BASE_URL")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing PROVIDER_BASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/payment?parseTime=true")
	setEnv(t, "PROVIDER_BASE_URL", "http://provider:3000/")
	unsetEnv(t, "KAFKA_BROKERS")
	unsetEnv(t, "PROVIDER_RETRY_COUNT")
	unsetEnv(t, "SWEEP_INTERVAL_MINUTES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Provider.BaseURL != "http://provider:3000" {
		t.Fatalf("expected trailing slash to be trimmed, got %s", cfg.Provider.BaseURL)
	}
	if cfg.Provider.RetryCount != 3 {
		t.Fatalf("expected retry count 3, got %d", cfg.Provider.RetryCount)
	}
	if cfg.Provider.RetryDelay != 5*time.Second {
		t.Fatalf("expected retry delay 5s, got %s", cfg.Provider.RetryDelay)
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "localhost:9092" {
		t.Fatalf("unexpected broker default: %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.ConsumerGroup != "payment-orchestration" {
		t.Fatalf("unexpected consumer group default: %s", cfg.Kafka.ConsumerGroup)
	}
	if cfg.Sweep.Interval != 15*time.Minute {
		t.Fatalf("expected sweep interval 15m, got %s", cfg.Sweep.Interval)
	}
	if cfg.Sweep.PrepaymentThreshold != 7*24*time.Hour {
		t.Fatalf("expected prepayment threshold 7d, got %s", cfg.Sweep.PrepaymentThreshold)
	}
	if cfg.Sweep.InvoiceThreshold != 30*24*time.Hour {
		t.Fatalf("expected invoice threshold 30d, got %s", cfg.Sweep.InvoiceThreshold)
	}
	if cfg.Sweep.BatchSize != 100 {
		t.Fatalf("expected batch size 100, got %d", cfg.Sweep.BatchSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/payment?parseTime=true")
	setEnv(t, "PROVIDER_BASE_URL", "http://provider:3000")
	setEnv(t, "KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	setEnv(t, "PROVIDER_RETRY_COUNT", "5")
	setEnv(t, "PROVIDER_RETRY_DELAY_SECONDS", "2")
	setEnv(t, "SWEEP_INTERVAL_MINUTES", "5")
	setEnv(t, "SWEEP_PREPAYMENT_THRESHOLD_DAYS", "3")
	setEnv(t, "SWEEP_INVOICE_THRESHOLD_DAYS", "10")
	setEnv(t, "SWEEP_BATCH_SIZE", "25")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Provider.RetryCount != 5 {
		t.Fatalf("expected retry count 5, got %d", cfg.Provider.RetryCount)
	}
	if cfg.Provider.RetryDelay != 2*time.Second {
		t.Fatalf("expected retry delay 2s, got %s", cfg.Provider.RetryDelay)
	}
	if cfg.Sweep.Interval != 5*time.Minute {
		t.Fatalf("expected sweep interval 5m, got %s", cfg.Sweep.Interval)
	}
	if cfg.Sweep.PrepaymentThreshold != 3*24*time.Hour {
		t.Fatalf("expected prepayment threshold 3d, got %s", cfg.Sweep.PrepaymentThreshold)
	}
	if cfg.Sweep.InvoiceThreshold != 10*24*time.Hour {
		t.Fatalf("expected invoice threshold 10d, got %s", cfg.Sweep.InvoiceThreshold)
	}
	if cfg.Sweep.BatchSize != 25 {
		t.Fatalf("expected batch size 25, got %d", cfg.Sweep.BatchSize)
	}
	if cfg.MySQL.MaxOpenConns != 20 {
		t.Fatalf("expected 20 max open conns, got %d", cfg.MySQL.MaxOpenConns)
	}
	if cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Fatalf("expected 40m conn lifetime, got %s", cfg.MySQL.ConnMaxLifetime)
	}
}
