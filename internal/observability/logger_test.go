package observability_test

import (
	"testing"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/factlens/factlens/internal/observability"
)

func TestLoggerInitialization(t *testing.T) {
	t.Run("CLI logger creation", func(t *testing.T) {
		observability.InitCLILogger("factlens-test", false)

		if observability.CLILogger == nil {
			t.Fatal("CLI logger should not be nil after initialization")
		}

		observability.CLILogger.Info("verification submitted",
			zap.String("content_type", "text"))
	})

	t.Run("Structured logger creation", func(t *testing.T) {
		observability.InitServerLogger("factlens-test", "info")

		if observability.ServerLogger == nil {
			t.Fatal("Server logger should not be nil after initialization")
		}

		observability.ServerLogger.Info("verification ready",
			zap.String("request_id", "req-123"),
			zap.Int("credibility_score", 42))
	})

	t.Run("Verbose CLI logger uses debug level", func(t *testing.T) {
		logger, err := logging.NewCLI("factlens-verbose-test")
		if err != nil {
			t.Fatalf("Failed to create verbose logger: %v", err)
		}

		logger.SetLevel(logging.DEBUG)
		logger.Debug("pipeline state",
			zap.String("state", "pending"))
	})

	t.Run("Structured logger with namespace", func(t *testing.T) {
		observability.InitServerLogger("factlens-test", "debug", "factlens")

		if observability.ServerLogger == nil {
			t.Fatal("Server logger should not be nil after initialization")
		}
	})
}

func TestCrucibleVersion(t *testing.T) {
	version := crucible.GetVersion()

	if version.Gofulmen == "" {
		t.Error("Gofulmen version should not be empty")
	}
	if version.Crucible == "" {
		t.Error("Crucible version should not be empty")
	}
}
