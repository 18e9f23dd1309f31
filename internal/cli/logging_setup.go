package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/productsummary/internal/config"
	"github.com/rshade/productsummary/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command) logging.Result {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLogger(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// interactiveLogger returns a context whose logger writes to a file, so log
// lines never land on the interactive screen. If the configured logger
// already writes to a file ctx is returned unchanged; if no file can be
// opened logging is discarded. The returned Result must be closed.
func interactiveLogger(ctx context.Context) (context.Context, *logging.Result) {
	loggingCfg := config.GetLoggingConfig()
	if loggingCfg.File != "" {
		return ctx, nil
	}

	cfg := loggingCfg.ToLoggingConfig()
	cfg.Output = logging.OutputDiscard
	if path, err := config.DefaultLogFile(); err == nil {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0700); mkErr == nil {
			cfg.Output = logging.OutputFile
			cfg.File = path
		}
	}

	result := logging.NewLogger(cfg)
	if result.FallbackUsed {
		cfg.Output = logging.OutputDiscard
		result = logging.NewLogger(cfg)
	}
	l := logging.ComponentLogger(result.Logger, "tui")
	return l.WithContext(ctx), &result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(logResult *logging.Result) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
