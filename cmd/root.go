package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mp3-batch/infrastructure/config"
	"mp3-batch/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mp3-batch",
	Short: "Convert batches of MP4 videos to MP3 audio",
	Long: `mp3-batch converts a batch of .mp4 videos into .mp3 audio files:

  - Validate uploads (extension, empty files, 500 MiB limit)
  - Convert each file with ffmpeg, one at a time
  - Bundle the outputs into all_mp3.zip when more than one succeeds
  - Optionally publish the result to Google Drive

Example:
  mp3-batch convert talk1.mp4 talk2.mp4
  mp3-batch convert ./recordings --publish`,
	SilenceUsage: true,
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which also kills a running ffmpeg.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	// A missing file yields defaults; a broken one is reported by the
	// commands that need it
	cfg, cfgErr = config.Load(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgFile, cfgErr)
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs go to stderr so that command
// output on stdout stays readable.
func newLogger(c *config.Config) *slog.Logger {
	if verbose {
		debug := *c
		debug.Logging.Level = "debug"
		c = &debug
	}
	logger, err := logging.NewFromConfig(c, os.Stderr)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}
