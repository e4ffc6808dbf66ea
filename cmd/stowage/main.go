package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "stowage",
	Short:   "HTTP gateway over a stowage object storage backend",
	Long: `Stowage gateway exposes a configured storage backend (S3-compatible
or local filesystem) over a minimal REST surface: GET redirects to the
object URL, HEAD reports its size, PUT uploads, DELETE removes.`,
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging()
	}
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path(s) (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: s3, filesystem (env: STOWAGE_STORAGE_BACKEND)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
