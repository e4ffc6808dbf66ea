package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> <remote-name>",
	Short: "Upload a file to the backend",
	Long: `Upload a local file under a remote name.

The name is sanitized before storing; the key actually written is printed
and may differ from the supplied name.

Examples:
  stowage-cli upload ./report.pdf uploads/report.pdf
  stowage-cli upload ./avatar.png users/42/avatar.png`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	localPath := args[0]
	remoteName := args[1]

	storage, err := getStorage()
	if err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	key, err := storage.Upload(context.Background(), f, remoteName)
	if err != nil {
		return err
	}

	fmt.Println(key)
	return nil
}
