package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <key>",
	Short: "Print an object's bytes to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := getStorage()
		if err != nil {
			return err
		}

		body, err := storage.Open(context.Background(), args[0])
		if err != nil {
			return err
		}
		defer func() { _ = body.Close() }()

		_, err = io.Copy(os.Stdout, body)
		return err
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Print the object's URL",
	Long: `Print a reachable URL for the object.

The shape follows the profile: a custom-domain URL when one is configured,
a time-limited presigned URL when presign is enabled, otherwise the static
endpoint/bucket/key form.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := getStorage()
		if err != nil {
			return err
		}

		url, err := storage.Locate(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(url)
		return nil
	},
}

var sizeCmd = &cobra.Command{
	Use:   "size <key>",
	Short: "Print the object's size in bytes (0 when absent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := getStorage()
		if err != nil {
			return err
		}

		n, err := storage.Size(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(n)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <key> [key...]",
	Short: "Delete one or more objects",
	Long: `Delete objects from the backend.

Deleting a key that does not exist is a success, so rm is safe to re-run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := getStorage()
		if err != nil {
			return err
		}

		for _, key := range args {
			if err := storage.Delete(context.Background(), key); err != nil {
				return err
			}
		}
		return nil
	},
}
