package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stowage"
	"github.com/sagarc03/stowage/config"
	"github.com/sagarc03/stowage/s3"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
)

var rootCmd = &cobra.Command{
	Use:     "stowage-cli",
	Version: version,
	Short:   "Object operations against an S3-compatible backend",
	Long: `Stowage CLI - direct object operations against a configured backend.

Backends are described by named profiles stored in ~/.stowage/config.yaml;
create one with 'stowage-cli configure add <name>'.

Commands:
  upload:  store a local file under a remote key
  cat:     print an object's bytes to stdout
  url:     print the object's URL (static or presigned per profile)
  size:    print the object's size in bytes (0 when absent)
  rm:      delete one or more objects`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "profile file (default: ~/.stowage/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (default: the profile marked default, env: STOWAGE_PROFILE)")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func profilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultProfilePath()
}

func currentProfile() (*config.Profile, error) {
	cfg, err := config.LoadProfileFile(profilePath())
	if err != nil {
		return nil, err
	}

	name := profileName
	if name == "" {
		name = os.Getenv("STOWAGE_PROFILE")
	}

	return cfg.GetProfile(name)
}

// getStorage builds the backend for the selected profile.
func getStorage() (stowage.Storage, error) {
	p, err := currentProfile()
	if err != nil {
		return nil, err
	}
	return s3.New(p.S3Config())
}
