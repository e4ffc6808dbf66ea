package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/stowage/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage backend profiles",
	Long: `Manage backend profiles in the configuration file.

Profiles hold the connection settings for one S3-compatible backend.
Switch between them with --profile or STOWAGE_PROFILE.

Configuration is stored in ~/.stowage/config.yaml`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles configured in the profile file.

The default profile is marked with an asterisk (*).`,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile interactively.

You will be prompted for the endpoint host (no protocol), bucket, access
key, secret key, and URL options.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadProfileFile(profilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("No profiles configured.")
			fmt.Println("Run 'stowage-cli configure add <name>' to create one.")
			return nil
		}
		return fmt.Errorf("load profiles: %w", err)
	}

	defaultProfile, err := cfg.GetDefaultProfile()
	if err != nil {
		fmt.Println("No profiles configured.")
		return nil
	}

	for _, p := range cfg.Profiles {
		marker := " "
		if p.Name == defaultProfile.Name {
			marker = "*"
		}
		fmt.Printf("%s %-20s %s/%s\n", marker, p.Name, p.Endpoint, p.Bucket)
	}
	return nil
}

func runConfigureAdd(_ *cobra.Command, args []string) error {
	name := args[0]
	path := profilePath()

	cfg, err := config.LoadProfileFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = &config.ProfileFile{}
		} else {
			return fmt.Errorf("load profiles: %w", err)
		}
	}

	if existing, _ := cfg.GetProfile(name); existing != nil && existing.Name == name {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	endpointPrompt := promptui.Prompt{
		Label: "Endpoint host (no protocol)",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("endpoint is required")
			}
			if strings.HasPrefix(input, "http") {
				return errors.New("endpoint must not contain a protocol prefix")
			}
			return nil
		},
	}
	endpoint, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	bucketPrompt := promptui.Prompt{
		Label: "Bucket",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("bucket is required")
			}
			return nil
		},
	}
	bucket, err := bucketPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	accessKeyPrompt := promptui.Prompt{
		Label: "Access Key",
	}
	accessKeyVal, err := accessKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	secretKeyPrompt := promptui.Prompt{
		Label: "Secret Key",
		Mask:  '*',
	}
	secretKeyVal, err := secretKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	insecure := false
	tlsPrompt := promptui.Prompt{
		Label:     "Use plain HTTP instead of TLS",
		IsConfirm: true,
	}
	if _, promptErr := tlsPrompt.Run(); promptErr == nil {
		insecure = true
	}

	presign := false
	presignPrompt := promptui.Prompt{
		Label:     "Generate presigned URLs",
		IsConfirm: true,
	}
	if _, promptErr := presignPrompt.Run(); promptErr == nil {
		presign = true
	}

	setAsDefault := len(cfg.Profiles) == 0 // first profile is always default
	if !setAsDefault {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	newProfile := config.Profile{
		Name:      name,
		Bucket:    bucket,
		Endpoint:  strings.TrimRight(endpoint, "/"),
		AccessKey: accessKeyVal,
		SecretKey: secretKeyVal,
		Insecure:  insecure,
		Presign:   presign,
		Default:   setAsDefault,
	}

	if setAsDefault {
		for i := range cfg.Profiles {
			cfg.Profiles[i].Default = false
		}
	}

	cfg.AddProfile(newProfile)

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Profile '%s' saved.\n", name)
	if setAsDefault {
		fmt.Println("Set as default profile.")
	}
	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]
	path := profilePath()

	cfg, err := config.LoadProfileFile(path)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		fmt.Println("Cancelled.")
		return nil //nolint:nilerr // User cancelled, not an error
	}

	if err := cfg.RemoveProfile(name); err != nil {
		return err
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	name := args[0]
	path := profilePath()

	cfg, err := config.LoadProfileFile(path)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	if err := cfg.SetDefault(name); err != nil {
		return err
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Default profile set to '%s'.\n", name)
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
