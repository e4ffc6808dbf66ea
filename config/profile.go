package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sagarc03/stowage/s3"
)

// ErrNoProfiles is returned when the profile file holds no profiles.
var ErrNoProfiles = errors.New("no profiles configured")

// ErrProfileNotFound is returned when a named profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// Profile holds the connection settings for one S3-compatible backend,
// as saved by `stowage-cli configure`.
type Profile struct {
	Name          string `yaml:"name"`
	Bucket        string `yaml:"bucket"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key,omitempty"`
	SecretKey     string `yaml:"secret_key,omitempty"`
	Region        string `yaml:"region,omitempty"`
	Insecure      bool   `yaml:"insecure,omitempty"`
	ACL           string `yaml:"acl,omitempty"`
	CustomDomain  string `yaml:"custom_domain,omitempty"`
	Presign       bool   `yaml:"presign,omitempty"`
	PresignExpiry int    `yaml:"presign_expiry,omitempty"` // seconds
	Default       bool   `yaml:"default,omitempty"`
}

// S3Config converts the profile into a backend configuration.
func (p *Profile) S3Config() s3.Config {
	return s3.Config{
		Bucket:        p.Bucket,
		Endpoint:      p.Endpoint,
		AccessKey:     p.AccessKey,
		SecretKey:     p.SecretKey,
		Region:        p.Region,
		Insecure:      p.Insecure,
		DefaultACL:    p.ACL,
		CustomDomain:  p.CustomDomain,
		Presign:       p.Presign,
		PresignExpiry: time.Duration(p.PresignExpiry) * time.Second,
	}
}

// ProfileFile holds the full profile file structure.
type ProfileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// GetProfile returns the profile by name.
// If name is empty, returns the default profile.
func (c *ProfileFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if name == "" {
		return c.GetDefaultProfile()
	}

	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// GetDefaultProfile returns the profile marked default, or the first
// profile when none is marked.
func (c *ProfileFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	for i := range c.Profiles {
		if c.Profiles[i].Default {
			return &c.Profiles[i], nil
		}
	}

	return &c.Profiles[0], nil
}

// AddProfile adds or replaces the profile with the same name.
func (c *ProfileFile) AddProfile(p Profile) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			return
		}
	}
	c.Profiles = append(c.Profiles, p)
}

// RemoveProfile removes the named profile.
func (c *ProfileFile) RemoveProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// SetDefault marks the named profile as default and clears the flag
// everywhere else.
func (c *ProfileFile) SetDefault(name string) error {
	found := false
	for i := range c.Profiles {
		isTarget := c.Profiles[i].Name == name
		c.Profiles[i].Default = isTarget
		found = found || isTarget
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return nil
}

// Save writes the profile file with owner-only permissions, since it holds
// secret keys.
func (c *ProfileFile) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	return nil
}

// LoadProfileFile reads a profile file from path.
func LoadProfileFile(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ProfileFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}

	return &cfg, nil
}

// DefaultProfilePath returns ~/.stowage/config.yaml, or "" when the home
// directory cannot be resolved.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stowage", "config.yaml")
}
