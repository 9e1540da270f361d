package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// DefaultProfile is the credentials section used when none is named.
const DefaultProfile = "default"

// Credentials wraps an ini-style profile file, e.g.
//
//	[default]
//	api_key = ...
type Credentials struct {
	cfg *ini.File
}

func LoadCredentials(path string) (*Credentials, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials file: %w", err)
	}
	return &Credentials{cfg: cfg}, nil
}

// Profiles lists the non-empty sections in the file.
func (c *Credentials) Profiles() []string {
	var profiles []string
	for _, section := range c.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles
}

// APIKey returns the api_key of the given profile, or empty when absent.
func (c *Credentials) APIKey(profile string) string {
	section := c.cfg.Section(profile)
	if section == nil {
		return ""
	}
	return section.Key("api_key").String()
}
