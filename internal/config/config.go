package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Error is an invocation problem: a missing or contradictory parameter.
// Config errors are fatal before any remote call is made.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "config: " + e.Reason
}

func errorf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

type Logger struct {
	Level string `yaml:"level" toml:"level" json:"level"`
}

type Global struct {
	Logger Logger `yaml:"logger" toml:"logger" json:"logger"`
}

type Confluence struct {
	URL      string `yaml:"url" toml:"url" json:"url"`
	Username string `yaml:"username" toml:"username" json:"username"`
	Token    string `yaml:"token" toml:"token" json:"token"`

	// The parent page is named either directly by id, or by space key plus
	// title. The two styles are mutually exclusive.
	ParentID    string `yaml:"parent_id" toml:"parent_id" json:"parent_id"`
	ParentSpace string `yaml:"parent_space" toml:"parent_space" json:"parent_space"`
	ParentTitle string `yaml:"parent_title" toml:"parent_title" json:"parent_title"`
}

type Inventory struct {
	// File is a local path or an s3://bucket/key URL.
	File                string   `yaml:"file" toml:"file" json:"file"`
	Subtitle            string   `yaml:"subtitle" toml:"subtitle" json:"subtitle"`
	IgnoreGroups        []string `yaml:"ignore_groups" toml:"ignore_groups" json:"ignore_groups"`
	IgnoreResourceTypes []string `yaml:"ignore_resource_types" toml:"ignore_resource_types" json:"ignore_resource_types"`
}

type S3 struct {
	Region         string `yaml:"region" toml:"region" json:"region"`
	Endpoint       string `yaml:"endpoint" toml:"endpoint" json:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style" toml:"force_path_style" json:"force_path_style"`
}

type Sync struct {
	Confluence Confluence `yaml:"confluence" toml:"confluence" json:"confluence"`
	Inventory  Inventory  `yaml:"inventory" toml:"inventory" json:"inventory"`
	Clean      bool       `yaml:"clean" toml:"clean" json:"clean"`
	ReportPath string     `yaml:"report_path" toml:"report_path" json:"report_path"`
	S3         S3         `yaml:"s3" toml:"s3" json:"s3"`
}

type Config struct {
	Global Global `yaml:"global" toml:"global" json:"global"`
	Sync   Sync   `yaml:"sync" toml:"sync" json:"sync"`
}

// NewConfigFromFile loads YAML, TOML, or JSON, chosen by file extension.
func NewConfigFromFile(fpath string) (*Config, error) {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	var config Config
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bs, &config)
	case ".toml":
		err = toml.Unmarshal(bs, &config)
	case ".json":
		err = json.Unmarshal(bs, &config)
	default:
		return nil, errorf("unsupported config format %q", filepath.Ext(fpath))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fpath, err)
	}

	return &config, nil
}

// Validate checks the invocation contract: every required parameter present
// and exactly one way of naming the parent page.
func (c *Config) Validate() error {
	s := c.Sync

	if s.Confluence.URL == "" {
		return errorf("confluence url is required")
	}
	if s.Confluence.Username == "" {
		return errorf("confluence username is required (field or CONFLUENCE_USERNAME)")
	}
	if s.Confluence.Token == "" {
		return errorf("confluence token is required (field or CONFLUENCE_TOKEN)")
	}
	if s.Inventory.File == "" {
		return errorf("inventory file is required")
	}

	hasID := s.Confluence.ParentID != ""
	hasSpaceTitle := s.Confluence.ParentSpace != "" && s.Confluence.ParentTitle != ""
	switch {
	case hasID && (s.Confluence.ParentSpace != "" || s.Confluence.ParentTitle != ""):
		return errorf("parent_id and parent_space/parent_title are mutually exclusive")
	case !hasID && !hasSpaceTitle:
		return errorf("either parent_id or both parent_space and parent_title are required")
	}

	return nil
}
