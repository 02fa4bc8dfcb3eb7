package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("valid yaml config", func(t *testing.T) {
		config, err := NewConfigFromFile("../../dev/examples/aws-inventory.sync.yml")
		assert.NoError(t, err)
		assert.NotNil(t, config)
		assert.Equal(t, "https://example.atlassian.net/wiki", config.Sync.Confluence.URL)
		assert.Equal(t, "331318947", config.Sync.Confluence.ParentID)
		assert.Equal(t, "prod", config.Sync.Inventory.Subtitle)
		assert.Equal(t, []string{"cloudtrail", "config"}, config.Sync.Inventory.IgnoreGroups)
		assert.Equal(t, []string{"snapshot"}, config.Sync.Inventory.IgnoreResourceTypes)
		assert.True(t, config.Sync.Clean)
	})

	t.Run("toml config", func(t *testing.T) {
		config, err := NewConfigFromFile("testdata/sync.toml")
		require.NoError(t, err)
		assert.Equal(t, "debug", config.Global.Logger.Level)
		assert.Equal(t, "staging", config.Sync.Inventory.Subtitle)
		assert.Equal(t, "100", config.Sync.Confluence.ParentID)
		assert.True(t, config.Sync.Clean)
	})

	t.Run("json config", func(t *testing.T) {
		config, err := NewConfigFromFile("testdata/sync.json")
		require.NoError(t, err)
		assert.Equal(t, "OPS", config.Sync.Confluence.ParentSpace)
		assert.Equal(t, "AWS Inventory", config.Sync.Confluence.ParentTitle)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := NewConfigFromFile("testdata/sync.ini")
		require.Error(t, err)

		var configErr *Error
		assert.ErrorAs(t, err, &configErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfigFromFile("testdata/does-not-exist.yml")
		assert.Error(t, err)
	})
}

func validConfig() *Config {
	return &Config{
		Sync: Sync{
			Confluence: Confluence{
				URL:      "https://wiki.example.com",
				Username: "robot@example.com",
				Token:    "secret",
				ParentID: "100",
			},
			Inventory: Inventory{File: "inventory.csv"},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid with parent id",
			mutate: func(c *Config) {},
		},
		{
			name: "valid with space and title",
			mutate: func(c *Config) {
				c.Sync.Confluence.ParentID = ""
				c.Sync.Confluence.ParentSpace = "OPS"
				c.Sync.Confluence.ParentTitle = "AWS Inventory"
			},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Sync.Confluence.URL = "" },
			wantErr: "url",
		},
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.Sync.Confluence.Username = "" },
			wantErr: "username",
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.Sync.Confluence.Token = "" },
			wantErr: "token",
		},
		{
			name:    "missing inventory file",
			mutate:  func(c *Config) { c.Sync.Inventory.File = "" },
			wantErr: "inventory file",
		},
		{
			name: "both parent styles",
			mutate: func(c *Config) {
				c.Sync.Confluence.ParentSpace = "OPS"
				c.Sync.Confluence.ParentTitle = "AWS Inventory"
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "no parent at all",
			mutate:  func(c *Config) { c.Sync.Confluence.ParentID = "" },
			wantErr: "parent",
		},
		{
			name: "space without title",
			mutate: func(c *Config) {
				c.Sync.Confluence.ParentID = ""
				c.Sync.Confluence.ParentSpace = "OPS"
			},
			wantErr: "parent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var configErr *Error
			assert.ErrorAs(t, err, &configErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
