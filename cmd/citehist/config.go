// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citehist/internal/secrets"
	"github.com/pdiddy/citehist/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config prints the configuration after merging defaults, the config file,
CITEHIST_* environment variables, and flags. The API key is redacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// writeConfig writes c as YAML with the API key masked.
func writeConfig(c types.Config, w io.Writer) error {
	c.API.Key = secrets.Redact(c.API.Key)
	data, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	_, err = w.Write(data)
	return err
}
