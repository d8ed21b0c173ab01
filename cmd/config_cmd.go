package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/assess-cli/internal/rules"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the rule configuration assessments start from",
	Long:  "Prints the built-in rule configuration, overlaid with rules.file when set. The YAML output is a valid rules.file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		base, err := loadBaseRules(cfg.Rules)
		if err != nil {
			return err
		}
		return writeRules(cmd.OutOrStdout(), base, configFormat)
	},
}

func writeRules(w io.Writer, c rules.Config, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rules.NewOutput(c, nil)), "encode json")
	default:
		return eris.Errorf("unknown format %q (want yaml or json)", format)
	}
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(configCmd)
}
