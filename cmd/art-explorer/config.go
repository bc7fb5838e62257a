package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "config",
		Short:       "Print the effective configuration as YAML",
		Long:        `Config prints the configuration after defaults, config file, environment and flags are merged.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logLevelAnnotation: "warn"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cfg.Redis.Password != "" {
				cfg.Redis.Password = "********"
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
