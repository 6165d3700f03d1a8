package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plexorcist/internal/config"
)

// runConfigure reads the current file (or defaults), walks the user through
// the common settings and writes the result back.
func runConfigure(cmd *cobra.Command, ctx *commandContext) error {
	cfg, path, exists, err := config.Read(ctx.configPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()
	if !exists {
		fmt.Fprintf(out, "No configuration found; creating %s\n", path)
	}
	if err := config.Prompt(cmd.InOrStdin(), out, cfg); err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration saved to %s\n", path)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "Warning: %v\n", err)
	}
	return nil
}
