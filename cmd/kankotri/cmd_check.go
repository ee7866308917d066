package main

import (
	"fmt"
	"os"

	"kankotri/internal/ux"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print the resolved configuration and validate it",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	styles := ux.NewStyles(out)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(out, styles.Title.Render("# "+configPath))
	fmt.Fprint(out, string(data))

	if _, err := os.Stat(cfg.Paths.Recipients); err != nil {
		fmt.Fprintf(out, "%s roster %s: %v\n", styles.Tag("FAILED"), cfg.Paths.Recipients, err)
	}
	clients, err := ux.ListClients(cfg.Paths.OutputBase, cfg.Dispatch.ArtifactExt)
	if err != nil {
		fmt.Fprintf(out, "%s output base %s: %v\n", styles.Tag("FAILED"), cfg.Paths.OutputBase, err)
	}
	for _, c := range clients {
		fmt.Fprintf(out, "client %s: %d documents\n", c.Name, c.Documents)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Fprintln(out, styles.Tag("SUCCESS"), "configuration is valid")
	return nil
}
