package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/niveshlab/fundrank/backend/internal/philosophy"
	"github.com/niveshlab/fundrank/backend/pkg/config"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

// philosophiesCmd represents the philosophies command
var philosophiesCmd = &cobra.Command{
	Use:   "philosophies",
	Short: "List the available philosophy profiles",
	RunE:  runPhilosophies,
}

func init() {
	rootCmd.AddCommand(philosophiesCmd)
}

func runPhilosophies(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	registry, err := philosophy.NewRegistryFromFile(cfg.Engine.PhilosophyFile, log)
	if err != nil {
		return fmt.Errorf("load philosophies: %w", err)
	}

	for _, p := range registry.List() {
		fmt.Printf("%s - %s\n", p.Name, p.Description)

		names := make([]string, 0, len(p.Weights))
		for name := range p.Weights {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-16s %.2f\n", name, p.Weights[name])
		}
		fmt.Println()
	}
	return nil
}
