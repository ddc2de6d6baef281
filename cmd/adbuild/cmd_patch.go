package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adbuild/internal/patch"
)

func runPatch(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	results, err := patch.Phaser(p.cfg.Paths.ProjectRoot, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	changed := 0
	for _, r := range results {
		if r.Changed {
			changed++
		}
	}
	getLogger().Info("Patched Phaser", zap.Int("files", len(results)), zap.Int("changed", changed))
	return nil
}
