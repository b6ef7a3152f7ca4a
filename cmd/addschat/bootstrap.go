package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pkt.systems/addschat/bootstrap"
	"pkt.systems/pslog"
)

func newBootstrapCmd() *cobra.Command {
	var outputDir string
	var overwrite bool
	cmd := &cobra.Command{
		Use:     "bootstrap",
		Aliases: []string{"init"},
		Short:   "Write a default config and sample catalog files",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			out := outputDir
			if out == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				out = filepath.Join(home, ".addschat")
			}
			paths, err := bootstrap.WriteBootstrap(out, overwrite)
			if err != nil {
				return err
			}
			logger.Info("bootstrap wrote", "path", paths.ConfigPath, "name", "config.yaml")
			logger.Info("bootstrap wrote", "path", paths.SystemPromptPath, "name", "system_prompt.txt")
			logger.Info("bootstrap wrote", "path", paths.PresetsPath, "name", "presets.yaml")
			logger.Info("bootstrap wrote", "path", paths.KBPath, "name", "kb.yaml")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite existing files")
	return cmd
}
