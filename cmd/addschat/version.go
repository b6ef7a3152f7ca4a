package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/addschat/internal/version"
)

func newVersionCmd() *cobra.Command {
	var dirty bool
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Read(dirty)
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s %s\n", info.Module, info.Version); err != nil {
				return err
			}
			if !verbose {
				return nil
			}
			_, err := fmt.Fprintf(out, "go: %s\nrevision: %s\nmodified: %t\n", info.GoVersion, info.Revision, info.Modified)
			return err
		},
	}
	cmd.Flags().BoolVar(&dirty, "dirty", false, "mark builds from a modified tree")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include toolchain and VCS details")
	return cmd
}
