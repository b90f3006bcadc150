package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aligator/gofat32"
	"github.com/spf13/cobra"
)

func (a *app) lsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls IMAGE",
		Short: "list the root directory of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, closeImage, err := a.openVolume(args[0], false, gofat32.Config{})
			if err != nil {
				return fmt.Errorf("unable to open %s: %w", args[0], err)
			}
			defer closeImage()

			entries, err := v.ListRoot()
			if err != nil {
				return fmt.Errorf("unable to list the root directory: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tCLUSTER\tMODIFIED")
			for _, e := range entries {
				if e.IsLongName() || e.IsVolumeLabel() {
					continue
				}

				name := e.FileName()
				if e.IsDir() {
					name += "/"
				}

				modified := "-"
				if !e.Modified.IsZero() {
					modified = e.Modified.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, e.Size, e.FirstCluster, modified)
			}
			return w.Flush()
		},
	}

	return cmd
}
