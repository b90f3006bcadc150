package main

import (
	"fmt"

	"github.com/aligator/gofat32"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (a *app) catCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat IMAGE NAME",
		Short: "print a file of the root directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := gofat32.ShortName(args[1]); err != nil {
				return err
			}

			v, closeImage, err := a.openVolume(args[0], false, gofat32.Config{})
			if err != nil {
				return fmt.Errorf("unable to open %s: %w", args[0], err)
			}
			defer closeImage()

			data, err := afero.ReadFile(gofat32.New(v), args[1])
			if err != nil {
				return fmt.Errorf("unable to read %s: %w", args[1], err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	return cmd
}
