package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/aligator/gofat32"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (a *app) putCmd() *cobra.Command {
	var (
		name       string
		mirrorFATs bool
	)
	cmd := &cobra.Command{
		Use:   "put IMAGE FILE",
		Short: "copy a file into the root directory of an image",
		Long: `Copy a file into the root directory of an image.
The file is stored under its 8.3 name, use --name if the host name does not fit.
Existing files are not replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, source := args[0], args[1]
			if name == "" {
				name = filepath.Base(source)
			}

			data, err := afero.ReadFile(a.fs, source)
			if err != nil {
				return fmt.Errorf("unable to read %s: %w", source, err)
			}

			v, closeImage, err := a.openVolume(image, true, gofat32.Config{
				MirrorFATs: mirrorFATs,
				Now:        time.Now,
			})
			if err != nil {
				return fmt.Errorf("unable to open %s: %w", image, err)
			}

			if err := afero.WriteFile(gofat32.New(v), name, data, 0644); err != nil {
				_ = closeImage()
				return fmt.Errorf("unable to write %s: %w", name, err)
			}

			a.log.Infof("Copied %s to %s (%d bytes)", source, name, len(data))
			return closeImage()
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "8.3 name of the new file, defaults to the name of FILE")
	cmd.Flags().BoolVar(&mirrorFATs, "mirror-fats", false, "Write all FAT copies instead of only the first one")

	return cmd
}
