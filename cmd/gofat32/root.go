package main

import (
	"os"

	"github.com/aligator/gofat32"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app holds everything the subcommands share.
type app struct {
	fs  afero.Fs
	log *log.Logger
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{
		fs:  fs,
		log: log.New(),
	}
	a.log.Out = os.Stderr

	var verbose bool
	cmd := &cobra.Command{
		Use:          "gofat32",
		Short:        "inspect and write FAT32 images",
		Long:         `Inspect FAT32 image files and copy files into their root directory.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log.Out = cmd.ErrOrStderr()
			if verbose {
				a.log.SetLevel(log.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step done on the image")

	cmd.AddCommand(a.infoCmd())
	cmd.AddCommand(a.lsCmd())
	cmd.AddCommand(a.putCmd())
	cmd.AddCommand(a.catCmd())

	return cmd
}

// openVolume opens the image file and the volume on it.
// The returned function closes the image file.
func (a *app) openVolume(image string, writable bool, config gofat32.Config) (*gofat32.Volume, func() error, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}

	f, err := a.fs.OpenFile(image, flag, 0)
	if err != nil {
		return nil, nil, err
	}

	config.Logger = a.log.WithField("image", image)
	v, err := gofat32.OpenWithConfig(gofat32.NewFileDevice(f), config)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return v, f.Close, nil
}
