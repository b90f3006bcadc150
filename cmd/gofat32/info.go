package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aligator/gofat32"
	"github.com/spf13/cobra"
)

// volumeInfo is the output of the info command.
type volumeInfo struct {
	Label        string `json:"label"`
	FATType      string `json:"fatType"`
	VolumeSize   uint64 `json:"volumeSize"`
	ClusterSize  uint32 `json:"clusterSize"`
	FATCount     uint8  `json:"fatCount"`
	RootCluster  uint32 `json:"rootCluster"`
	FreeClusters int    `json:"freeClusters"`
	NextFree     uint32 `json:"nextFree,omitempty"`
}

func (a *app) infoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info IMAGE",
		Short: "show the geometry of an image",
		Long:  `Show the geometry and the free space of a FAT32 image.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, closeImage, err := a.openVolume(args[0], false, gofat32.Config{})
			if err != nil {
				return fmt.Errorf("unable to open %s: %w", args[0], err)
			}
			defer closeImage()

			boot := v.BootSector()
			info := volumeInfo{
				Label:       boot.Label(),
				FATType:     boot.FATType().String(),
				VolumeSize:  v.VolumeSize(),
				ClusterSize: v.ClusterSize(),
				FATCount:    v.FATCount(),
				RootCluster: v.RootCluster(),
			}

			info.FreeClusters, err = v.FreeClusters()
			if err != nil {
				return fmt.Errorf("unable to read the FAT: %w", err)
			}
			info.NextFree, err = v.NextFree()
			if err != nil && !errors.Is(err, gofat32.ErrNoFreeClusters) {
				return fmt.Errorf("unable to read the FAT: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Fprintf(out, "label:         %s\n", info.Label)
			fmt.Fprintf(out, "type:          %s\n", info.FATType)
			fmt.Fprintf(out, "volume size:   %d\n", info.VolumeSize)
			fmt.Fprintf(out, "cluster size:  %d\n", info.ClusterSize)
			fmt.Fprintf(out, "FAT copies:    %d\n", info.FATCount)
			fmt.Fprintf(out, "root cluster:  %d\n", info.RootCluster)
			fmt.Fprintf(out, "free clusters: %d\n", info.FreeClusters)
			if info.NextFree != 0 {
				fmt.Fprintf(out, "next free:     %d\n", info.NextFree)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the information as JSON")

	return cmd
}
