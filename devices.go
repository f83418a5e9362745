package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"voice-capture/audio_device"
)

func newDevicesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the audio devices PortAudio can see",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			device := audio_device.NewPortAudio()
			if err := device.Initialize(); err != nil {
				return err
			}
			defer device.Terminate()

			infos, err := device.Devices()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tHOST API\tIN\tOUT\tRATE")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.0f\n",
					info.Name, info.HostAPI, info.MaxInputChannels, info.MaxOutputChannels, info.DefaultSampleRate)
			}

			return tw.Flush()
		},
	}
}
