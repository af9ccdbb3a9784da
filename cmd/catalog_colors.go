package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront.GO/service/color"
)

var colorsJSON bool

type colorInfo struct {
	Label      string   `json:"label"`
	Key        string   `json:"key"`
	Kind       string   `json:"kind"`
	Known      bool     `json:"known"`
	MultiColor bool     `json:"multi_color"`
	Values     []string `json:"values"`
	Swatch     string   `json:"swatch"`
}

var colorsCmd = &cobra.Command{
	Use:   "catalog:colors LABEL...",
	Short: "Resolve color labels to swatches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := make([]colorInfo, 0, len(args))
		for _, label := range args {
			e := color.Resolve(label)
			infos = append(infos, colorInfo{
				Label:      label,
				Key:        e.Key,
				Kind:       e.Kind.String(),
				Known:      color.Known(label),
				MultiColor: e.MultiColor(),
				Values:     e.Values,
				Swatch:     color.SwatchBackground(e, label),
			})
		}
		if colorsJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(infos)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LABEL\tKEY\tKIND\tKNOWN\tSWATCH")
		for _, c := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", c.Label, c.Key, c.Kind, c.Known, c.Swatch)
		}
		return tw.Flush()
	},
}

func init() {
	colorsCmd.Flags().BoolVar(&colorsJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(colorsCmd)
}
