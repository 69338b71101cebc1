package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/timjonaswechler/ui/geometry"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the configured overlay presets",
	Long: `List every overlay preset the playground knows about, with its
resolved placement and timing values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(cfg.Presets))
		for name := range cfg.Presets {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			spec, err := cfg.Spec(name, geometry.Size{W: 1, H: 1})
			if err != nil {
				return fmt.Errorf("preset %q: %w", name, err)
			}
			fmt.Printf("%-12s side=%s align=%s sticky=%s open=%s close=%s layer=%q outside-click=%t escape=%t\n",
				name,
				spec.Placement.Side,
				spec.Placement.Align,
				spec.Placement.Sticky,
				spec.OpenDelay,
				spec.CloseDelay,
				spec.Layer,
				spec.CloseOnOutsideClick,
				spec.CloseOnEscape,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
