// SPDX-License-Identifier: MIT
package main

import (
	"os"

	"github.com/spf13/cobra"

	"spectrum/config"
)

// Options is the fully resolved command line: the renderer
// configuration plus the serving parameters that live outside it.
type Options struct {
	Config *config.Config
	Addr   string
	Width  int
	Height int
}

// ParseArgs builds the runtime options from defaults, an optional YAML
// config file and command line flags, in that order of precedence.
func ParseArgs() (*Options, error) {
	opts := &Options{}
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "spectrum",
		Short:         "Serve an audio spectrum visualization over WebSocket",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// Flags set explicitly on the command line win over the
			// file and the environment.
			if cmd.Flags().Changed("fill") {
				cfg.Fill, _ = cmd.Flags().GetString("fill")
			}
			if cmd.Flags().Changed("mask") {
				cfg.Mask, _ = cmd.Flags().GetString("mask")
			}
			if cmd.Flags().Changed("weighting") {
				cfg.Weighting, _ = cmd.Flags().GetString("weighting")
			}
			if cmd.Flags().Changed("logarithmic") {
				cfg.Logarithmic, _ = cmd.Flags().GetBool("logarithmic")
			}
			if cmd.Flags().Changed("group") {
				cfg.Group, _ = cmd.Flags().GetFloat64("group")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&opts.Addr, "addr", "a", ":8158",
		"Address to serve the WebSocket binder on")
	rootCmd.PersistentFlags().IntVarP(&opts.Width, "width", "W", 800,
		"Drawable surface width in pixels")
	rootCmd.PersistentFlags().IntVarP(&opts.Height, "height", "H", 200,
		"Drawable surface height in pixels")
	rootCmd.PersistentFlags().String("fill", config.DefaultFill,
		"Color ramp name (heat, rainbow, cool, mono)")
	rootCmd.PersistentFlags().String("mask", config.DefaultMask,
		"Mask pattern name (solid, bar, dot, line)")
	rootCmd.PersistentFlags().String("weighting", config.DefaultWeighting,
		"Perceptual weighting curve (a, b, c, d, 468)")
	rootCmd.PersistentFlags().Bool("logarithmic", false,
		"Use a logarithmic frequency axis")
	rootCmd.PersistentFlags().Float64("group", 0,
		"Bar width in plot columns (0 renders a line plot)")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	return opts, nil
}
