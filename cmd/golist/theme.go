package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"golist/internal/theme"
)

var prefersDark bool

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Show or set the theme preference",
	Long: `Show or set the theme preference.

With no argument, prints the stored preference and the theme it resolves to.
"system" follows the platform setting, given here by --prefers-dark.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.System)},
	RunE:      runTheme,
}

func init() {
	themeCmd.Flags().BoolVar(&prefersDark, "prefers-dark", false, "Platform prefers a dark color scheme")
}

func runTheme(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 1 {
		if err := deps.prefs.Set(ctx, theme.Theme(args[0])); err != nil {
			return err
		}
	}
	t := deps.prefs.Get(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", t, theme.Resolve(t, prefersDark))
	return nil
}
