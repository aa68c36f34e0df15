package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ByLCY/quire/config"
	"github.com/ByLCY/quire/fonts"
)

var (
	// 构建时通过 -ldflags 注入
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd 构建完整的命令树，每次调用返回独立的 flag 状态。
func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "quire",
		Short: "Lays out report scripts into paginated PDF documents.",
		Long: `quire reads a report script, binds optional JSON data into ${path}
placeholders and lays the content out on fixed-size pages: headers and
footers on every page, tables that never orphan their header row and a
resolved total page count in place of {nb}.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}
	root.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default searches ./quire.yaml and $HOME/.config/quire/)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output")

	render := &cobra.Command{
		Use:   "render -i <script> [-o <output.pdf>]",
		Short: "Render a report script to PDF.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, logger, err := config.LoadAndValidate(cfgFile, verbose, cmd.Flags())
			if err != nil {
				return err
			}
			return run(ctx, cfg, logger)
		},
	}
	config.RegisterFlags(render.Flags())

	fontsCmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the built-in font names accepted by the canvas back end.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range fonts.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	root.AddCommand(render, fontsCmd)
	return root
}
