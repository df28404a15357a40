package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/pixelpalette/internal/plugin/protocol"
)

func newPluginCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plugin",
		Aliases: []string{"plugins"},
		Short:   "Inspect exporter plugins",
	}
	cmd.AddCommand(newPluginInfoCmd(state))
	return cmd
}

func newPluginInfoCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "info <plugin>...",
		Short: "Show the metadata exporter plugins report",
		Long: `Query each plugin with --plugin-info and list what it reports.

A plugin that cannot be queried, or whose protocol version is not supported
by this build, is listed with the reason instead of its metadata.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := NewTable([]string{"PATH", "NAME", "VERSION", "PROTOCOL", "API", "DESCRIPTION"})
			failed := 0

			for _, path := range args {
				result, err := protocol.DetectProtocol(cmd.Context(), path)
				if err != nil {
					failed++
					state.logger.Debug("plugin query failed", "path", path, "error", err)
					table.AddRow([]string{path, "-", "-", "-", "-", err.Error()})
					continue
				}
				info := result.PluginInfo
				table.AddRow([]string{path, info.Name, info.Version, string(result.Type), info.ProtocolVersion, info.Description})
			}

			fmt.Fprint(state.stdout, table.Render())
			if failed > 0 {
				return fmt.Errorf("%d of %d plugins could not be queried", failed, len(args))
			}
			return nil
		},
	}
}
