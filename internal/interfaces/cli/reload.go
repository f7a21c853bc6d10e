package cli

import (
	"context"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/readiness-dashboard/internal/config"
	"github.com/turtacn/readiness-dashboard/pkg/client"
)

// NewReloadCmd creates the reload command.
func NewReloadCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Ask a running server to re-read its dataset",
		Long: "Trigger POST /api/v1/dataset/reload on a running server.  A failed\n" +
			"reload leaves the server on its previous snapshot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()
			return runReload(ctx, cmd, cliCtx, server)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "server base URL (default: derived from server.host and server.port)")
	return cmd
}

func runReload(ctx context.Context, cmd *cobra.Command, cliCtx *CLIContext, server string) error {
	if server == "" {
		server = defaultServerURL(cliCtx.Config.Server)
	}
	c, err := client.NewClient(server, client.WithLogger(cliCtx.Logger), client.WithTimeout(cliCtx.Timeout))
	if err != nil {
		return err
	}
	res, err := c.Reload(ctx)
	if err != nil {
		return err
	}

	if wantsJSON(cliCtx) {
		return printJSON(cmd, res)
	}
	if res.PreviousVersion != "" {
		writeLine(cmd.OutOrStdout(), "Reloaded: %s -> %s", res.PreviousVersion, res.Version)
	} else {
		writeLine(cmd.OutOrStdout(), "Reloaded: %s", res.Version)
	}
	writeLine(cmd.OutOrStdout(), "Rows: %d (bar rows: %d)", res.Rows, res.BarRows)
	return nil
}

// defaultServerURL points at the configured listener, using loopback for a
// wildcard host.
func defaultServerURL(cfg config.ServerConfig) string {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Port))
}

//Personal.AI order the ending
