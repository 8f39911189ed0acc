package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/imagespy/archcheck/mcp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serves the tools via MCP on stdio",
	Long: `Start an MCP server that offers the tools add and check_image.

The server communicates on stdin and stdout and runs until the client
disconnects or the process is terminated. Logs are written to stderr.`,
	Run: func(cmd *cobra.Command, args []string) {
		mustInitLogging()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := mcp.Run(ctx, mcp.DefaultConfig(newChecker()))
		if err != nil && ctx.Err() == nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
