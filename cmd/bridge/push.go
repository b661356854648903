package bridge

import (
	"github.com/spf13/cobra"

	"github.com/speedtest-bridge/internal/gauges"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push variant: accept webhook deliveries and expose the last received values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, gauges.VariantPush)
	},
}
