package bridge

import (
	"github.com/spf13/cobra"

	"github.com/speedtest-bridge/internal/gauges"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll variant: fetch the latest upstream speedtest result on every scrape",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, gauges.VariantPoll)
	},
}
