package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "A risk-aware backtesting engine for bar data",
	Long: `Backtester replays historical price bars through a trading strategy and
simulates the resulting account: instrument-aware position sizing,
spread and slippage costs, stop-loss/take-profit triggering, and
equity/drawdown accounting.

It provides tools for:
  - Running backtests over OHLCV bar CSVs
  - Tiered position sizing for high-volatility instruments (gold, indices)
  - Persisting run results and trade logs to SQLite
  - Inspecting past runs`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
