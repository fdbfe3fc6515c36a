package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mt5kit/backtester/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent backtest runs from the results DB",
	RunE:  listRuns,
}

var (
	runsDBPath string
	runsLimit  int
)

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVarP(&runsDBPath, "db", "d", "./results.sqlite", "path to SQLite results DB")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list")
}

// openStore hides the concrete store behind journal.Store so commands
// only depend on the journal contract.
func openStore(path string) (journal.Store, error) {
	return journal.NewSQLite(path)
}

func listRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore(runsDBPath)
	if err != nil {
		return fmt.Errorf("open results db: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  %-10s %-4s %-20s trades=%-4d win=%.1f%% pl=%+.2f dd=%.2f%%\n",
			r.RunID, r.Symbol, r.Timeframe, r.Strategy,
			r.TotalTrades, r.WinRatePct, r.TotalProfit, r.MaxDrawdownPct)
	}
	return nil
}
