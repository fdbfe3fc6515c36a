package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mt5kit/backtester/backtest"
	"github.com/mt5kit/backtester/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over a bar CSV",
	Long: `Run replays a CSV of OHLCV bars through a strategy and prints the
simulated account result.

The CSV columns are time,open,high,low,close[,volume] with RFC3339
timestamps and an optional header row.

Example:
  backtester run --bars data/eurusd_h1.csv --symbol EURUSD --strategy ema_cross_20_50 --risk 1.0`,
	RunE: runBacktest,
}

var (
	runBarsPath   string
	runConfigPath string
	runDBPath     string
	runJSON       bool

	runSymbol    string
	runTimeframe string
	runStrategy  string
	runCapital   float64
	runRiskPct   float64
	runSLMult    float64
	runTPMult    float64
	runATRPeriod int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runBarsPath, "bars", "b", "", "path to bar CSV (time,open,high,low,close[,volume]) (required)")
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to a YAML/JSON run config (flags are ignored except --bars, --db, --json)")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "path to SQLite results DB (empty disables persistence)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full result as JSON")

	runCmd.Flags().StringVarP(&runSymbol, "symbol", "i", "EURUSD", "instrument symbol")
	runCmd.Flags().StringVar(&runTimeframe, "timeframe", "H1", "bar timeframe label")
	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "ema_cross_20_50", "strategy id")
	runCmd.Flags().Float64Var(&runCapital, "capital", config.DefaultInitialCapital, "initial account capital")
	runCmd.Flags().Float64Var(&runRiskPct, "risk", 1.0, "risk percent per trade (capped by the instrument profile)")
	runCmd.Flags().Float64Var(&runSLMult, "sl-mult", 2.0, "stop-loss distance as an ATR multiple")
	runCmd.Flags().Float64Var(&runTPMult, "tp-mult", 4.0, "take-profit distance as an ATR multiple")
	runCmd.Flags().IntVar(&runATRPeriod, "atr-period", 14, "ATR period for stop/target sizing")

	runCmd.MarkFlagRequired("bars")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	bars, err := loadBars(runBarsPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	res, err := backtest.NewRunner().Run(cfg, bars)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	if runDBPath != "" {
		store, err := openStore(runDBPath)
		if err != nil {
			return fmt.Errorf("open results db: %w", err)
		}
		defer store.Close()

		runID, err := store.SaveRun(res)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("Saved run %s to %s\n\n", runID, runDBPath)
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(res, len(bars))
	return nil
}

func buildConfig() (*config.Config, error) {
	if runConfigPath != "" {
		return config.LoadFromFile(runConfigPath)
	}

	cfg := &config.Config{
		Symbol:         runSymbol,
		Timeframe:      runTimeframe,
		Strategy:       runStrategy,
		InitialCapital: runCapital,
		ATRPeriod:      runATRPeriod,
		Params: config.Params{
			RiskPercent: runRiskPct,
			SLATRMult:   runSLMult,
			TPATRMult:   runTPMult,
		},
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printResult(res backtest.Result, barCount int) {
	fmt.Printf("Backtest Complete!\n")
	fmt.Printf("  Symbol:       %s (%s)\n", res.Symbol, res.Timeframe)
	fmt.Printf("  Strategy:     %s\n", res.Strategy)
	fmt.Printf("  Bars:         %d (%s .. %s)\n", barCount,
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))
	fmt.Printf("  Trades:       %d (%d wins / %d losses, %.1f%% win rate)\n",
		res.TotalTrades, res.Wins, res.Losses, res.WinRatePct)
	fmt.Printf("  Capital:      %.2f -> %.2f\n", res.InitialCapital, res.FinalCapital)
	fmt.Printf("  Net Profit:   %.2f\n", res.TotalProfit)
	fmt.Printf("  Spread Costs: %.2f\n", res.TotalSpreadCost)
	fmt.Printf("  Max Drawdown: %.2f%%\n", res.MaxDrawdownPct)
}
