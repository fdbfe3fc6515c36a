// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	strategy TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	total_trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	win_rate_pct REAL NOT NULL,
	initial_capital REAL NOT NULL,
	final_capital REAL NOT NULL,
	total_profit REAL NOT NULL,
	total_spread_cost REAL NOT NULL,
	max_drawdown_pct REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS run_trades (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	side TEXT NOT NULL,
	lots REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	profit REAL NOT NULL,
	spread_cost REAL NOT NULL,
	reason TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol);
CREATE INDEX IF NOT EXISTS idx_run_trades_run ON run_trades(run_id);
`
