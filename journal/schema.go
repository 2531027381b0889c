package journal

const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	strategy TEXT NOT NULL,
	signal TEXT NOT NULL,
	strong INTEGER NOT NULL,
	allowed INTEGER NOT NULL,
	stage TEXT NOT NULL,
	reason TEXT NOT NULL,
	margin REAL NOT NULL,
	total_margin REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	volume REAL NOT NULL,
	price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	result TEXT NOT NULL,
	ticket TEXT NOT NULL,
	attempts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(time);
CREATE INDEX IF NOT EXISTS idx_orders_time ON orders(time);
`
