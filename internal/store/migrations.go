package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS brokerages (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS investment_accounts (
	id           TEXT PRIMARY KEY,
	brokerage_id TEXT NOT NULL REFERENCES brokerages(id),
	label        TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(brokerage_id, label)
);

CREATE TABLE IF NOT EXISTS currencies (
	id   TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS assets (
	id          TEXT PRIMARY KEY,
	symbol      TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	exchange    TEXT NOT NULL DEFAULT '',
	currency_id TEXT NOT NULL REFERENCES currencies(id)
);

CREATE TABLE IF NOT EXISTS transaction_types (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS email_accounts (
	address  TEXT PRIMARY KEY,
	user_id  TEXT NOT NULL,
	provider TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id                    TEXT PRIMARY KEY,
	user_id               TEXT NOT NULL,
	asset_id              TEXT NOT NULL REFERENCES assets(id),
	transaction_type_id   TEXT NOT NULL REFERENCES transaction_types(id),
	brokerage_id          TEXT NOT NULL REFERENCES brokerages(id),
	investment_account_id TEXT NOT NULL REFERENCES investment_accounts(id),
	quantity              TEXT NOT NULL,
	avg_price             TEXT NOT NULL,
	total                 TEXT NOT NULL,
	fee                   TEXT NOT NULL DEFAULT '0',
	transaction_date      DATETIME NOT NULL,
	source_ref            TEXT NOT NULL UNIQUE,
	imported_at           DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS import_watermarks (
	address  TEXT NOT NULL,
	folder   TEXT NOT NULL,
	last_uid INTEGER NOT NULL,
	UNIQUE(address, folder)
);

CREATE INDEX IF NOT EXISTS idx_assets_symbol ON assets(symbol);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);

INSERT INTO currencies (id, code) VALUES
	('cur-cad', 'CAD'),
	('cur-usd', 'USD');

INSERT INTO transaction_types (id, name) VALUES
	('tt-buy', 'buy'),
	('tt-sell', 'sell'),
	('tt-dividend', 'dividend');

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_transactions_date
	ON transactions(transaction_date);

CREATE INDEX IF NOT EXISTS idx_transactions_asset
	ON transactions(asset_id);

CREATE INDEX IF NOT EXISTS idx_email_accounts_user
	ON email_accounts(user_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
