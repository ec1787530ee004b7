package ledger

import "database/sql"

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		txn_date TEXT NOT NULL,
		merchant TEXT,
		category TEXT,
		amount REAL NOT NULL,
		type TEXT NOT NULL DEFAULT 'chi',
		note TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL DEFAULT 'chi'
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_txn_date ON transactions(txn_date);
	CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type);
	CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	// Ensure default user exists
	db.Exec(`INSERT OR IGNORE INTO users (name) VALUES ('default')`)

	// Seed the category taxonomy; duplicates are ignored.
	seed := []struct {
		name, typ string
	}{
		{"Ăn uống", "chi"}, {"Xe cộ", "chi"}, {"Mua sắm", "chi"}, {"Học tập", "chi"},
		{"Y tế", "chi"}, {"Du lịch", "chi"}, {"Điện", "chi"}, {"Nước", "chi"},
		{"Internet", "chi"}, {"Thuê nhà", "chi"}, {"Giải trí", "chi"}, {"Thú cưng", "chi"},
		{"Dịch vụ", "chi"}, {"Sửa chữa", "chi"}, {"Quà tặng", "chi"}, {"Chi tiêu khác", "chi"},
		{"Lương", "thu"}, {"Tiền lãi đầu tư", "thu"}, {"Tiền cho thuê nhà", "thu"}, {"Thu nhập khác", "thu"},
	}
	for _, c := range seed {
		db.Exec(`INSERT OR IGNORE INTO categories (name, type) VALUES (?, ?)`, c.name, c.typ)
	}

	return nil
}
