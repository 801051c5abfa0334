package export

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// WriteSQLite writes the justification graph to a SQLite database file.
// The schema is created on open; an existing file is extended, so export
// to a fresh path for a clean snapshot.
func (g *Graph) WriteSQLite(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return err
	}
	if err := initSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, node := range g.Nodes() {
		_, err := tx.ExecContext(ctx, `
INSERT OR REPLACE INTO nodes (fact, value, kind, supporting_facts, rules_used)
VALUES (?, ?, ?, ?, ?)`,
			node.Fact,
			node.Value.String(),
			string(node.Kind),
			strings.Join(sortedSet(node.Supporting), ","),
			strings.Join(node.RulesUsed, ";"),
		)
		if err != nil {
			return err
		}
	}

	for _, e := range g.edges {
		_, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO edges (source, target, rule) VALUES (?, ?, ?)`,
			e.From, e.To, e.Rule)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS nodes (
	fact TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	kind TEXT NOT NULL,
	supporting_facts TEXT,
	rules_used TEXT
);

CREATE TABLE IF NOT EXISTS edges (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	rule TEXT NOT NULL,
	PRIMARY KEY(source, target, rule),
	FOREIGN KEY(source) REFERENCES nodes(fact),
	FOREIGN KEY(target) REFERENCES nodes(fact)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}
