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

CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	user_identifier TEXT NOT NULL,
	title           TEXT NOT NULL,
	steps           TEXT,
	completed       INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(user_identifier);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_created
	ON tasks(user_identifier, created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
