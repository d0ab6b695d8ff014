package sqlitedb

// SchemaVersion is stored in the document table.
const SchemaVersion = 1

// Docuverse text lives in the content table keyed by its BLAKE3 hash so
// repeated sources are stored once. The children row with parent ''
// holds the document roots.
const schema = `
CREATE TABLE IF NOT EXISTS document (
	id             TEXT PRIMARY KEY,
	schema_version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS content (
	hash TEXT PRIMARY KEY,
	body TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS docuverses (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	content_hash TEXT NOT NULL REFERENCES content(hash)
);

CREATE TABLE IF NOT EXISTS ranges (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	docuverse    TEXT NOT NULL REFERENCES docuverses(id),
	begin_offset INTEGER,
	end_offset   INTEGER,
	xpath        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS markup_items (
	id        TEXT PRIMARY KEY,
	kind      TEXT NOT NULL,
	gi        TEXT NOT NULL DEFAULT '',
	ns        TEXT NOT NULL DEFAULT '',
	container TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS children (
	parent   TEXT NOT NULL,
	position INTEGER NOT NULL,
	child    TEXT NOT NULL,
	PRIMARY KEY (parent, position)
);

CREATE INDEX IF NOT EXISTS idx_children_child ON children(child);

CREATE TABLE IF NOT EXISTS assertions (
	position INTEGER PRIMARY KEY,
	triple   TEXT NOT NULL
);
`

var tables = []string{"assertions", "children", "markup_items", "ranges", "docuverses", "content", "document"}
