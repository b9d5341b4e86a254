package store

// schema creates the statement table. Terms are split into kind and value
// columns so that patterns compile to plain equality tests. The default graph
// is stored with g_kind -1.
const schema = `
CREATE TABLE IF NOT EXISTS statements (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    s_kind     INTEGER NOT NULL,
    s_value    TEXT NOT NULL,
    p          TEXT NOT NULL,
    o_kind     INTEGER NOT NULL,
    o_value    TEXT NOT NULL,
    o_datatype TEXT NOT NULL DEFAULT '',
    o_lang     TEXT NOT NULL DEFAULT '',
    g_kind     INTEGER NOT NULL DEFAULT -1,
    g_value    TEXT NOT NULL DEFAULT '',
    UNIQUE (s_kind, s_value, p, o_kind, o_value, o_datatype, o_lang, g_kind, g_value)
);

CREATE INDEX IF NOT EXISTS idx_statements_sp ON statements(s_value, p);
CREATE INDEX IF NOT EXISTS idx_statements_o ON statements(o_value);
`
