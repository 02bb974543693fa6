package db

// Schema is valid for both PostgreSQL and SQLite.
const Schema = `
CREATE TABLE IF NOT EXISTS episodes (
    link TEXT PRIMARY KEY,
    title TEXT,
    filename TEXT,
    published TEXT,
    description TEXT,
    transcript TEXT,
    ingested_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
