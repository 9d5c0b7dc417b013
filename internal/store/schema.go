package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS nutrition_entries (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL,
    date                 TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS food_items (
    entry_id             TEXT NOT NULL REFERENCES nutrition_entries(id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    description          TEXT NOT NULL DEFAULT '',
    calories             REAL NOT NULL DEFAULT 0,
    protein              REAL NOT NULL DEFAULT 0,
    carbs                REAL NOT NULL DEFAULT 0,
    fiber                REAL NOT NULL DEFAULT 0,
    sugar                REAL NOT NULL DEFAULT 0,
    fat                  REAL NOT NULL DEFAULT 0,
    saturated_fat        REAL NOT NULL DEFAULT 0,
    sodium               REAL NOT NULL DEFAULT 0,
    cholesterol          REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (entry_id, position)
);

CREATE TABLE IF NOT EXISTS exercise_entries (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL,
    entry_id             TEXT,
    date                 TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    exercise_key         TEXT NOT NULL,
    subtype              TEXT,
    set_count            INTEGER NOT NULL DEFAULT 1,
    duration_minutes     REAL,
    distance_miles       REAL,
    metadata             TEXT
);

CREATE INDEX IF NOT EXISTS idx_nutrition_user_date ON nutrition_entries(user_id, date);
CREATE INDEX IF NOT EXISTS idx_exercise_user_date ON exercise_entries(user_id, date);
CREATE INDEX IF NOT EXISTS idx_exercise_key ON exercise_entries(exercise_key, subtype);
`
