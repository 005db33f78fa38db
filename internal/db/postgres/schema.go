package postgres

// schemaSQL creates every table the bot uses. Accounts are per (user, guild)
// so balances never leak across servers.
const schemaSQL = `
CREATE TABLE users (
    id           TEXT NOT NULL,
    guild_id     TEXT NOT NULL,
    dream_dust   BIGINT NOT NULL DEFAULT 0 CHECK (dream_dust >= 0),
    daily_streak INT NOT NULL DEFAULT 0,
    last_daily   TIMESTAMPTZ,
    last_forage  TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (id, guild_id)
);

CREATE TABLE items_catalog (
    name        TEXT PRIMARY KEY,
    description TEXT NOT NULL DEFAULT '',
    emoji       TEXT NOT NULL DEFAULT '',
    rarity      TEXT NOT NULL DEFAULT 'common',
    category    TEXT NOT NULL DEFAULT 'misc',
    sell_value  BIGINT NOT NULL DEFAULT 0 CHECK (sell_value >= 0)
);

CREATE TABLE inventory (
    user_id   TEXT NOT NULL,
    guild_id  TEXT NOT NULL,
    item_name TEXT NOT NULL REFERENCES items_catalog (name),
    amount    BIGINT NOT NULL DEFAULT 0 CHECK (amount >= 0),
    PRIMARY KEY (user_id, guild_id, item_name)
);

CREATE TABLE shop_items (
    item_name       TEXT PRIMARY KEY REFERENCES items_catalog (name),
    price           BIGINT NOT NULL CHECK (price > 0),
    stock           INT NOT NULL DEFAULT -1,
    available_until TIMESTAMPTZ
);

CREATE TABLE recipes (
    name        TEXT PRIMARY KEY,
    output_item TEXT NOT NULL REFERENCES items_catalog (name),
    output_qty  INT NOT NULL DEFAULT 1 CHECK (output_qty > 0),
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE recipe_ingredients (
    recipe_name TEXT NOT NULL REFERENCES recipes (name) ON DELETE CASCADE,
    item_name   TEXT NOT NULL REFERENCES items_catalog (name),
    qty         INT NOT NULL CHECK (qty > 0),
    PRIMARY KEY (recipe_name, item_name)
);

CREATE TABLE transactions (
    id          BIGSERIAL PRIMARY KEY,
    user_id     TEXT NOT NULL,
    guild_id    TEXT NOT NULL,
    type        TEXT NOT NULL,
    amount      BIGINT NOT NULL DEFAULT 0,
    item_name   TEXT,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX idx_transactions_account ON transactions (guild_id, user_id);
CREATE INDEX idx_transactions_created ON transactions (created_at);

CREATE TABLE guild_settings (
    guild_id TEXT PRIMARY KEY,
    prefix   TEXT NOT NULL DEFAULT ','
);
`

// seedSQL loads the item catalog and brew recipes. Shop listings are derived
// from the catalog at startup, so only raw data lives here.
const seedSQL = `
INSERT INTO items_catalog (name, description, emoji, rarity, category, sell_value) VALUES
    ('Pebble',        'A smooth little stone. Mars collects these.',        '🪨', 'common',    'forage', 5),
    ('Wildflower',    'Picked from a quiet meadow.',                        '🌼', 'common',    'forage', 8),
    ('Dewdrop',       'Morning dew, somehow still holding its shape.',      '💧', 'common',    'forage', 10),
    ('Mushroom',      'Found under a mossy log.',                           '🍄', 'common',    'forage', 12),
    ('Butterfly Wing','Shed gently. No butterflies were bothered.',         '🦋', 'uncommon',  'forage', 20),
    ('Honey',         'Sweet and golden. The bees shared.',                 '🍯', 'uncommon',  'forage', 25),
    ('Moonstone',     'It glows faintly when the sky is dark.',             '🌙', 'rare',      'forage', 40),
    ('Crystal Shard', 'A fragment of something much bigger.',               '💎', 'rare',      'forage', 60),
    ('Fairy Wing',    'Impossibly light. Keep it somewhere safe.',          '🧚', 'epic',      'forage', 90),
    ('Star Fragment', 'A piece of a fallen star, still warm.',              '⭐', 'legendary', 'forage', 250),

    ('Mug of Cocoa',  'Warm, sweet, and exactly what you needed.',          '☕', 'common',    'consumable', 25),
    ('Lavender Tea',  'Calms the nerves. Mars approves.',                   '🫖', 'common',    'consumable', 20),
    ('Star Map',      'Hand-drawn chart of the night sky.',                 '🗺️', 'uncommon',  'decorative', 75),
    ('Dream Catcher', 'Hangs above your bed and does its quiet work.',      '🕸️', 'rare',      'decorative', 150),
    ('Plush Comet',   'A soft companion with a glittery tail.',             '☄️', 'epic',      'decorative', 250),

    ('Glow Jar',      'Captured moonlight in a jar of dew.',                '🏺', 'rare',      'brew', 70),
    ('Honey Elixir',  'Golden and floral. Restores the spirit.',            '🧪', 'uncommon',  'brew', 65),
    ('Forest Stew',   'Hearty, earthy, and a little gritty.',               '🍲', 'common',    'brew', 45),
    ('Stardust Tonic','Shimmers when you swirl it. Tastes like wonder.',    '✨', 'legendary', 'brew', 400);

INSERT INTO recipes (name, output_item, output_qty, description) VALUES
    ('Glow Jar',       'Glow Jar',       1, 'Seal moonlight and dew together.'),
    ('Honey Elixir',   'Honey Elixir',   1, 'Steep honey with a wildflower.'),
    ('Forest Stew',    'Forest Stew',    1, 'Simmer mushrooms over a pebble hearth.'),
    ('Stardust Tonic', 'Stardust Tonic', 1, 'Dissolve a fallen star into crystal and dew.');

INSERT INTO recipe_ingredients (recipe_name, item_name, qty) VALUES
    ('Glow Jar',       'Dewdrop',       2),
    ('Glow Jar',       'Moonstone',     1),
    ('Honey Elixir',   'Honey',         2),
    ('Honey Elixir',   'Wildflower',    1),
    ('Forest Stew',    'Mushroom',      3),
    ('Forest Stew',    'Pebble',        1),
    ('Stardust Tonic', 'Star Fragment', 1),
    ('Stardust Tonic', 'Crystal Shard', 2),
    ('Stardust Tonic', 'Dewdrop',       1);
`
