package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are integer minor units and rates are integer basis points.
// IMPORTANT: distributions must be created BEFORE wallet_credits due to the foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS service_rules (
    service_id TEXT PRIMARY KEY,
    vendor_id TEXT NOT NULL,
    vendor_referral_bp INTEGER NOT NULL CHECK (vendor_referral_bp BETWEEN 0 AND 10000),
    platform_fee_bp INTEGER CHECK (platform_fee_bp BETWEEN 0 AND 10000),
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS client_rules (
    client_id TEXT PRIMARY KEY,
    platform_fee_bp INTEGER CHECK (platform_fee_bp BETWEEN 0 AND 10000),
    client_share_bp INTEGER CHECK (client_share_bp BETWEEN 0 AND 10000),
    missing_referrer_policy TEXT,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS distributions (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL UNIQUE,
    service_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    client_id TEXT NOT NULL,
    referrer_id TEXT NOT NULL,
    currency TEXT NOT NULL,
    gross INTEGER NOT NULL,
    vendor_referral_fee INTEGER NOT NULL,
    net_to_service_owner INTEGER NOT NULL,
    platform_fee INTEGER NOT NULL,
    remainder INTEGER NOT NULL,
    client_share INTEGER NOT NULL,
    referrer_share INTEGER NOT NULL,
    rounding_adjustment INTEGER NOT NULL,
    rerouted_referrer_share INTEGER NOT NULL DEFAULT 0,
    referrer_to_platform INTEGER NOT NULL DEFAULT 0,
    vendor_referral_bp INTEGER NOT NULL,
    platform_fee_bp INTEGER NOT NULL,
    client_share_bp INTEGER NOT NULL,
    vendor_referral_residue INTEGER NOT NULL,
    platform_fee_residue INTEGER NOT NULL,
    client_share_residue INTEGER NOT NULL,
    created_at INTEGER NOT NULL -- unix nanoseconds
);

CREATE TABLE IF NOT EXISTS wallet_credits (
    entry_id TEXT NOT NULL,
    order_id TEXT NOT NULL,
    party_id TEXT NOT NULL,
    role TEXT NOT NULL,
    currency TEXT NOT NULL,
    amount INTEGER NOT NULL,
    PRIMARY KEY (entry_id, role),
    FOREIGN KEY (entry_id) REFERENCES distributions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_distributions_client_id ON distributions(client_id);
CREATE INDEX IF NOT EXISTS idx_distributions_referrer_id ON distributions(referrer_id);
CREATE INDEX IF NOT EXISTS idx_distributions_vendor_id ON distributions(vendor_id);
CREATE INDEX IF NOT EXISTS idx_wallet_credits_party_id ON wallet_credits(party_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
