package cmd

import "database/sql"

// schema is applied at startup. Idempotent DDL keeps deployments simple
// until a real migration tool is warranted.
const schema = `
CREATE TABLE IF NOT EXISTS loads (
	id               UUID PRIMARY KEY,
	state            VARCHAR(32) NOT NULL,
	state_entered_at TIMESTAMPTZ NOT NULL,
	version          BIGINT NOT NULL DEFAULT 0,
	shipper_id       UUID NOT NULL,
	catalyst_id      UUID,
	driver_id        UUID,
	bol_signed       BOOLEAN NOT NULL DEFAULT FALSE,
	pod_photo        BOOLEAN NOT NULL DEFAULT FALSE,
	pod_signature    BOOLEAN NOT NULL DEFAULT FALSE,
	seal_recorded    BOOLEAN NOT NULL DEFAULT FALSE,
	detention_timer  BOOLEAN NOT NULL DEFAULT FALSE,
	demurrage_timer  BOOLEAN NOT NULL DEFAULT FALSE,
	layover_timer    BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_loads_state ON loads (state);
CREATE INDEX IF NOT EXISTS idx_loads_shipper ON loads (shipper_id);

CREATE TABLE IF NOT EXISTS convoys (
	id                UUID PRIMARY KEY,
	load_id           UUID NOT NULL,
	status            VARCHAR(32) NOT NULL,
	held_from         VARCHAR(32),
	lead_escort_id    UUID NOT NULL,
	rear_escort_id    UUID,
	lead_distance_m   DOUBLE PRECISION NOT NULL DEFAULT 0,
	rear_distance_m   DOUBLE PRECISION NOT NULL DEFAULT 0,
	separation_alerts INTEGER NOT NULL DEFAULT 0,
	status_entered_at TIMESTAMPTZ NOT NULL,
	version           BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_convoys_load ON convoys (load_id);
CREATE INDEX IF NOT EXISTS idx_convoys_status ON convoys (status);

CREATE TABLE IF NOT EXISTS transition_audit (
	id               UUID PRIMARY KEY,
	entity_kind      VARCHAR(16) NOT NULL,
	entity_id        UUID NOT NULL,
	from_state       VARCHAR(32) NOT NULL DEFAULT '',
	to_state         VARCHAR(32) NOT NULL DEFAULT '',
	transition_id    VARCHAR(64) NOT NULL DEFAULT '',
	trigger_type     VARCHAR(32) NOT NULL DEFAULT '',
	trigger_event    TEXT NOT NULL DEFAULT '',
	actor_id         VARCHAR(64) NOT NULL DEFAULT '',
	actor_role       VARCHAR(16) NOT NULL DEFAULT '',
	guards_passed    JSONB,
	effects_executed JSONB,
	metadata         JSONB,
	success          BOOLEAN NOT NULL,
	occurred_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON transition_audit (entity_kind, entity_id);
CREATE INDEX IF NOT EXISTS idx_audit_occurred ON transition_audit (occurred_at);
`

// Migrate applies the schema.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
