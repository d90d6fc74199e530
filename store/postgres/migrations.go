package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the gym ledger store.
var Migrations = migrate.NewGroup("gymledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_gym_accounts",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gym_accounts (
    id                TEXT PRIMARY KEY,
    balance           BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    membership_expiry TIMESTAMPTZ,
    referral_bonus    BIGINT NOT NULL DEFAULT 0,
    active_challenge  BIGINT NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gym_accounts_expiry ON gym_accounts (membership_expiry);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gym_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gym_roles",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gym_roles (
    account    TEXT NOT NULL,
    role       TEXT NOT NULL,
    granted_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (account, role)
);

CREATE INDEX IF NOT EXISTS idx_gym_roles_role ON gym_roles (role);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gym_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gym_challenges",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gym_challenges (
    id         BIGINT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    reward     BIGINT NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gym_challenges`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gym_sessions",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gym_sessions (
    id         BIGINT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    date       TIMESTAMPTZ NOT NULL,
    cost       BIGINT NOT NULL DEFAULT 0,
    trainer    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS gym_session_participants (
    session_id BIGINT NOT NULL,
    position   BIGINT NOT NULL,
    account    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (session_id, position)
);

CREATE INDEX IF NOT EXISTS idx_gym_participants_account ON gym_session_participants (account);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS gym_session_participants;
DROP TABLE IF EXISTS gym_sessions;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gym_state",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gym_state (
    id             BIGINT PRIMARY KEY,
    paused         BOOLEAN NOT NULL DEFAULT FALSE,
    minted         BIGINT NOT NULL DEFAULT 0,
    burned         BIGINT NOT NULL DEFAULT 0,
    sale_price     BIGINT NOT NULL DEFAULT 0,
    sale_issued    BIGINT NOT NULL DEFAULT 0,
    sale_collected BIGINT NOT NULL DEFAULT 0,
    challenge_seq  BIGINT NOT NULL DEFAULT 0,
    session_seq    BIGINT NOT NULL DEFAULT 0,
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

INSERT INTO gym_state (id) VALUES (1) ON CONFLICT (id) DO NOTHING;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gym_state`)
				return err
			},
		},
	)
}
