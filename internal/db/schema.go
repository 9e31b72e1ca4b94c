package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the full database schema. Every statement is idempotent.
const schema = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS public.users (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_login_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS public.item_requests (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    requester_id UUID NOT NULL REFERENCES public.users(id),
    description  TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_item_requests_requester ON public.item_requests(requester_id, created_at DESC);

CREATE TABLE IF NOT EXISTS public.files (
    id             UUID PRIMARY KEY,
    user_id        UUID NOT NULL REFERENCES public.users(id),
    filename       TEXT NOT NULL,
    storage_path   TEXT NOT NULL,
    thumbnail_path TEXT,
    content_type   TEXT NOT NULL,
    size           BIGINT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS public.items (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id    UUID NOT NULL REFERENCES public.users(id),
    name        VARCHAR(256) NOT NULL,
    description TEXT NOT NULL,
    available   BOOLEAN NOT NULL,
    request_id  UUID REFERENCES public.item_requests(id),
    photo_id    UUID REFERENCES public.files(id) ON DELETE SET NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON public.items(owner_id);
CREATE INDEX IF NOT EXISTS idx_items_request ON public.items(request_id);

CREATE TABLE IF NOT EXISTS public.bookings (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    item_id    UUID NOT NULL REFERENCES public.items(id),
    booker_id  UUID NOT NULL REFERENCES public.users(id),
    start_time TIMESTAMPTZ NOT NULL,
    end_time   TIMESTAMPTZ NOT NULL,
    status     TEXT NOT NULL CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT bookings_interval_check CHECK (end_time > start_time),
    CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
        item_id WITH =,
        tstzrange(start_time, end_time, '[)') WITH &&
    ) WHERE (status <> 'REJECTED')
);

CREATE INDEX IF NOT EXISTS idx_bookings_booker ON public.bookings(booker_id, start_time DESC);
CREATE INDEX IF NOT EXISTS idx_bookings_item ON public.bookings(item_id, start_time DESC);

CREATE TABLE IF NOT EXISTS public.comments (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    item_id    UUID NOT NULL REFERENCES public.items(id),
    author_id  UUID NOT NULL REFERENCES public.users(id),
    text       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_comments_item ON public.comments(item_id, created_at);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
