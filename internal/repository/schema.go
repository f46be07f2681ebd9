package repository

// Both schemas are idempotent and applied at startup.

var postgresSchema = []string{
	`create table if not exists receipts (
		id text primary key,
		created_at timestamptz not null default now(),
		tenant_id text,
		user_id text,
		file_name text not null,
		mime text,
		raw_text text,
		fields jsonb,
		route text,
		last_request_id text
	)`,
	`create index if not exists receipts_created_at_idx on receipts (created_at desc)`,
	`create table if not exists feedback_events (
		id text primary key,
		created_at timestamptz not null default now(),
		request_id text,
		file_name text not null,
		verdict text not null check (verdict in ('accepted','corrected')),
		original jsonb not null,
		corrected jsonb
	)`,
}

var sqliteSchema = []string{
	`create table if not exists receipts (
		id text primary key,
		created_at text not null,
		tenant_id text,
		user_id text,
		file_name text not null,
		mime text,
		raw_text text,
		fields text,
		route text,
		last_request_id text
	)`,
	`create index if not exists receipts_created_at_idx on receipts (created_at desc)`,
	`create table if not exists feedback_events (
		id text primary key,
		created_at text not null,
		request_id text,
		file_name text not null,
		verdict text not null check (verdict in ('accepted','corrected')),
		original text not null,
		corrected text
	)`,
}
