// Package postgres implements the slug engine's store contract on
// PostgreSQL. Records live in one jsonb-backed table partitioned by root
// type; scoped slug uniqueness is enforced with partial unique expression
// indexes created per definition, the authoritative backstop for concurrent
// creation races.
//
// The schema ships as embedded goose migrations:
//
//	pool, err := postgres.Connect(ctx, cfg)
//	if err != nil { ... }
//	if err := postgres.Migrate(ctx, pool, cfg.MigrationsTable, log); err != nil { ... }
//	st := postgres.New(pool)
package postgres
