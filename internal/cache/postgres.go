package cache

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by the cache_entries table. Tag versions live in
// cache_tag_versions; each row keeps the versions it was loaded under in
// tag_versions, aligned with tags.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `
		SELECT e.value FROM cache_entries e
		WHERE e.key = $1
		  AND (e.expires_at IS NULL OR e.expires_at > now())
		  AND NOT EXISTS (
			SELECT 1 FROM unnest(e.tags, e.tag_versions) AS s(tag, ver)
			LEFT JOIN cache_tag_versions v ON v.tag = s.tag
			WHERE COALESCE(v.version, 0) <> s.ver
		  )
	`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		p.logger.Printf("cache repo: get key=%s error=%v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte, stamp Stamp, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl).UTC()
		expiresAt = &t
	}
	tags := make([]string, 0, len(stamp))
	for t := range stamp {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	versions := make([]int64, len(tags))
	for i, t := range tags {
		versions[i] = stamp[t]
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO cache_entries (key, tags, tag_versions, value, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET tags = EXCLUDED.tags, tag_versions = EXCLUDED.tag_versions, value = EXCLUDED.value,
		    expires_at = EXCLUDED.expires_at, created_at = now()
	`, key, tags, versions, value, expiresAt)
	if err != nil {
		p.logger.Printf("cache repo: set key=%s error=%v", key, err)
	}
	return err
}

func (p *Postgres) TagVersions(ctx context.Context, tags []string) (Stamp, error) {
	stamp := make(Stamp, len(tags))
	for _, t := range tags {
		stamp[t] = 0
	}
	if len(tags) == 0 {
		return stamp, nil
	}
	rows, err := p.pool.Query(ctx, `SELECT tag, version FROM cache_tag_versions WHERE tag = ANY($1)`, tags)
	if err != nil {
		p.logger.Printf("cache repo: tag versions tags=%v error=%v", tags, err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tag     string
			version int64
		)
		if err := rows.Scan(&tag, &version); err != nil {
			return nil, err
		}
		stamp[tag] = version
	}
	return stamp, rows.Err()
}

func (p *Postgres) InvalidateTag(ctx context.Context, tag string) error {
	var rows int64
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO cache_tag_versions (tag, version) VALUES ($1, 1)
			ON CONFLICT (tag) DO UPDATE SET version = cache_tag_versions.version + 1
		`, tag); err != nil {
			return err
		}
		res, err := tx.Exec(ctx, `DELETE FROM cache_entries WHERE $1 = ANY(tags)`, tag)
		if err != nil {
			return err
		}
		rows = res.RowsAffected()
		return nil
	})
	if err != nil {
		p.logger.Printf("cache repo: invalidate tag=%s error=%v", tag, err)
		return err
	}
	p.logger.Printf("cache repo: invalidate tag=%s rows=%d", tag, rows)
	return nil
}

// DeleteExpired removes rows whose TTL has passed and reports how many went.
func (p *Postgres) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := p.pool.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
