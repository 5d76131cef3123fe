package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"
	"unicode/utf16"

	"github.com/cybroslabs/liblzstring-go/base"
	"github.com/cybroslabs/liblzstring-go/internal"
	"github.com/cybroslabs/liblzstring-go/lzstring"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"
)

const (
	memory = ":memory:"
)

// Store keeps named texts compressed in SQLite, typically save slots or cached level descriptions.
type Store struct {
	cfg   *Config
	db    *sql.DB
	codec base.TextCodec
}

// Entry is a stored text as it sits in the database.
type Entry struct {
	Key       string
	Data      []byte
	Symbols   int
	UpdatedAt time.Time
}

type Stats struct {
	Entries int
	Symbols int
	Bytes   int
}

// New opens the store. Defaults: in-memory database, one worker, lenient decoding.
func New(configFuncs ...ConfigFunc) (*Store, error) {
	cfg := &Config{}
	cfg.File(memory)
	cfg.Workers(1)
	for _, cf := range configFuncs {
		cf(cfg)
	}

	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := setup(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setup: %w", err)
	}

	s := Store{
		cfg: cfg,
		db:  db,
		codec: lzstring.NewCodec(&lzstring.CodecSettings{
			Logger: cfg.logger,
			Strict: cfg.strict,
		}),
	}
	s.logf("opened %s", cfg.file)

	return &s, nil
}

func (s *Store) logf(format string, v ...any) {
	if s.cfg.logger != nil {
		s.cfg.logger.Infof(format, v...)
	}
}

func (s *Store) encode(key string, text []uint16) Entry {
	if text == nil {
		text = []uint16{}
	}
	return Entry{
		Key:       key,
		Data:      s.codec.Encode(text),
		Symbols:   len(text),
		UpdatedAt: time.Now(),
	}
}

const upsert = `
	insert into slot (
		name,
		data,
		symbols,
		updated_at
	) values (
		:key,
		:data,
		:symbols,
		:updated_at
	)
	on conflict (name) do update set
		data = excluded.data,
		symbols = excluded.symbols,
		updated_at = excluded.updated_at
	`

func upsertArgs(e Entry) []any {
	return []any{
		sql.Named("key", e.Key),
		sql.Named("data", e.Data),
		sql.Named("symbols", e.Symbols),
		sql.Named("updated_at", e.UpdatedAt.UnixNano()),
	}
}

// Put compresses text and stores it under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, text []uint16) error {
	_, err := s.db.ExecContext(ctx, upsert, upsertArgs(s.encode(key, text))...)
	return closed(err)
}

func (s *Store) PutString(ctx context.Context, key string, text string) error {
	return s.Put(ctx, key, utf16.Encode([]rune(text)))
}

// PutMany compresses the texts concurrently and writes them in a single transaction.
func (s *Store) PutMany(ctx context.Context, texts map[string][]uint16) error {
	entries := make([]Entry, 0, len(texts))
	for key := range texts {
		entries = append(entries, Entry{Key: key})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.workers)
	for ii := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[ii] = s.encode(entries[ii].Key, texts[entries[ii].Key])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return closed(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, upsertArgs(e)...); err != nil {
			return fmt.Errorf("insert %s: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logf("stored %d texts", len(entries))
	return nil
}

// Raw returns the stored entry without decompressing it.
func (s *Store) Raw(ctx context.Context, key string) (*Entry, error) {
	var (
		e         Entry
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`
		select name, data, symbols, updated_at
		from slot
		where name = :key
		`,
		sql.Named("key", key),
	).Scan(&e.Key, &e.Data, &e.Symbols, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", base.ErrNotFound, key)
	}
	if err != nil {
		return nil, closed(err)
	}
	if e.Data == nil {
		e.Data = []byte{}
	}
	e.UpdatedAt = time.Unix(0, updatedAt)
	return &e, nil
}

// Get returns the decompressed text stored under key, base.ErrNotFound when there is none.
func (s *Store) Get(ctx context.Context, key string) ([]uint16, error) {
	e, err := s.Raw(ctx, key)
	if err != nil {
		return nil, err
	}
	text, err := s.codec.Decode(e.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return text, nil
}

func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	text, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(text)), nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, "delete from slot where name = :key", sql.Named("key", key)); err != nil {
			return closed(err)
		}
	}
	return nil
}

// Keys lists stored keys in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "select name from slot order by name asc")
	if err != nil {
		return nil, closed(err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return keys, nil
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		`
		select
			coalesce(count(*), 0),
			coalesce(sum(symbols), 0),
			coalesce(sum(length(data)), 0)
		from
			slot
		`,
	).Scan(&stats.Entries, &stats.Symbols, &stats.Bytes)
	if err != nil {
		return nil, closed(err)
	}
	return &stats, nil
}

// Close closes the database, every later call returns base.ErrClosed.
func (s *Store) Close() error {
	s.logf("closing %s", s.cfg.file)
	return s.db.Close()
}

func closed(err error) error {
	if err != nil && err.Error() == "sql: database is closed" {
		return base.ErrClosed
	}
	return err
}

func open(cfg *Config) (*sql.DB, error) {
	params := url.Values{}
	params.Add("_txlock", "immediate")
	params.Add("_timeout", "5000") // 5s
	name := cfg.file
	if name == memory {
		name = internal.GenerateID()
		params.Add("mode", "memory")
		params.Add("cache", "shared")
	} else {
		params.Add("_journal", "wal")
		params.Add("_sync", "normal")
	}

	db, err := sql.Open("sqlite3", "file:"+name+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	if params.Get("mode") == "memory" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.workers)
		db.SetMaxIdleConns(cfg.workers)
	}

	return db, nil
}

func setup(db *sql.DB) error {
	if _, err := db.Exec(
		`
		create table if not exists slot (
			name       text primary key,
			data       blob not null,
			symbols    int not null,
			updated_at int not null
		) strict
		`,
	); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}
