package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/capitalninja/ninja/core/user"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var fs embed.FS

const (
	columnNameCreatedAt = "created_at"
	columnNameUpdatedAt = "updated_at"

	userRLSSetQuery   = "SELECT set_config('app.current_user', $1, false)"
	userRLSResetQuery = "RESET app.current_user"
)

// Client is a wrapper over sqlx that scopes every statement to the user in
// the context through postgres RLS
type Client struct {
	db *sqlx.DB
}

func (c *Client) ExecContext(ctx context.Context, query string, args ...interface{}) (result sql.Result, err error) {
	err = c.withUserConn(ctx, func(conn *sqlx.Conn) error {
		result, err = conn.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}

func (c *Client) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.withUserConn(ctx, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, dest, query, args...)
	})
}

func (c *Client) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.withUserConn(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, dest, query, args...)
	})
}

func (c *Client) QueryFn(ctx context.Context, f func(*sqlx.Conn) error) error {
	return c.withUserConn(ctx, f)
}

func (c *Client) RunWithinTx(ctx context.Context, f func(tx *sqlx.Tx) error) error {
	return c.RunWithinTxOpts(ctx, nil, f)
}

// RunReadOnly runs f in a read-only repeatable-read transaction so every
// statement in f observes the same snapshot.
func (c *Client) RunReadOnly(ctx context.Context, f func(tx *sqlx.Tx) error) error {
	return c.RunWithinTxOpts(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, f)
}

func (c *Client) RunWithinTxOpts(ctx context.Context, opts *sql.TxOptions, f func(tx *sqlx.Tx) error) error {
	return c.withUserConn(ctx, func(conn *sqlx.Conn) error {
		tx, err := conn.BeginTxx(ctx, opts)
		if err != nil {
			return fmt.Errorf("starting transaction: %w", err)
		}
		if err := f(tx); err != nil {
			if txErr := tx.Rollback(); txErr != nil {
				return fmt.Errorf("rollback transaction error: %v (original error: %w)", txErr, err)
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		return nil
	})
}

// withUserConn pins a connection, tags it with the user from ctx, runs f
// and clears the tag again. A connection whose tag cannot be cleared is
// discarded instead of returning to the pool.
func (c *Client) withUserConn(ctx context.Context, f func(*sqlx.Conn) error) error {
	conn, err := c.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, userRLSSetQuery, user.FromContext(ctx).ID); err != nil {
		return fmt.Errorf("set rls user: %w", err)
	}

	ferr := f(conn)

	// reset with a fresh context, the caller's may already be cancelled
	resetCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(resetCtx, userRLSResetQuery); err != nil {
		_ = conn.Raw(func(interface{}) error { return driver.ErrBadConn })
	}
	return ferr
}

// Migrate applies every pending migration and returns the schema version.
func (c *Client) Migrate() (ver uint, err error) {
	m, err := c.initMigration()
	if err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	ver, _, err = m.Version()
	return ver, err
}

func (c *Client) MigrateDown() (ver uint, err error) {
	m, err := c.initMigration()
	if err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	// down one step
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	ver, _, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return ver, err
}

// ExecQueries is used for executing list of db query
func (c *Client) ExecQueries(ctx context.Context, queries []string) error {
	for _, query := range queries {
		_, err := c.db.ExecContext(ctx, query)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// NewClient initializes database connection
func NewClient(cfg Config) (*Client, error) {
	db, err := sqlx.Connect("pgx", cfg.ConnectionURL().String())
	if err != nil {
		return nil, fmt.Errorf("error creating and connecting DB: %w", err)
	}
	if db == nil {
		return nil, errNilDBClient
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return &Client{db}, nil
}

// NewClientWithDB wraps an existing database handle.
func NewClientWithDB(db *sql.DB) *Client {
	return &Client{sqlx.NewDb(db, "pgx")}
}

func (c *Client) initMigration() (*migrate.Migrate, error) {
	iofsDriver, err := iofs.New(fs, "migrations")
	if err != nil {
		return nil, err
	}
	dbDriver, err := migratepg.WithInstance(c.db.DB, &migratepg.Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", iofsDriver, "postgres", dbDriver)
}

func checkPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w [%s]", errDuplicateKey, pgErr.Detail)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w [%s]", errCheckViolation, pgErr.Detail)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w [%s]", errForeignKeyViolation, pgErr.Detail)
		case pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%w [%s]", errInvalidTextRepresentation, pgErr.Message)
		case pgerrcode.TooManyConnections, pgerrcode.ConfigurationLimitExceeded:
			return fmt.Errorf("%w [%s]", errTooManyConnections, pgErr.Message)
		}
	}
	return err
}

func isValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}
