package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/De27vin/M210-inventory-app/internal/models"
)

const summaryColumns = "id, servername, os, environment, application_id"

// Postgres implements Inventory against a PostgreSQL database. Each
// operation dials its own connection and closes it in a defer, so a
// request never leaks a connection on any exit path. Every route performs
// exactly one operation, which keeps the one-connection-per-request
// behavior of the original service. The reconnect cost per request is a
// known limitation.
type Postgres struct {
	dsn string
}

func NewPostgres(dsn string) *Postgres {
	return &Postgres{dsn: dsn}
}

func (s *Postgres) withConn(ctx context.Context, fn func(conn *pgx.Conn) error) error {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)
	return fn(conn)
}

// Migrate creates the inventory table if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	return s.withConn(ctx, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS inventory (
				id              BIGSERIAL PRIMARY KEY,
				servername      TEXT NOT NULL,
				ip              TEXT NOT NULL,
				netmask         TEXT NOT NULL,
				netzzone        TEXT NOT NULL,
				environment     TEXT NOT NULL,
				os              TEXT NOT NULL,
				kernel_version  TEXT NOT NULL,
				application_id  TEXT NOT NULL,
				av              TEXT NOT NULL,
				bv              TEXT NOT NULL,
				virtualisierung TEXT NOT NULL,
				hardware        TEXT NOT NULL,
				firmware        TEXT NOT NULL,
				cpu             TEXT NOT NULL,
				memory          TEXT NOT NULL,
				cmdb_status     TEXT NOT NULL,
				uptime          TEXT NOT NULL,
				lastupdate      TEXT NOT NULL
			)`)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return nil
	})
}

// Ping opens and closes a connection to verify the store is reachable.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.withConn(ctx, func(conn *pgx.Conn) error {
		return conn.Ping(ctx)
	})
}

func (s *Postgres) Create(ctx context.Context, rec *models.Record) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *pgx.Conn) error {
		err := conn.QueryRow(ctx, `
			INSERT INTO inventory (servername, ip, netmask, netzzone, environment, os, kernel_version,
			                       application_id, av, bv, virtualisierung, hardware, firmware, cpu,
			                       memory, cmdb_status, uptime, lastupdate)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING id`,
			rec.ServerName, rec.IP, rec.Netmask, rec.NetZone, rec.Environment,
			rec.OS, rec.KernelVersion, rec.ApplicationID, rec.AV, rec.BV,
			rec.Virtualization, rec.Hardware, rec.Firmware, rec.CPU, rec.Memory,
			rec.CMDBStatus, rec.Uptime, rec.LastUpdate,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		return nil
	})
	return id, err
}

func (s *Postgres) List(ctx context.Context) ([]models.Summary, error) {
	var items []models.Summary
	err := s.withConn(ctx, func(conn *pgx.Conn) error {
		// Postgres has no stable default order; id order keeps list
		// output deterministic.
		rows, err := conn.Query(ctx, `SELECT `+summaryColumns+` FROM inventory ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query inventory: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var it models.Summary
			if err := rows.Scan(&it.ID, &it.ServerName, &it.OS, &it.Environment, &it.ApplicationID); err != nil {
				return fmt.Errorf("scan record: %w", err)
			}
			items = append(items, it)
		}
		return rows.Err()
	})
	return items, err
}

func (s *Postgres) Get(ctx context.Context, id int64) (*models.Summary, error) {
	var it models.Summary
	err := s.withConn(ctx, func(conn *pgx.Conn) error {
		err := conn.QueryRow(ctx, `SELECT `+summaryColumns+` FROM inventory WHERE id = $1`, id).
			Scan(&it.ID, &it.ServerName, &it.OS, &it.Environment, &it.ApplicationID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("query record %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Postgres) Update(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	query, args, err := buildUpdate(id, fields)
	if err != nil {
		return 0, err
	}

	var updated int64
	err = s.withConn(ctx, func(conn *pgx.Conn) error {
		err := conn.QueryRow(ctx, query, args...).Scan(&updated)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update record %d: %w", id, err)
		}
		return nil
	})
	return updated, err
}

func (s *Postgres) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := s.withConn(ctx, func(conn *pgx.Conn) error {
		err := conn.QueryRow(ctx, `DELETE FROM inventory WHERE id = $1 RETURNING id`, id).Scan(&deleted)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete record %d: %w", id, err)
		}
		return nil
	})
	return deleted, err
}

func (s *Postgres) CountByEnvironment(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	err := s.withConn(ctx, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT environment, COUNT(*) FROM inventory GROUP BY environment`)
		if err != nil {
			return fmt.Errorf("count by environment: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var env string
			var n int64
			if err := rows.Scan(&env, &n); err != nil {
				return fmt.Errorf("scan count: %w", err)
			}
			counts[env] = n
		}
		return rows.Err()
	})
	return counts, err
}

// buildUpdate renders the partial-update statement. Column names come from
// the caller, so each one must pass the allow-list before it is placed in
// the SQL text; values are always bound parameters. Columns are sorted so
// the statement is deterministic for a given field set.
func buildUpdate(id int64, fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !models.UpdatableColumns[col] {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	set := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		set[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, fields[col])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE inventory SET %s WHERE id = $%d RETURNING id",
		strings.Join(set, ", "), len(cols)+1)
	return query, args, nil
}
