package probe

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mittwald/pgprobe/internal/config"
	"github.com/mittwald/pgprobe/internal/helper"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const nowQuery = "SELECT NOW()"

type PostgresProbe struct {
	connConfig *pgx.ConnConfig
	target     string
	openDB     func(pgx.ConnConfig) *sql.DB
}

// NewPostgresProbe parses the configured connection string. It never touches
// the network; a missing or malformed connection string is reported as a
// configuration error.
func NewPostgresProbe(cfg *config.Postgres) (*PostgresProbe, error) {
	connString := strings.TrimSpace(helper.ResolveEnv(cfg.URL))
	if connString == "" {
		if name, ok := helper.EnvReference(cfg.URL); ok {
			return nil, NewError(KindConfiguration, errors.Errorf("environment variable %s is not set", name))
		}
		return nil, NewError(KindConfiguration, errors.New("no connection string configured"))
	}

	connConfig, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, NewError(KindConfiguration, errors.Wrap(err, "invalid connection string"))
	}

	return &PostgresProbe{
		connConfig: connConfig,
		target:     describeTarget(connConfig),
		openDB:     openDB,
	}, nil
}

// openDB returns a handle that holds at most one connection and keeps none
// idle, so closing the connection closes the socket.
func openDB(cfg pgx.ConnConfig) *sql.DB {
	db := stdlib.OpenDB(cfg)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)
	return db
}

// describeTarget renders host:port/database without credentials. Unix socket
// directories are shown as they are.
func describeTarget(cfg *pgx.ConnConfig) string {
	if strings.HasPrefix(cfg.Host, "/") {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Host, "/"), cfg.Database)
	}
	return fmt.Sprintf("%s/%s", net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port))), cfg.Database)
}

func (p *PostgresProbe) Target() string {
	return p.target
}

func (p *PostgresProbe) Exec(ctx context.Context) error {
	_, err := p.Run(ctx)
	return err
}

// Run opens one connection, asks the server for its current time and
// releases the statement and the connection on every return path.
func (p *PostgresProbe) Run(ctx context.Context) (*Result, error) {
	id := uuid.New().String()
	logger := log.WithFields(log.Fields{"kind": "probe", "name": "postgres", "id": id, "host": p.target})
	start := time.Now()

	db := p.openDB(*p.connConfig)
	defer closeAndLog(logger, "driver handle", db.Close)

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, NewError(KindConnection, errors.Wrapf(err, "failed to connect to %s", p.target))
	}
	defer closeAndLog(logger, "connection", conn.Close)

	logger.Debug("connected")

	stmt, err := conn.PrepareContext(ctx, nowQuery)
	if err != nil {
		return nil, NewError(KindQuery, errors.Wrap(err, "failed to prepare statement"))
	}
	defer closeAndLog(logger, "statement", stmt.Close)

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, NewError(KindQuery, errors.Wrapf(err, "failed to execute %q", nowQuery))
	}
	defer closeAndLog(logger, "rows", rows.Close)

	serverTime, err := scanServerTime(rows)
	if err != nil {
		return nil, NewError(KindQuery, err)
	}

	result := &Result{
		ID:         id,
		Target:     p.target,
		ServerTime: serverTime,
		Latency:    time.Since(start),
	}

	logger.WithFields(log.Fields{"status": "alive", "serverTime": serverTime, "latency": result.Latency}).Info("postgres is alive")

	return result, nil
}

// scanServerTime reads exactly one row with exactly one non-null column.
func scanServerTime(rows *sql.Rows) (time.Time, error) {
	columns, err := rows.Columns()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to read result columns")
	}
	if len(columns) != 1 {
		return time.Time{}, errors.Errorf("expected exactly one column, got %d", len(columns))
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return time.Time{}, errors.Wrap(err, "failed to fetch row")
		}
		return time.Time{}, errors.New("query returned no rows")
	}

	var serverTime sql.NullTime
	if err := rows.Scan(&serverTime); err != nil {
		return time.Time{}, errors.Wrap(err, "failed to scan server time")
	}
	if !serverTime.Valid {
		return time.Time{}, errors.New("server returned a NULL timestamp")
	}

	if rows.Next() {
		return time.Time{}, errors.New("query returned more than one row")
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, errors.Wrap(err, "failed to fetch row")
	}

	return serverTime.Time, nil
}

func closeAndLog(logger *log.Entry, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.WithError(err).Debugf("failed to release %s", what)
	}
}
