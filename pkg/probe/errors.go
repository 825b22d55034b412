package probe

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindConnection
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrConnection    = &Error{Kind: KindConnection}
	ErrQuery         = &Error{Kind: KindQuery}
)

// Error classifies a probe failure. Err carries the driver error.
type Error struct {
	Kind Kind
	Err  error
}

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error", e.Kind)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

func KindOf(err error) (Kind, bool) {
	var probeErr *Error
	if errors.As(err, &probeErr) {
		return probeErr.Kind, true
	}
	return 0, false
}

// SQLState returns the SQLSTATE code reported by the server, if any.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
