package core

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"

	"github.com/pkg/errors"
)

type (
	DBExecutor interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// FilterOrderings drops orderings on fields that are not in `allowed`.
// Ordering fields end up in raw SQL, so only known column names may pass.
func FilterOrderings(ordering []DBOrdering, allowed ...string) []DBOrdering {
	if len(ordering) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		known[f] = struct{}{}
	}
	res := make([]DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if _, ok := known[ord.Field]; ok {
			res = append(res, ord)
		}
	}
	return res
}

// CheckDBConn turns an error caused by a lost database connection into a shutdown error.
// Other errors are returned as is.
func CheckDBConn(err error) error {
	if err == nil || !isConnLost(err) {
		return err
	}
	return NewShutdownError("database connection lost: " + err.Error())
}

func isConnLost(err error) bool {
	if cause := errors.Cause(err); cause == driver.ErrBadConn || cause == sql.ErrConnDone {
		return true
	}
	// postgres: class 08 is connection_exception, 57P0x are server shutdowns
	var stateErr interface{ SQLState() string }
	if errors.As(err, &stateErr) {
		state := stateErr.SQLState()
		return strings.HasPrefix(state, "08") || strings.HasPrefix(state, "57P0")
	}
	return false
}
