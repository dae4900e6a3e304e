package db_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/internal/test"
	"github.com/matryer/is"
)

func TestOpenUnknownDriver(t *testing.T) {
	is := is.New(t)
	_, err := db.Open(context.TODO(), "invalid", "")
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "unknown driver"))
}

func TestFromContext(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	is.True(db.FromContext(ctx) == nil)

	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	ctx = db.WithContext(ctx, dbx)
	is.Equal(db.FromContext(ctx), dbx)
}

func TestSqliteSingleConnection(t *testing.T) {
	is := is.New(t)
	dbx, err := test.OpenSqlite(context.TODO(), t)
	is.NoErr(err)
	is.Equal(dbx.Stats().MaxOpenConnections, 1)
}

func TestTransactionRollback(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, "CREATE TABLE things (name TEXT NOT NULL UNIQUE)")
	is.NoErr(err)

	boom := errors.New("boom")
	err = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO things (name) VALUES ('a')"); err != nil {
			return err
		}
		return boom
	})
	is.True(errors.Is(err, boom))

	var n int
	is.NoErr(dbx.GetContext(ctx, &n, "SELECT COUNT(*) FROM things"))
	is.Equal(n, 0)

	err = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO things (name) VALUES ('a')")
		return err
	})
	is.NoErr(err)
	is.NoErr(dbx.GetContext(ctx, &n, "SELECT COUNT(*) FROM things"))
	is.Equal(n, 1)
}

func TestWrapError(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	for _, e := range []error{fmt.Errorf("foo"), errors.New("bar")} {
		is.Equal(db.WrapError(e), e)
	}
	is.NoErr(db.WrapError(nil))

	var name string
	err = dbx.GetContext(ctx, &name, "SELECT 'x' WHERE 1 = 0")
	is.True(errors.Is(db.WrapError(err), db.ErrRecordNotFound))

	_, err = dbx.ExecContext(ctx, "CREATE TABLE things (name TEXT NOT NULL UNIQUE)")
	is.NoErr(err)
	_, err = dbx.ExecContext(ctx, "INSERT INTO things (name) VALUES ('a')")
	is.NoErr(err)
	_, err = dbx.ExecContext(ctx, "INSERT INTO things (name) VALUES ('a')")
	is.True(errors.Is(db.WrapError(err), db.ErrDuplicateKey))
}
