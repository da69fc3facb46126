package store

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxStub struct {
	err  error
	sql  string
	args []any
}

func (p *pgxStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.sql, p.args = sql, args
	return pgconn.NewCommandTag("UPDATE 3"), p.err
}

func (p *pgxStub) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	p.sql = sql
	if p.err != nil {
		return nil, p.err
	}
	return fieldRows{}, nil
}

func (p *pgxStub) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

// fieldRows only answers FieldDescriptions, the embedded nil interface covers the rest
type fieldRows struct{ pgx.Rows }

func (fieldRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "post_id"}, {Name: "embed_index"}}
}

func TestQuerier(t *testing.T) {
	ctx := context.Background()
	stub := &pgxStub{}
	q := querier{stub}

	tag, err := q.Exec(ctx, "UPDATE tracks SET title = $1", "x")
	if err != nil || tag.RowsAffected() != 3 || !slices.Equal(stub.args, []any{"x"}) {
		t.Fatalf("Exec = %v, %v (args %v)", tag, err, stub.args)
	}

	rows, err := q.Query(ctx, "SELECT post_id, embed_index FROM embeds")
	if err != nil {
		t.Fatalf("Query err = %v", err)
	}
	if got := rows.Columns(); !slices.Equal(got, []string{"post_id", "embed_index"}) {
		t.Fatalf("Columns = %v", got)
	}

	stub.err = errors.New("down")
	if rows, err := q.Query(ctx, "SELECT 1"); err == nil || rows != nil {
		t.Fatalf("Query on error = %v, %v", rows, err)
	}
}
