package store

import "context"

// Many maps every row of sql through scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	var out []T
	err := each(ctx, q, sql, args, func(r Row) error {
		v, err := scan(r)
		if err == nil {
			out = append(out, v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Index is Many keyed by key, a later row replaces an earlier one with the same key
func Index[K comparable, T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), key func(T) K, sql string, args ...any) (map[K]T, error) {
	out := map[K]T{}
	err := each(ctx, q, sql, args, func(r Row) error {
		v, err := scan(r)
		if err == nil {
			out[key(v)] = v
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func each(ctx context.Context, q RowQuerier, sql string, args []any, fn func(Row) error) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
