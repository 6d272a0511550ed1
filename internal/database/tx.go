package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// keyChunkSize bounds the length of inlined IN lists.
const keyChunkSize = 500

// sqlTx implements Tx over *sql.Tx with SQL Server statements.
type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) VisibleKeys(ctx context.Context, table, keyColumn string) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE [Visible] = 1`, bracket(keyColumn), qualify(table))
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("capture visible keys: %w", err)
	}
	defer rows.Close()

	var keys []int64
	for rows.Next() {
		var key int64
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (t *sqlTx) HideKeys(ctx context.Context, table, keyColumn string, keys []int64) error {
	for _, chunk := range chunkKeys(keys, keyChunkSize) {
		query := fmt.Sprintf(`UPDATE %s SET [Visible] = 0 WHERE %s IN (%s)`,
			qualify(table), bracket(keyColumn), joinKeys(chunk))
		if _, err := t.tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("hide rows: %w", err)
		}
	}
	return nil
}

func (t *sqlTx) DeleteUnreferenced(ctx context.Context, table, keyColumn string, keys []int64, dependents []Dependent) error {
	var guards strings.Builder
	for _, dep := range dependents {
		guards.WriteString(fmt.Sprintf(" AND %s NOT IN (SELECT %s FROM %s WHERE %s IS NOT NULL)",
			bracket(keyColumn), bracket(dep.ForeignKey), qualify(dep.Table), bracket(dep.ForeignKey)))
	}

	for _, chunk := range chunkKeys(keys, keyChunkSize) {
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s IN (%s)%s`,
			qualify(table), bracket(keyColumn), joinKeys(chunk), guards.String())
		if _, err := t.tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("delete unreferenced rows: %w", err)
		}
	}
	return nil
}

func (t *sqlTx) Insert(ctx context.Context, table string, columns []string, values []any) error {
	if len(columns) != len(values) {
		return fmt.Errorf("insert into %s: %d columns, %d values", table, len(columns), len(values))
	}

	cols := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, col := range columns {
		cols[i] = bracket(col)
		params[i] = "@p" + strconv.Itoa(i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		qualify(table), strings.Join(cols, ", "), strings.Join(params, ", "))
	if _, err := t.tx.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

func (t *sqlTx) MaxKey(ctx context.Context, table, keyColumn string) (int64, error) {
	query := fmt.Sprintf(`SELECT ISNULL(MAX(%s), 0) FROM %s`, bracket(keyColumn), qualify(table))
	var maxKey int64
	if err := t.tx.QueryRowContext(ctx, query).Scan(&maxKey); err != nil {
		return 0, fmt.Errorf("read max key: %w", err)
	}
	return maxKey, nil
}

func (t *sqlTx) KeyIsIdentity(ctx context.Context, table, keyColumn string) (bool, error) {
	query := `SELECT COLUMNPROPERTY(OBJECT_ID(@p1), @p2, 'IsIdentity')`
	var flag sql.NullInt64
	if err := t.tx.QueryRowContext(ctx, query, "dbo."+table, keyColumn).Scan(&flag); err != nil {
		return false, fmt.Errorf("check identity column: %w", err)
	}
	return flag.Valid && flag.Int64 == 1, nil
}

func (t *sqlTx) SetIdentityInsert(ctx context.Context, table string, enabled bool) error {
	mode := "OFF"
	if enabled {
		mode = "ON"
	}
	if _, err := t.tx.ExecContext(ctx, fmt.Sprintf(`SET IDENTITY_INSERT %s %s`, qualify(table), mode)); err != nil {
		return fmt.Errorf("set identity_insert %s: %w", strings.ToLower(mode), err)
	}
	return nil
}

func (t *sqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	return t.tx.Rollback()
}

func bracket(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func joinKeys(keys []int64) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.FormatInt(k, 10)
	}
	return strings.Join(parts, ", ")
}

func chunkKeys(keys []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(keys) > size {
		chunks = append(chunks, keys[:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		chunks = append(chunks, keys)
	}
	return chunks
}
