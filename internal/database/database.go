// Package database owns everything that talks to SQL Server: session
// acquisition with retry/fallback, error classification, and the
// visibility-gated replace transaction.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/config"
)

// Connector opens sessions against the configured server.
type Connector interface {
	// ListDatabases returns the online, non-system database names visible on
	// the server, ascending by name.
	ListDatabases(ctx context.Context) ([]string, error)

	// Open establishes an authenticated session against one database.
	Open(ctx context.Context, database string) (Session, error)
}

// Session is an open, authenticated handle to one database. It is owned
// exclusively by the component that opened it and must be closed on every
// exit path.
type Session interface {
	// TableExists reports whether a base table with the exact name exists.
	TableExists(ctx context.Context, table string) (bool, error)

	// Begin starts the transaction used by the replace reconciliation.
	Begin(ctx context.Context) (Tx, error)

	// VisibleItems reads the visible rows of the items table, ordered by name.
	VisibleItems(ctx context.Context, table string) ([]ExportedItem, error)

	// VisiblePartners reads the visible rows of the Partners table, ordered
	// by name.
	VisiblePartners(ctx context.Context) ([]ExportedPartner, error)

	// LookupRows reads one auxiliary lookup table.
	LookupRows(ctx context.Context, l Lookup) ([]LookupRow, error)

	Close() error
}

// Tx is the transactional surface of the replace reconciliation. The methods
// mirror the reconciliation statements one to one, which keeps the algorithm
// testable against a scripted implementation.
type Tx interface {
	// VisibleKeys captures the keys of currently visible rows.
	VisibleKeys(ctx context.Context, table, keyColumn string) ([]int64, error)

	// HideKeys flips the visibility flag to false for the given keys.
	HideKeys(ctx context.Context, table, keyColumn string, keys []int64) error

	// DeleteUnreferenced hard-deletes the given keys, except those still
	// referenced by a dependent table.
	DeleteUnreferenced(ctx context.Context, table, keyColumn string, keys []int64, dependents []Dependent) error

	// Insert adds one row with an explicit column list.
	Insert(ctx context.Context, table string, columns []string, values []any) error

	// MaxKey returns the current maximum key, 0 for an empty table.
	MaxKey(ctx context.Context, table, keyColumn string) (int64, error)

	// KeyIsIdentity reports whether the key column is a database-managed
	// identity column.
	KeyIsIdentity(ctx context.Context, table, keyColumn string) (bool, error)

	// SetIdentityInsert toggles explicit key assignment for the table.
	SetIdentityInsert(ctx context.Context, table string, enabled bool) error

	Commit() error
	Rollback() error
}

// Dependent names a table holding a foreign key into a reconciled table.
type Dependent struct {
	Table      string
	ForeignKey string
}

// ExportedItem is one visible items row as written to the primary sheet.
type ExportedItem struct {
	Code      string
	Name      string
	Measure   string
	SalePrice float64
	VatRateID int
	GroupID   int
	StatusID  int
	VatTermID int
}

// ExportedPartner is one visible Partners row, column for column.
type ExportedPartner struct {
	PartnerID             int64
	Name                  string
	NameEnglish           string
	ContactName           string
	ContactNameEnglish    string
	EMail                 string
	Bulstat               string
	VatID                 string
	BankName              string
	BankCode              string
	BankAccount           string
	Priority              int
	GroupID               int
	Visible               int
	MainPartnerID         int64
	StatusID              int
	IsExported            int
	IsOSSPartner          int
	CountryID             int
	DocumentEndDatePeriod int
}

// Lookup describes one auxiliary lookup table: where its rows come from and
// how its sheet is laid out. The sheet always carries the key, a synthetic
// "id - description" display column, the description, then any extras.
type Lookup struct {
	// Sheet is the exported sheet name.
	Sheet string

	// Column is the primary-sheet column letter bound to this lookup's
	// display range.
	Column string

	// Headers are the sheet headers: key, "Display", description, extras.
	Headers []string

	query string
}

// LookupRow is one lookup table row.
type LookupRow struct {
	ID          int64
	Description string
	Extra       []any
}

// ItemLookups are the four lookup tables accompanying an items export, in
// primary-sheet column order.
var ItemLookups = []Lookup{
	{
		Sheet:   "VatRates",
		Column:  "E",
		Headers: []string{"ДДС ID", "Display", "Описание", "Стойност", "Тип"},
		query: `SELECT [VatRateID], [Description], [Rate], [TypeIdentifier]
			FROM [dbo].[VatRates] ORDER BY [VatRateID]`,
	},
	{
		Sheet:   "ItemGroups",
		Column:  "F",
		Headers: []string{"Група ID", "Display", "Име"},
		query: `SELECT [GroupID], [Name]
			FROM [dbo].[ItemGroups] ORDER BY [GroupID]`,
	},
	{
		Sheet:   "Status",
		Column:  "G",
		Headers: []string{"Статус ID", "Display", "Име"},
		query: `SELECT [StatusID], [Name]
			FROM [dbo].[Status] ORDER BY [StatusID]`,
	},
	{
		Sheet:   "VatTerms",
		Column:  "H",
		Headers: []string{"ДДС Срок ID", "Display", "Описание", "Тип"},
		query: `SELECT [VatTermID], [Description], [TypeIdentifier]
			FROM [dbo].[VatTerms] ORDER BY [VatTermID]`,
	},
}

// SQLConnector is the go-mssqldb Connector.
type SQLConnector struct {
	cfg *config.DatabaseConfig
}

// NewSQLConnector returns a connector bound to the given settings. The
// settings are read per call, so runtime rewrites of the database name by the
// negotiator take effect immediately.
func NewSQLConnector(cfg *config.DatabaseConfig) *SQLConnector {
	return &SQLConnector{cfg: cfg}
}

// dsn builds an ADO-style connection string. An empty database name connects
// to the server default, which is how the database list is fetched.
func (c *SQLConnector) dsn(database string) string {
	parts := []string{
		"server=" + c.cfg.Server,
		fmt.Sprintf("dial timeout=%d", int(c.cfg.LoginTimeout.Seconds())),
		fmt.Sprintf("connection timeout=%d", int(c.cfg.LoginTimeout.Seconds())),
		"app name=invoice-pro-import-export",
	}
	if database != "" {
		parts = append(parts, "database="+database)
	}
	if !c.cfg.TrustedConnection && c.cfg.User != "" {
		parts = append(parts, "user id="+c.cfg.User, "password="+c.cfg.Password)
	}
	return strings.Join(parts, ";")
}

func (c *SQLConnector) open(ctx context.Context, database string) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", c.dsn(database))
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.LoginTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ListDatabases queries sys.databases on the server default database,
// excluding offline and system databases.
func (c *SQLConnector) ListDatabases(ctx context.Context) ([]string, error) {
	db, err := c.open(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("connect to server %q: %w", c.cfg.Server, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sys.databases
		WHERE state = 0 AND name NOT IN ('master', 'tempdb', 'model', 'msdb')
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan database name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Open establishes a session against {server, database} with the configured
// login timeout.
func (c *SQLConnector) Open(ctx context.Context, database string) (Session, error) {
	db, err := c.open(ctx, database)
	if err != nil {
		return nil, err
	}
	return &sqlSession{db: db}, nil
}

type sqlSession struct {
	db *sql.DB
}

func (s *sqlSession) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_NAME = @p1 AND TABLE_TYPE = 'BASE TABLE'`, table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %q: %w", table, err)
	}
	return count > 0, nil
}

func (s *sqlSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTx{tx: tx}, nil
}

func (s *sqlSession) VisibleItems(ctx context.Context, table string) ([]ExportedItem, error) {
	query := fmt.Sprintf(`
		SELECT [Code], [Name], [Measure], [SalePrice],
		       [VatRateID], [GroupID], [StatusID], [VatTermID]
		FROM %s WHERE [Visible] = 1 ORDER BY [Name]`, qualify(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	defer rows.Close()

	var items []ExportedItem
	for rows.Next() {
		var (
			it            ExportedItem
			code, measure sql.NullString
			price         sql.NullFloat64
		)
		if err := rows.Scan(&code, &it.Name, &measure, &price,
			&it.VatRateID, &it.GroupID, &it.StatusID, &it.VatTermID); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Code = code.String
		it.Measure = measure.String
		it.SalePrice = price.Float64
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *sqlSession) VisiblePartners(ctx context.Context) ([]ExportedPartner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT [PartnerID], [Name], [NameEnglish], [ContactName], [ContactNameEnglish],
		       [EMail], [Bulstat], [VatId], [BankName], [BankCode], [BankAccount],
		       [Priority], [GroupID], [Visible], [MainPartnerID], [StatusID],
		       [IsExported], [IsOSSPartner], [CountryID], [DocumentEndDatePeriod]
		FROM [dbo].[Partners] WHERE [Visible] = 1 ORDER BY [Name]`)
	if err != nil {
		return nil, fmt.Errorf("read partners: %w", err)
	}
	defer rows.Close()

	var partners []ExportedPartner
	for rows.Next() {
		var (
			p    ExportedPartner
			text [9]sql.NullString
		)
		if err := rows.Scan(&p.PartnerID, &p.Name, &text[0], &text[1], &text[2],
			&text[3], &text[4], &text[5], &text[6], &text[7], &text[8],
			&p.Priority, &p.GroupID, &p.Visible, &p.MainPartnerID, &p.StatusID,
			&p.IsExported, &p.IsOSSPartner, &p.CountryID, &p.DocumentEndDatePeriod); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		p.NameEnglish = text[0].String
		p.ContactName = text[1].String
		p.ContactNameEnglish = text[2].String
		p.EMail = text[3].String
		p.Bulstat = text[4].String
		p.VatID = text[5].String
		p.BankName = text[6].String
		p.BankCode = text[7].String
		p.BankAccount = text[8].String
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (s *sqlSession) LookupRows(ctx context.Context, l Lookup) ([]LookupRow, error) {
	rows, err := s.db.QueryContext(ctx, l.query)
	if err != nil {
		return nil, fmt.Errorf("read lookup %s: %w", l.Sheet, err)
	}
	defer rows.Close()

	extraCount := len(l.Headers) - 3
	var result []LookupRow
	for rows.Next() {
		row := LookupRow{Extra: make([]any, extraCount)}
		dests := []any{&row.ID, &row.Description}
		for i := range row.Extra {
			dests = append(dests, &row.Extra[i])
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan lookup %s: %w", l.Sheet, err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *sqlSession) Close() error {
	return s.db.Close()
}

// qualify brackets a table name under the dbo schema. Closing brackets in the
// name are escaped, which neutralizes injection through the configured table.
func qualify(table string) string {
	return "[dbo].[" + strings.ReplaceAll(table, "]", "]]") + "]"
}
