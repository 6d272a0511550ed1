package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/catalog"
)

// ReplaceSpec describes how one entity is reconciled against its table.
type ReplaceSpec struct {
	// Table is the reconciled table name.
	Table string

	// KeyColumn is the primary key column.
	KeyColumn string

	// Dependents are the tables holding foreign keys into Table. Captured
	// rows referenced by any of them are never hard-deleted.
	Dependents []Dependent

	// Columns is the explicit insert column list.
	Columns []string

	// IdentityKeyed marks entities whose key may be a database-managed
	// identity column. Their inserts assign explicit keys, contiguous after
	// the pre-existing maximum, under a temporary identity-insert override.
	IdentityKeyed bool
}

// ItemsSpec reconciles the product catalog against the given items table.
func ItemsSpec(table string) ReplaceSpec {
	return ReplaceSpec{
		Table:     table,
		KeyColumn: "ItemID",
		Dependents: []Dependent{
			{Table: "DocumentDetails", ForeignKey: "ItemID"},
			{Table: "DocumentTemplateDetails", ForeignKey: "ItemID"},
		},
		Columns: catalog.ItemInsertColumns,
	}
}

// PartnersSpec reconciles the partner catalog against the Partners table.
func PartnersSpec() ReplaceSpec {
	return ReplaceSpec{
		Table:     "Partners",
		KeyColumn: "PartnerID",
		Dependents: []Dependent{
			{Table: "Documents", ForeignKey: "PartnerID"},
			{Table: "DocumentTemplates", ForeignKey: "PartnerID"},
		},
		Columns:       catalog.PartnerInsertColumns,
		IdentityKeyed: true,
	}
}

// Outcome summarizes one replace reconciliation.
type Outcome struct {
	Inserted  int
	Rejected  int
	Committed bool
}

// RowBuilder produces the insert values for record i. For identity-keyed
// entities key is the assigned primary key; otherwise it is zero.
type RowBuilder func(i int, key int64) []any

// progressEvery controls how often bulk-insert progress is logged.
const progressEvery = 100

// Replace reconciles n records against the target table as one all-or-nothing
// transaction:
//
//  1. capture the keys of currently visible rows;
//  2. mark the captured rows invisible, so a failure past this point leaves
//     the table recoverable relative to its dependents;
//  3. hard-delete, from the captured set, only rows not referenced by a
//     dependent table — referenced rows stay present but invisible;
//  4. insert every record as a new visible row;
//  5. commit.
//
// Any failure in steps 2-4 rolls the whole transaction back; no partial
// replace is ever left committed. An identity-insert override enabled for an
// identity-keyed entity is disabled again before the transaction ends, on the
// failure path too. The session itself stays open; the caller owns it.
func Replace(ctx context.Context, sess Session, spec ReplaceSpec, n int, build RowBuilder) (Outcome, error) {
	log := slog.Default().With("table", spec.Table)

	tx, err := sess.Begin(ctx)
	if err != nil {
		return Outcome{}, err
	}

	identityOn := false
	restoreIdentity := func() {
		if !identityOn {
			return
		}
		if err := tx.SetIdentityInsert(ctx, spec.Table, false); err != nil {
			log.Warn("could not disable identity insert", "error", err)
		}
		identityOn = false
	}
	fail := func(step string, err error) (Outcome, error) {
		restoreIdentity()
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn("rollback failed", "error", rbErr)
		}
		log.Error("replace rolled back", "step", step, "error", err)
		return Outcome{}, fmt.Errorf("%s: %w", step, err)
	}

	captured, err := tx.VisibleKeys(ctx, spec.Table, spec.KeyColumn)
	if err != nil {
		return fail("capture", err)
	}

	if err := tx.HideKeys(ctx, spec.Table, spec.KeyColumn, captured); err != nil {
		return fail("soft delete", err)
	}

	if err := tx.DeleteUnreferenced(ctx, spec.Table, spec.KeyColumn, captured, spec.Dependents); err != nil {
		return fail("purge", err)
	}

	var nextKey int64
	if spec.IdentityKeyed {
		maxKey, err := tx.MaxKey(ctx, spec.Table, spec.KeyColumn)
		if err != nil {
			return fail("read max key", err)
		}
		nextKey = maxKey

		identity, err := tx.KeyIsIdentity(ctx, spec.Table, spec.KeyColumn)
		if err != nil {
			return fail("check identity", err)
		}
		if identity {
			if err := tx.SetIdentityInsert(ctx, spec.Table, true); err != nil {
				return fail("enable identity insert", err)
			}
			identityOn = true
		}
	}

	for i := 0; i < n; i++ {
		var key int64
		if spec.IdentityKeyed {
			key = nextKey + int64(i) + 1
		}
		if err := tx.Insert(ctx, spec.Table, spec.Columns, build(i, key)); err != nil {
			return fail(fmt.Sprintf("insert row %d", i+1), err)
		}
		if (i+1)%progressEvery == 0 {
			log.Info("inserting", "done", i+1, "total", n)
		}
	}

	restoreIdentity()

	if err := tx.Commit(); err != nil {
		return fail("commit", err)
	}

	log.Info("replace committed", "inserted", n, "captured", len(captured))
	return Outcome{Inserted: n, Committed: true}, nil
}
