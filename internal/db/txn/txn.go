// Package txn holds small helpers shared by the storage controllers.
package txn

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate applies a row lock to the query on engines that support it.
// SQLite has no FOR UPDATE; its single-writer model already serializes
// concurrent mutations, so the clause is skipped there.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
