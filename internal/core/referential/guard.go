package referential

import (
	"fmt"

	"github.com/frahmantamala/hr-management/internal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reference is a column in another table that points at the guarded row.
type Reference struct {
	Table  string
	Column string
}

// Guard refuses deletes of rows that are still referenced. Check must run on the
// transaction that performs the delete.
type Guard struct {
	Subject    string
	Table      string
	References []Reference
}

func (g Guard) Check(tx *gorm.DB, id int64) error {
	if tx.Dialector.Name() == "postgres" {
		var locked struct{ ID int64 }
		err := tx.Table(g.Table).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", id).
			Take(&locked).Error
		if err != nil {
			return fmt.Errorf("lock %s %d: %w", g.Table, id, err)
		}
	}

	for _, ref := range g.References {
		var count int64
		if err := tx.Table(ref.Table).Where(ref.Column+" = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s.%s: %w", ref.Table, ref.Column, err)
		}
		if count > 0 {
			return internal.NewReferentialConflictError(
				fmt.Sprintf("%s is still in use by %s", g.Subject, ref.Table),
				ref.Table,
				count,
			)
		}
	}
	return nil
}
