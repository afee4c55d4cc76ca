// Package repositories holds the GORM queries behind each service. Every
// repository is bound to a *gorm.DB; WithTx rebinds it to a transaction so
// a service can run several repositories inside one unit of work.
package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-folded LIKE pattern matching s anywhere.
// Use with `LOWER(col) LIKE ? ESCAPE '!'`.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// IsNotFound reports gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
