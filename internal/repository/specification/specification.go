// Package specification expresses repository queries as small composable
// values. A repository method accepts any number of them and folds each
// into the GORM query, so a service can ask for "owned by this user,
// newest first, page two" without the repository growing a method per
// combination.
package specification

import "gorm.io/gorm"

// Specification is one reusable query fragment.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
