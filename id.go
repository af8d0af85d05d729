package gateway

import "github.com/PluralKit/PluralKit-sub000/id"

// ID is the primary identifier type for gateway entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
