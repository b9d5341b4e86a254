// Package aspect holds the in-memory Aspect Model: typed elements stored in an
// arena keyed by stable IDs.
//
// Elements reference each other by ID, never by URN. A URN is computed from an
// element's namespace and name whenever it is needed, so renaming an element
// never leaves another element holding a stale identifier.
//
// Characteristics and constraints carry a closed variant union
// (CharacteristicVariant, ConstraintVariant). OtherCharacteristic and
// OtherConstraint exist for classes this package does not know yet.
package aspect
