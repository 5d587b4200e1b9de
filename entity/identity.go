package entity

// IdentityKey is a map key whose equality is the receiver's pointer
// identity, not its value equality (spec invariant 3: "State-map keys for
// classes with generated identifiers must use an identity-hashing key,
// because the entity's own equality/hash may change once the identifier is
// populated"). Entities are always addressed by a pointer to their struct,
// so boxing that pointer in an `any` and using it as a Go map key gives
// exactly this: Go compares interface values holding pointers by the
// pointer, never by what they point to.
type IdentityKey struct {
	ptr any
}

// NewIdentityKey returns the identity key for entity, which must be a
// pointer to the entity's struct.
func NewIdentityKey(entity any) IdentityKey {
	return IdentityKey{ptr: entity}
}
