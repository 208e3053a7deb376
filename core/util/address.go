package util

// Address identifies a principal or custody account on the host ledger.
// The engine treats addresses as opaque: equality is the only operation it
// needs, and the host's Authorizer is the only component able to prove that
// an address approved the current invocation.
type Address string

// String returns the canonical textual form of the address.
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is the empty (unset) address.
func (a Address) IsZero() bool {
	return a == ""
}
