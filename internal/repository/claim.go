package repository

// ClaimResult is the outcome of an atomic insert-if-absent on a fingerprint
// index.
type ClaimResult int

const (
	// ClaimAccepted means the fingerprint was not present and is now reserved.
	ClaimAccepted ClaimResult = iota + 1
	// ClaimCollision means the fingerprint was already present.
	ClaimCollision
)

func (r ClaimResult) String() string {
	switch r {
	case ClaimAccepted:
		return "accepted"
	case ClaimCollision:
		return "collision"
	default:
		return "unknown"
	}
}
