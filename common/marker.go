package common

// Markers passed as NEP-17 transfer data to distinguish transfers initiated
// by the Nexus contracts themselves from unsolicited ones. OnNEP17Payment
// handlers accept a transfer only when it carries the marker matching its
// context.
const (
	// EscrowMarker marks token pulls into registry escrow and vault
	// deposits.
	EscrowMarker = "nexus escrow"
	// YieldMarker marks asset legs between a vault and its yield source.
	YieldMarker = "nexus yield"
	// FeeMarker marks GAS registration fee pulls.
	FeeMarker = "nexus fee"
)

// IsMarker reports whether NEP-17 transfer data carries the given marker.
func IsMarker(data interface{}, marker string) bool {
	if data == nil {
		return false
	}
	return string(data.([]byte)) == marker
}
