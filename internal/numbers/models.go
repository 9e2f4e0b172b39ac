package numbers

// NumberStatus is the inventory lifecycle state of a phone number.
type NumberStatus string

const (
	NumberStatusAvailable NumberStatus = "AVAILABLE"
	NumberStatusAssigned  NumberStatus = "ASSIGNED"
	NumberStatusReleased  NumberStatus = "RELEASED"
)

// Number is one entry of the dashboard's number inventory.
type Number struct {
	Number  string       `json:"number"`
	Status  NumberStatus `json:"status"`
	IsVoip  bool         `json:"is_voip"`
	Enabled bool         `json:"enabled"`
}

// Maskable reports whether this inventory entry may be presented as a
// caller ID in place of a flagged VoIP source.
func (n Number) Maskable() bool {
	return n.Status == NumberStatusAvailable && !n.IsVoip && n.Enabled
}
