package campaigns

// Campaign is a momentary snapshot of one dashboard campaign.
//
// The backend owns campaigns; the pipeline reads a fresh list per call and
// never caches across calls (the set can change between requests).
type Campaign struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// AcceptsVoip is the only flag routing cares about.
	AcceptsVoip bool `json:"accepts_voip"`

	// Carried through for completeness; irrelevant to routing.
	Targets  []string `json:"targets,omitempty"`
	Schedule string   `json:"schedule,omitempty"`
}

// FirstVoipAccepting returns the first campaign in list order that accepts
// VoIP traffic.
//
// First-match order is externally imposed: the directory does not sort or
// prioritize, so selection is only as stable as the backend's ordering.
func FirstVoipAccepting(list []Campaign) (Campaign, bool) {
	for _, c := range list {
		if c.AcceptsVoip {
			return c, true
		}
	}
	return Campaign{}, false
}
