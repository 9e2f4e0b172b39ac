package classify

import "strings"

// LineType is the carrier technology classification of a phone number.
type LineType string

const (
	LineTypeMobile   LineType = "MOBILE"
	LineTypeLandline LineType = "LANDLINE"
	LineTypeVoip     LineType = "VOIP"
	LineTypeUnknown  LineType = "UNKNOWN"
)

// ParseLineType normalizes the classifier's wire value. Anything the
// classifier invents that we do not recognize maps to UNKNOWN.
func ParseLineType(s string) LineType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MOBILE":
		return LineTypeMobile
	case "LANDLINE":
		return LineTypeLandline
	case "VOIP":
		return LineTypeVoip
	default:
		return LineTypeUnknown
	}
}

// ClassificationResult is the classifier's verdict for one source number.
//
// Produced once per inbound call, immutable, and never persisted on its own:
// the routing engine folds it into the CDR.
type ClassificationResult struct {
	SourceNumber string   `json:"source_number"`
	LineType     LineType `json:"line_type"`
	IsVoip       bool     `json:"is_voip"`

	// FraudScore is a 0-100 risk rating.
	FraudScore int `json:"fraud_score"`

	RecentAbuse bool `json:"recent_abuse"`
}
