package payload

// Outcome classifies the result of transforming a single payload cell. Every
// cell handed to the Transformer lands in exactly one of these states.
type Outcome int

const (
	OutcomeUnknown      Outcome = iota
	OutcomeModified             // target field found and at least one occurrence replaced
	OutcomeUnchanged            // target field found but the search value did not occur
	OutcomeFieldMissing         // payload parsed but held no usable target field
	OutcomeMalformed            // payload text did not parse as JSON
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeModified:
		return "modified"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeFieldMissing:
		return "field_missing"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}
