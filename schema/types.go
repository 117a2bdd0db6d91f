package schema

// UnknownPolicy controls how unknown object keys are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Collect unknown keys into a target field.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrip:
		return "strip"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strict"
	}
}
