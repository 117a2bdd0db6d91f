package schema

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the parsed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// RootSeen is the minimal presence map produced by leaf nodes.
func RootSeen() PresenceMap { return PresenceMap{"/": PresenceSeen} }
