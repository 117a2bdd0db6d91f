package schema

// Kind identifies a schema node type. The set is closed: transformers and
// other tree walkers dispatch on it exhaustively, and anything outside the
// set is treated as KindLeaf.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindObject
	KindArray
	KindTuple
	KindUnion
	KindDiscriminatedUnion
	KindIntersection
	KindRecord
	KindMap
	KindLazy
	KindOptional
	KindNullable
	KindDefault
)

var kindNames = [...]string{
	KindLeaf:               "leaf",
	KindObject:             "object",
	KindArray:              "array",
	KindTuple:              "tuple",
	KindUnion:              "union",
	KindDiscriminatedUnion: "discriminated_union",
	KindIntersection:       "intersection",
	KindRecord:             "record",
	KindMap:                "map",
	KindLazy:               "lazy",
	KindOptional:           "optional",
	KindNullable:           "nullable",
	KindDefault:            "default",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "leaf"
}
