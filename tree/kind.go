package tree

// Kind discriminates the closed set of node shapes.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindRecord
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// IsLeaf reports whether the kind carries no children.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindRecord, KindSequence:
		return false
	default:
		return true
	}
}
