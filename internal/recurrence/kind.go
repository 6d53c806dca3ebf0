package recurrence

// Kind names a recurrence variant.
type Kind string

const (
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
	KindYearly  Kind = "yearly"
)

// Kinds lists the supported kinds in display order.
var Kinds = []Kind{KindWeekly, KindMonthly, KindYearly}

// ParseKind converts a raw kind string. Unknown values return *UnknownKindError.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", &UnknownKindError{Kind: s}
	}
	return k, nil
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindWeekly, KindMonthly, KindYearly:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }
