package entity

// Quality ranks a unique-key alternate candidate (spec §4.6, stage 8): the
// build phase picks the candidate with the best rank no worse than the
// configured threshold. Ranks increase in the order spelled out in the
// spec: "onlyRequiredPrimitives > onlyRequired > onlyPrimitives >
// allowsNulls".
type Quality int

const (
	QualityAllowsNulls Quality = iota
	QualityOnlyPrimitives
	QualityOnlyRequired
	QualityOnlyRequiredPrimitives
)

// UniqueKey is one candidate unique-key alternate: an ordered set of
// singular properties that together identify an instance.
type UniqueKey struct {
	Properties []Property
	Quality    Quality
}

// qualityOf ranks a candidate unique key from the properties composing it.
func qualityOf(props []Property) Quality {
	allRequired := true
	allPrimitive := true
	for _, p := range props {
		if !p.IsRequired() {
			allRequired = false
		}
		if _, ok := p.(*Primitive); !ok {
			if _, ok := p.(*Version); !ok {
				allPrimitive = false
			}
		}
	}
	switch {
	case allRequired && allPrimitive:
		return QualityOnlyRequiredPrimitives
	case allRequired:
		return QualityOnlyRequired
	case allPrimitive:
		return QualityOnlyPrimitives
	default:
		return QualityAllowsNulls
	}
}
