package game

// setSizes is the number of copies each detective needs to form a set. The
// Beresford siblings pair with each other as a two-card set; the harley-quin
// wildcard substitutes for any copy but cannot anchor a set, and
// ariadne-oliver never forms or joins one.
var setSizes = map[string]int{
	"hercule-poirot":           3,
	"miss-marple":              3,
	"parker-pyne":              2,
	"mr-satterthwaite":         2,
	"lady-eileen-bundle-brent": 2,
	"tommy-beresford":          2,
	"tuppence-beresford":       2,
}

func isBeresford(name string) bool {
	return name == "tommy-beresford" || name == "tuppence-beresford"
}

// ValidDetectiveSet reports whether the selected cards form a playable set.
func ValidDetectiveSet(selected []Card) bool {
	if len(selected) < 2 {
		return false
	}

	names := make([]string, 0, len(selected))
	anchor := ""
	for _, c := range selected {
		if c.Name == CardAriadneOliver {
			return false
		}
		names = append(names, c.Name)
		if anchor == "" && c.Name != CardHarleyQuinWildcard {
			anchor = c.Name
		}
	}
	if anchor == "" {
		return false
	}

	required, ok := setSizes[anchor]
	if !ok || required != len(names) {
		return false
	}

	hasTommy := containsName(names, "tommy-beresford")
	hasTuppence := containsName(names, "tuppence-beresford")
	if hasTommy && hasTuppence && len(names) == 2 {
		return true
	}

	for _, n := range names {
		if n != anchor && n != CardHarleyQuinWildcard {
			return false
		}
	}
	return true
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// CompatibleAdd reports whether a hand card may extend one of the local
// participant's existing sets.
func CompatibleAdd(card Card, set DetectiveSet, localID int) bool {
	if set.Owner != localID {
		return false
	}
	if card.Name == CardHarleyQuinWildcard || card.Name == CardAriadneOliver {
		return false
	}

	var anchor *Card
	for i := range set.Detectives {
		d := set.Detectives[i]
		if d.Name != CardHarleyQuinWildcard && d.Name != CardAriadneOliver {
			anchor = &d
			break
		}
	}
	if anchor == nil {
		return false
	}
	if card.Name == anchor.Name {
		return true
	}
	return isBeresford(card.Name) && isBeresford(anchor.Name)
}

// ExtendableSet picks the lowest-id owned set the card can extend, if any.
func ExtendableSet(card Card, owned []DetectiveSet, localID int) (DetectiveSet, bool) {
	var best DetectiveSet
	found := false
	for _, s := range owned {
		if !CompatibleAdd(card, s, localID) {
			continue
		}
		if !found || s.ID < best.ID {
			best = s
			found = true
		}
	}
	return best, found
}
