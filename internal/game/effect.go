package game

// EffectOrigin tags which game object owns the pending effect on a turn.
type EffectOrigin int

const (
	EffectNone EffectOrigin = iota
	EffectCard
	EffectSet
)

// ActiveEffect is the resolved owner of the currently pending effect: a
// played event card, a detective set formed or extended this turn, or
// nothing. Downstream code must not assume a played card always exists.
type ActiveEffect struct {
	Origin EffectOrigin
	Card   Card
	Set    DetectiveSet
}

func (e ActiveEffect) IsCard() bool { return e.Origin == EffectCard }
func (e ActiveEffect) IsSet() bool  { return e.Origin == EffectSet }

// CardNamed reports whether the effect is a card effect with the given name.
func (e ActiveEffect) CardNamed(name string) bool {
	return e.Origin == EffectCard && e.Card.Name == name
}

// ResolveActiveEffect picks the effect owner for the given turn. A card
// played on the turn wins unless its name attributes the effect to a set
// ("another-victim" always, "ariadne-oliver" only while a secret is being
// chosen). Otherwise exactly one set played on the turn wins; zero or more
// than one set resolves to no effect.
func ResolveActiveEffect(cards []Card, sets []DetectiveSet, turn int, choosingSecret bool) ActiveEffect {
	for _, c := range cards {
		if !c.PlayedOn(turn) {
			continue
		}
		if c.Name == CardAnotherVictim {
			continue
		}
		if choosingSecret && c.Name == CardAriadneOliver {
			continue
		}
		return ActiveEffect{Origin: EffectCard, Card: c}
	}

	var match *DetectiveSet
	for i := range sets {
		s := sets[i]
		if s.TurnPlayed == nil || *s.TurnPlayed != turn {
			continue
		}
		if match != nil {
			return ActiveEffect{}
		}
		match = &s
	}
	if match == nil {
		return ActiveEffect{}
	}
	return ActiveEffect{Origin: EffectSet, Set: *match}
}
