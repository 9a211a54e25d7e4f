package game

import "testing"

func TestResolveActiveEffectPrefersPlayedCard(t *testing.T) {
	cards := []Card{turnCard(CardBlackmailed, 3)}
	sets := []DetectiveSet{turnSet(1, 3, "miss-marple", "miss-marple", "miss-marple")}

	effect := ResolveActiveEffect(cards, sets, 3, false)
	if !effect.CardNamed(CardBlackmailed) {
		t.Fatalf("expected card effect, got %+v", effect)
	}
}

func TestResolveActiveEffectIgnoresOtherTurns(t *testing.T) {
	cards := []Card{turnCard(CardBlackmailed, 2)}
	effect := ResolveActiveEffect(cards, nil, 3, false)
	if effect.Origin != EffectNone {
		t.Fatalf("expected no effect for card from another turn, got %+v", effect)
	}
}

func TestResolveActiveEffectAnotherVictimYieldsToSet(t *testing.T) {
	cards := []Card{turnCard(CardAnotherVictim, 3)}
	sets := []DetectiveSet{turnSet(7, 3, "hercule-poirot", "hercule-poirot", "hercule-poirot")}

	effect := ResolveActiveEffect(cards, sets, 3, false)
	if !effect.IsSet() || effect.Set.ID != 7 {
		t.Fatalf("expected set effect, got %+v", effect)
	}
}

func TestResolveActiveEffectAriadneOliverInSecretContext(t *testing.T) {
	cards := []Card{turnCard(CardAriadneOliver, 3)}
	sets := []DetectiveSet{turnSet(7, 3, "hercule-poirot", "hercule-poirot", "hercule-poirot")}

	// While a secret is being chosen ariadne-oliver attributes the effect
	// to the set; otherwise the card keeps it.
	effect := ResolveActiveEffect(cards, sets, 3, true)
	if !effect.IsSet() {
		t.Fatalf("expected set effect in secret context, got %+v", effect)
	}
	effect = ResolveActiveEffect(cards, sets, 3, false)
	if !effect.CardNamed(CardAriadneOliver) {
		t.Fatalf("expected card effect outside secret context, got %+v", effect)
	}
}

func TestResolveActiveEffectAmbiguousSets(t *testing.T) {
	sets := []DetectiveSet{
		turnSet(1, 3, "miss-marple", "miss-marple", "miss-marple"),
		turnSet(2, 3, "hercule-poirot", "hercule-poirot", "hercule-poirot"),
	}
	effect := ResolveActiveEffect(nil, sets, 3, false)
	if effect.Origin != EffectNone {
		t.Fatalf("expected no effect with two sets on the turn, got %+v", effect)
	}

	// A set from an earlier turn does not count against the ambiguity rule.
	sets[1] = turnSet(2, 1, "hercule-poirot", "hercule-poirot", "hercule-poirot")
	effect = ResolveActiveEffect(nil, sets, 3, false)
	if !effect.IsSet() || effect.Set.ID != 1 {
		t.Fatalf("expected the lone current-turn set, got %+v", effect)
	}
}
