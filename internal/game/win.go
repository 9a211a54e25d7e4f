package game

// drawPileFloor is the draw-pile size at which the deck counts as
// exhausted; the last three cards never enter play.
const drawPileFloor = 3

// MurdererEscaped reports the murderer's win: the draw pile is exhausted,
// or every player outside the murderer/accomplice pair is in social
// disgrace. Either clause alone decides it.
func MurdererEscaped(drawPile []Card, players []Player, secrets []Secret) bool {
	if len(drawPile) == drawPileFloor {
		return true
	}

	murderer, accomplice := 0, 0
	for _, s := range secrets {
		switch s.Type {
		case SecretMurderer:
			murderer = s.Owner
		case SecretAccomplice:
			accomplice = s.Owner
		}
	}

	for _, p := range players {
		if p.ID == murderer || p.ID == accomplice {
			continue
		}
		if !p.SocialDisgrace {
			return false
		}
	}
	return true
}

// MurdererOf returns the player holding the murderer secret, if revealed
// state is known client-side.
func MurdererOf(players []Player, secrets []Secret) (Player, bool) {
	for _, s := range secrets {
		if s.Type != SecretMurderer {
			continue
		}
		for _, p := range players {
			if p.ID == s.Owner {
				return p, true
			}
		}
	}
	return Player{}, false
}
