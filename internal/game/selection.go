package game

// Selection holds the in-progress target selection for the active mode.
// Single-slot targets toggle off on a repeat pick and replace on a
// different pick; hand and pile selections are bounded multi-sets. All of
// it is client-only transient state, reset whenever the mode changes.
type Selection struct {
	Player int
	Secret int
	Set    int
	Cards  []int
	Picked []int
}

// Clear resets every slot. Called on mode changes and after dispatch.
func (s *Selection) Clear() {
	*s = Selection{}
}

func toggleSlot(slot *int, id int) {
	if *slot == id {
		*slot = 0
		return
	}
	*slot = id
}

func toggleID(ids []int, id int) []int {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

func containsID(ids []int, id int) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// TogglePlayer selects or deselects a player target. Picking the local
// participant's own avatar is only allowed while both a player and a secret
// are being chosen.
func (s *Selection) TogglePlayer(mode Mode, localID, playerID int) {
	if mode != ModeChoosePlayer && mode != ModeChoosePlayerAndSecret {
		return
	}
	if playerID == localID && mode != ModeChoosePlayerAndSecret {
		return
	}
	toggleSlot(&s.Player, playerID)
}

// ToggleSecret selects or deselects a secret target. Each secret-choosing
// mode admits a different slice of the board: the actor's own hidden
// secrets, an opponent's hidden secrets, or any revealed secret.
func (s *Selection) ToggleSecret(mode Mode, localID int, secret Secret) {
	switch mode {
	case ModeChooseOwnSecret:
		if secret.Owner != localID || secret.Revealed {
			return
		}
	case ModeChooseTheirSecret:
		if secret.Owner == localID || secret.Revealed {
			return
		}
	case ModeChooseRevealedSecret, ModeChoosePlayerAndSecret:
		if !secret.Revealed {
			return
		}
	default:
		return
	}
	toggleSlot(&s.Secret, secret.ID)
}

// ToggleSet selects or deselects a detective set target.
func (s *Selection) ToggleSet(mode Mode, setID int) {
	if mode != ModeChooseSet {
		return
	}
	toggleSlot(&s.Set, setID)
}

// HandToggleInput carries the context a hand-card click is judged against.
type HandToggleInput struct {
	Mode           Mode
	Status         string
	MyTurn         bool
	SocialDisgrace bool
	// ActiveCardID is the id of the card effect pending this turn, if any.
	// The active effect card sitting in a hand is never selectable.
	ActiveCardID int
}

// handSelectable reports the plain turn states where hand cards may be
// gathered for a discard, a set or an event play.
func handSelectable(status string) bool {
	switch status {
	case StatusTurnStart, StatusFinalizeTurn, StatusFinalizeTurnDraft:
		return true
	}
	return false
}

// ToggleCard applies the hand-card toggle discipline. In the cancel window
// only "not-so-fast" reacts; in the trade window and under social disgrace
// the selection is capped at exactly one card, with further clicks on
// unselected cards ignored.
func (s *Selection) ToggleCard(in HandToggleInput, card Card) {
	if in.Mode == ModeCancelWindow {
		if card.Name == CardNotSoFast {
			s.Cards = toggleID(s.Cards, card.ID)
		}
		return
	}

	if in.Mode == ModeChooseCardToTrade {
		if card.ID == in.ActiveCardID {
			return
		}
		if len(s.Cards) >= 1 && !containsID(s.Cards, card.ID) {
			return
		}
		s.Cards = toggleID(s.Cards, card.ID)
		return
	}

	if !in.MyTurn || !handSelectable(in.Status) {
		return
	}
	if in.SocialDisgrace && len(s.Cards) >= 1 && !containsID(s.Cards, card.ID) {
		return
	}
	s.Cards = toggleID(s.Cards, card.ID)
}

// TogglePick applies the table-pile pick-up discipline: multi-select capped
// at the number of cards missing from a full hand.
func (s *Selection) TogglePick(myTurn bool, handSize int, cardID int) {
	if !myTurn {
		return
	}
	if containsID(s.Picked, cardID) {
		s.Picked = toggleID(s.Picked, cardID)
		return
	}
	if len(s.Picked) >= HandLimit-handSize {
		return
	}
	s.Picked = append(s.Picked, cardID)
}

// DispatchEnabled reports whether the mode's arity requirement is fully
// satisfied by the current selection.
func (s *Selection) DispatchEnabled(mode Mode) bool {
	switch mode {
	case ModeChoosePlayer:
		return s.Player != 0
	case ModeChooseOwnSecret, ModeChooseTheirSecret, ModeChooseRevealedSecret:
		return s.Secret != 0
	case ModeChoosePlayerAndSecret:
		return s.Player != 0 && s.Secret != 0
	case ModeChooseSet:
		return s.Set != 0
	case ModeChooseCardToTrade:
		return len(s.Cards) == 1
	case ModeCancelWindow:
		return len(s.Cards) == 1
	case ModeChooseDirection:
		return true
	}
	return false
}
