package game

// Mode is the resolved targeting state. It gates which targets are
// interactive and which outbound request a confirmed selection produces.
type Mode int

const (
	ModeNone Mode = iota
	ModeChoosePlayer
	ModeChooseOwnSecret
	ModeChooseTheirSecret
	ModeChooseRevealedSecret
	ModeChoosePlayerAndSecret
	ModeChooseSet
	ModeChooseCardToTrade
	ModeCancelWindow
	ModeChooseDirection
)

var modeNames = map[Mode]string{
	ModeNone:                  "none",
	ModeChoosePlayer:          "choose_player",
	ModeChooseOwnSecret:       "choose_own_secret",
	ModeChooseTheirSecret:     "choose_their_secret",
	ModeChooseRevealedSecret:  "choose_revealed_secret",
	ModeChoosePlayerAndSecret: "choose_player_and_secret",
	ModeChooseSet:             "choose_set",
	ModeChooseCardToTrade:     "choose_card_to_trade",
	ModeCancelWindow:          "cancel_window",
	ModeChooseDirection:       "choose_direction",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ModeInput is everything the resolver looks at. It is assembled from the
// entity mirror; the resolver itself never fetches.
type ModeInput struct {
	Session     Session
	LocalPlayer Player
	PlayerCount int
	// Effect is the resolved active effect for the current turn, with
	// secret-choice context applied when the status calls for a secret.
	Effect ActiveEffect
	// SetsThisTurn are the detective sets formed or extended on the
	// current turn, used for the parker-pyne override.
	SetsThisTurn []DetectiveSet
}

// hasAuthority reports whether the local participant may act: either it is
// named as the player in action, or the slot is open to anyone.
func hasAuthority(session Session, localID int) bool {
	return session.PlayerInAction == nil || *session.PlayerInAction == localID
}

// localSeatActing reports whether the local participant owns the
// current-turn seat (turn index modulo seat count).
func localSeatActing(in ModeInput) bool {
	if in.PlayerCount == 0 {
		return false
	}
	return in.LocalPlayer.Position == in.Session.CurrentTurn%in.PlayerCount
}

// ResolveMode maps the pushed session status to the active targeting mode.
// Statuses that demand authority resolve to ModeNone for bystanders; the
// trade and cancel windows apply to every participant.
func ResolveMode(in ModeInput) Mode {
	switch in.Session.Status {
	case StatusChoosePlayer:
		if !hasAuthority(in.Session, in.LocalPlayer.ID) {
			return ModeNone
		}
		return ModeChoosePlayer

	case StatusChooseSecret, StatusChooseSecretPYS:
		if !hasAuthority(in.Session, in.LocalPlayer.ID) {
			return ModeNone
		}
		return resolveSecretMode(in)

	case StatusChoosePlayerAndSecret:
		if !hasAuthority(in.Session, in.LocalPlayer.ID) {
			return ModeNone
		}
		return ModeChoosePlayerAndSecret

	case StatusChooseSet:
		if !hasAuthority(in.Session, in.LocalPlayer.ID) {
			return ModeNone
		}
		return ModeChooseSet

	case StatusSelectCardToTrade:
		return ModeChooseCardToTrade

	case StatusCancelAction:
		return ModeCancelWindow

	case StatusChooseDirection:
		if !hasAuthority(in.Session, in.LocalPlayer.ID) {
			return ModeNone
		}
		return ModeChooseDirection
	}
	return ModeNone
}

// resolveSecretMode decides between own, their and revealed secrets. A card
// effect picks by name (blackmailed targets someone else's hidden secret,
// everything else the actor's own). A set effect picks by seat: the acting
// seat steals a hidden secret, any other seat exposes its own. A lone set
// containing parker-pyne overrides both and targets a revealed secret.
func resolveSecretMode(in ModeInput) Mode {
	if in.Effect.IsCard() {
		if in.Effect.Card.Name == CardBlackmailed {
			return ModeChooseTheirSecret
		}
		return ModeChooseOwnSecret
	}

	if len(in.SetsThisTurn) == 1 && in.SetsThisTurn[0].Contains(CardParkerPyne) {
		return ModeChooseRevealedSecret
	}
	if localSeatActing(in) {
		return ModeChooseTheirSecret
	}
	return ModeChooseOwnSecret
}

// SetTargetIsSteal reports whether the pending ChooseSet selection steals an
// opponent set rather than adding to one. Only the label differs; the
// selection rules are identical.
func SetTargetIsSteal(effect ActiveEffect) bool {
	return effect.CardNamed(CardAnotherVictim)
}

// PassTurnAvailable reports whether plain turn progression is currently
// offered. Only the finalize-turn statuses allow it.
func PassTurnAvailable(status string) bool {
	return status == StatusFinalizeTurn || status == StatusFinalizeTurnDraft
}
