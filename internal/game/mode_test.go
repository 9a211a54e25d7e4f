package game

import "testing"

func intp(v int) *int { return &v }

func turnCard(name string, turn int) Card {
	return Card{ID: 1, Name: name, TurnPlayed: &turn}
}

func turnSet(id, turn int, names ...string) DetectiveSet {
	s := DetectiveSet{ID: id, TurnPlayed: &turn}
	for i, n := range names {
		s.Detectives = append(s.Detectives, Card{ID: 100 + i, Name: n})
	}
	return s
}

func TestResolveModeRequiresAuthority(t *testing.T) {
	in := ModeInput{
		Session:     Session{Status: StatusChoosePlayer, PlayerInAction: intp(9)},
		LocalPlayer: Player{ID: 4},
		PlayerCount: 4,
	}
	if got := ResolveMode(in); got != ModeNone {
		t.Fatalf("expected mode none for bystander, got %s", got)
	}

	in.Session.PlayerInAction = intp(4)
	if got := ResolveMode(in); got != ModeChoosePlayer {
		t.Fatalf("expected choose_player, got %s", got)
	}

	in.Session.PlayerInAction = nil
	if got := ResolveMode(in); got != ModeChoosePlayer {
		t.Fatalf("expected choose_player with open slot, got %s", got)
	}
}

func TestResolveModeBlackmailedTargetsTheirSecret(t *testing.T) {
	in := ModeInput{
		Session:     Session{Status: StatusChooseSecret, CurrentTurn: 2},
		LocalPlayer: Player{ID: 4, Position: 0},
		PlayerCount: 4,
		Effect:      ActiveEffect{Origin: EffectCard, Card: turnCard(CardBlackmailed, 2)},
	}
	if got := ResolveMode(in); got != ModeChooseTheirSecret {
		t.Fatalf("expected choose_their_secret, got %s", got)
	}

	in.Effect.Card = turnCard("some-other-event", 2)
	if got := ResolveMode(in); got != ModeChooseOwnSecret {
		t.Fatalf("expected choose_own_secret, got %s", got)
	}
}

func TestResolveModeSetSecretBySeat(t *testing.T) {
	set := turnSet(1, 5, "hercule-poirot", "hercule-poirot", "hercule-poirot")
	in := ModeInput{
		Session:      Session{Status: StatusChooseSecret, CurrentTurn: 5},
		LocalPlayer:  Player{ID: 4, Position: 1},
		PlayerCount:  4,
		Effect:       ActiveEffect{Origin: EffectSet, Set: set},
		SetsThisTurn: []DetectiveSet{set},
	}
	// Seat 1 owns turn 5 in a 4-player game.
	if got := ResolveMode(in); got != ModeChooseTheirSecret {
		t.Fatalf("expected acting seat to steal, got %s", got)
	}

	in.LocalPlayer.Position = 2
	if got := ResolveMode(in); got != ModeChooseOwnSecret {
		t.Fatalf("expected non-acting seat to expose own, got %s", got)
	}
}

func TestResolveModeParkerPyneOverride(t *testing.T) {
	set := turnSet(1, 5, CardParkerPyne, CardParkerPyne)
	in := ModeInput{
		Session:      Session{Status: StatusChooseSecret, CurrentTurn: 5},
		LocalPlayer:  Player{ID: 4, Position: 1},
		PlayerCount:  4,
		Effect:       ActiveEffect{Origin: EffectSet, Set: set},
		SetsThisTurn: []DetectiveSet{set},
	}
	if got := ResolveMode(in); got != ModeChooseRevealedSecret {
		t.Fatalf("expected revealed-secret override, got %s", got)
	}

	// Two sets on the turn drop the override.
	in.SetsThisTurn = append(in.SetsThisTurn, turnSet(2, 5, "miss-marple", "miss-marple", "miss-marple"))
	if got := ResolveMode(in); got != ModeChooseTheirSecret {
		t.Fatalf("expected seat rule with two sets, got %s", got)
	}
}

func TestResolveModeWindowsIgnoreAuthority(t *testing.T) {
	in := ModeInput{
		Session:     Session{Status: StatusSelectCardToTrade, PlayerInAction: intp(9)},
		LocalPlayer: Player{ID: 4},
		PlayerCount: 4,
	}
	if got := ResolveMode(in); got != ModeChooseCardToTrade {
		t.Fatalf("expected trade window for everyone, got %s", got)
	}

	in.Session.Status = StatusCancelAction
	if got := ResolveMode(in); got != ModeCancelWindow {
		t.Fatalf("expected cancel window for everyone, got %s", got)
	}
}

func TestResolveModePlainStatuses(t *testing.T) {
	for _, status := range []string{StatusWaiting, StatusStarted, StatusTurnStart, StatusFinalizeTurn, StatusFinalized} {
		in := ModeInput{
			Session:     Session{Status: status},
			LocalPlayer: Player{ID: 4},
			PlayerCount: 4,
		}
		if got := ResolveMode(in); got != ModeNone {
			t.Fatalf("status %s: expected mode none, got %s", status, got)
		}
	}
}

func TestSetTargetIsSteal(t *testing.T) {
	steal := ActiveEffect{Origin: EffectCard, Card: Card{Name: CardAnotherVictim}}
	if !SetTargetIsSteal(steal) {
		t.Fatal("expected another-victim to label the target a steal")
	}
	if SetTargetIsSteal(ActiveEffect{}) {
		t.Fatal("expected no steal label without an effect")
	}
}

func TestPassTurnAvailable(t *testing.T) {
	if !PassTurnAvailable(StatusFinalizeTurn) || !PassTurnAvailable(StatusFinalizeTurnDraft) {
		t.Fatal("expected both finalize statuses to allow passing")
	}
	if PassTurnAvailable(StatusTurnStart) {
		t.Fatal("expected turn_start to block passing")
	}
}
