package game

import (
	"context"
	"errors"
	"log"
)

// ErrInvalidSet reports a set play that does not satisfy the detective set
// rules. It is the one dispatch path with direct user feedback.
var ErrInvalidSet = errors.New("selected cards do not form a valid detective set")

// fire runs an outbound request on its own goroutine. Failures are logged
// and swallowed; the selection has already been cleared optimistically, so
// the caller never observes the outcome.
func (e *Engine) fire(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			// The cleared selection is not restored and there is no retry;
			// the next server push re-derives whatever state remains.
			log.Printf("dispatch failed request=%s game_id=%d error=%v", name, e.gameID, err)
		}
	}()
}

// ConfirmAction dispatches the completed selection for the active mode.
// Card-origin effects go out as play-card-with-targets with only the
// mode-relevant field populated; set-origin effects as set-action. The
// selection clears immediately, independent of the request outcome.
func (e *Engine) ConfirmAction() {
	e.do(func(e *Engine) {
		session, ok := e.store.Session()
		if !ok || !e.sel.DispatchEnabled(e.mode) {
			return
		}
		switch e.mode {
		case ModeChoosePlayer:
			e.dispatchPlayer(session)
		case ModeChooseOwnSecret, ModeChooseTheirSecret, ModeChooseRevealedSecret:
			e.dispatchSecret(session)
		case ModeChoosePlayerAndSecret:
			e.dispatchPlayerAndSecret(session)
		case ModeChooseSet:
			e.dispatchSet(session)
		case ModeChooseCardToTrade:
			e.dispatchTrade(session)
		case ModeCancelWindow:
			e.dispatchCancel(session)
		}
		e.sel.Clear()
	})
}

func (e *Engine) dispatchPlayer(session Session) {
	target := e.sel.Player
	effect := ResolveActiveEffect(e.store.PlayedCards(), e.store.TurnSets(), session.CurrentTurn, false)
	if effect.IsCard() {
		if effect.Card.Name == CardPointYourSuspicions {
			e.alreadyVoted = true
		}
		cardID := effect.Card.ID
		e.fire("play-card-with-targets", func(ctx context.Context) error {
			return e.backend.PlayCard(ctx, cardID, e.token, CardTargets{TargetPlayers: []int{target}})
		})
		return
	}
	e.fireSetAction(session, SetTargets{TargetPlayer: &target})
}

func (e *Engine) dispatchSecret(session Session) {
	target := e.sel.Secret
	effect := ResolveActiveEffect(e.store.PlayedCards(), e.store.TurnSets(), session.CurrentTurn, true)
	if effect.IsCard() {
		cardID := effect.Card.ID
		e.fire("play-card-with-targets", func(ctx context.Context) error {
			return e.backend.PlayCard(ctx, cardID, e.token, CardTargets{TargetSecrets: []int{target}})
		})
		return
	}
	e.fireSetAction(session, SetTargets{TargetSecret: &target})
}

// fireSetAction resolves the acting set server-side at dispatch time: the
// mirror's set slice may lag the push that opened the mode.
func (e *Engine) fireSetAction(session Session, targets SetTargets) {
	turn := session.CurrentTurn
	e.fire("set-action", func(ctx context.Context) error {
		sets, err := e.backend.SetsPlayedOn(ctx, e.gameID, turn)
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			return nil
		}
		return e.backend.SetAction(ctx, sets[0].ID, e.token, targets)
	})
}

// handCardPlayedOn finds the local hand card flagged as played this turn.
// That card is the one whose pending effect the confirm resolves.
func (e *Engine) handCardPlayedOn(turn int) (Card, bool) {
	for _, c := range e.store.Hand() {
		if c.PlayedOn(turn) {
			return c, true
		}
	}
	return Card{}, false
}

func (e *Engine) dispatchPlayerAndSecret(session Session) {
	card, ok := e.handCardPlayedOn(session.CurrentTurn)
	if !ok {
		return
	}
	player, secret := e.sel.Player, e.sel.Secret
	e.fire("play-card-with-targets", func(ctx context.Context) error {
		return e.backend.PlayCard(ctx, card.ID, e.token, CardTargets{
			TargetPlayers: []int{player},
			TargetSecrets: []int{secret},
		})
	})
}

func (e *Engine) dispatchSet(session Session) {
	card, ok := e.handCardPlayedOn(session.CurrentTurn)
	if !ok {
		return
	}
	target := e.sel.Set
	e.fire("play-card-with-targets", func(ctx context.Context) error {
		return e.backend.PlayCard(ctx, card.ID, e.token, CardTargets{TargetSets: []int{target}})
	})
}

// dispatchTrade always plays the active trade card with the single selected
// hand card; sets never originate this mode.
func (e *Engine) dispatchTrade(session Session) {
	var active Card
	found := false
	for _, c := range e.store.PlayedCards() {
		if c.PlayedOn(session.CurrentTurn) {
			active = c
			found = true
			break
		}
	}
	if !found {
		return
	}
	if active.Name == CardTrade || active.Name == CardDeadCardFolly {
		e.alreadyVoted = true
		e.selectedToTrade = false
	}
	target := e.sel.Cards[0]
	e.fire("play-card-with-targets", func(ctx context.Context) error {
		return e.backend.PlayCard(ctx, active.ID, e.token, CardTargets{TargetCards: []int{target}})
	})
}

// dispatchCancel locates the pending cancellable action in the event log
// and answers it with the selected "not-so-fast".
func (e *Engine) dispatchCancel(session Session) {
	notSoFast := e.sel.Cards[0]
	turn := session.CurrentTurn
	e.fire("cancel-action", func(ctx context.Context) error {
		rows, err := e.backend.PendingCancellations(ctx, e.gameID, turn)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			log.Printf("cancel window empty game_id=%d turn=%d", e.gameID, turn)
			return nil
		}
		return e.backend.CancelAction(ctx, rows[0].ID, notSoFast, e.token)
	})
}

// ConfirmDirection answers the binary direction choice. order must be one
// of OrderClockwise or OrderCounterClockwise.
func (e *Engine) ConfirmDirection(order string) {
	e.do(func(e *Engine) {
		if e.mode != ModeChooseDirection {
			return
		}
		session, ok := e.store.Session()
		if !ok {
			return
		}
		effect := ResolveActiveEffect(e.store.PlayedCards(), e.store.TurnSets(), session.CurrentTurn, false)
		if !effect.IsCard() {
			return
		}
		cardID := effect.Card.ID
		e.fire("play-card-with-targets", func(ctx context.Context) error {
			return e.backend.PlayCard(ctx, cardID, e.token, CardTargets{PlayerOrder: order})
		})
		e.sel.Clear()
	})
}

// ConfirmPrompt dispatches a reactive prompt selection: the ashes prompt a
// single card, the delay prompt the full reordered list. The prompt closes
// regardless of the network outcome; when no active card exists server-side
// the effect already raced away and the confirm is a silent no-op.
func (e *Engine) ConfirmPrompt(p *Prompt, cardIDs []int) {
	e.do(func(e *Engine) {
		if !p.Open() {
			return
		}
		session, ok := e.store.Session()
		if !ok {
			return
		}
		turn := session.CurrentTurn
		targets := append([]int(nil), cardIDs...)
		if !p.cfg.Ordered && len(targets) > 1 {
			targets = targets[:1]
		}
		e.fire("play-card-with-targets", func(ctx context.Context) error {
			played, err := e.backend.CardsPlayedOn(ctx, e.gameID, turn)
			if err != nil {
				return err
			}
			if len(played) == 0 {
				return nil
			}
			return e.backend.PlayCard(ctx, played[0].ID, e.token, CardTargets{TargetCards: targets})
		})
		p.Close()
	})
}

// AshesPromptRef and DelayPromptRef expose the prompt instances for confirm
// and close calls.
func (e *Engine) AshesPromptRef() *Prompt { return e.ashes }
func (e *Engine) DelayPromptRef() *Prompt { return e.delay }

// ClosePrompt force-closes a prompt without dispatching.
func (e *Engine) ClosePrompt(p *Prompt) {
	e.do(func(e *Engine) { p.Close() })
}

// PassTurn performs plain turn progression from the finalize-turn statuses.
func (e *Engine) PassTurn() {
	e.do(func(e *Engine) {
		session, ok := e.store.Session()
		if !ok || !PassTurnAvailable(session.Status) || !e.myTurn(session) {
			return
		}
		next := session.CurrentTurn + 1
		e.fire("advance-turn", func(ctx context.Context) error {
			return e.backend.AdvanceTurn(ctx, e.gameID, next, e.token)
		})
	})
}

// DiscardSelected discards the gathered hand cards for this turn. Social
// disgrace restricts the discard to exactly one card.
func (e *Engine) DiscardSelected() {
	e.do(func(e *Engine) {
		session, ok := e.store.Session()
		if !ok || len(e.sel.Cards) == 0 {
			return
		}
		local, _ := e.store.PlayerByID(e.localID)
		if local.SocialDisgrace && len(e.sel.Cards) != 1 {
			return
		}
		ids := append([]int(nil), e.sel.Cards...)
		turn := session.CurrentTurn
		e.fire("bulk-discard", func(ctx context.Context) error {
			return e.backend.BulkDiscard(ctx, ids, turn, e.token)
		})
		e.sel.Cards = nil
	})
}

// PickUpSelected claims the picked table cards, one request per card.
func (e *Engine) PickUpSelected() {
	e.do(func(e *Engine) {
		if len(e.sel.Picked) == 0 || len(e.store.Hand()) >= HandLimit {
			return
		}
		picked := append([]int(nil), e.sel.Picked...)
		for _, cardID := range picked {
			id := cardID
			e.fire("pick-up-card", func(ctx context.Context) error {
				return e.backend.PickUpCard(ctx, id, e.localID, e.token)
			})
		}
		e.sel.Picked = nil
	})
}

// PlaySelectedEvent plays the single selected event card with no targets;
// the server pushes back whichever status its effect demands.
func (e *Engine) PlaySelectedEvent() {
	e.do(func(e *Engine) {
		if len(e.sel.Cards) != 1 {
			return
		}
		cardID := e.sel.Cards[0]
		e.sel.Cards = nil
		e.fire("play-card-with-targets", func(ctx context.Context) error {
			return e.backend.PlayCard(ctx, cardID, e.token, CardTargets{})
		})
	})
}

// PlaySelectedSet validates the gathered cards as a detective set and
// creates it. Validation failures surface to the caller; everything past
// that is fire-and-forget like the rest.
func (e *Engine) PlaySelectedSet() error {
	var err error
	e.do(func(e *Engine) {
		hand := e.store.Hand()
		selected := make([]Card, 0, len(e.sel.Cards))
		for _, id := range e.sel.Cards {
			for _, c := range hand {
				if c.ID == id {
					selected = append(selected, c)
				}
			}
		}
		if !ValidDetectiveSet(selected) {
			err = ErrInvalidSet
			return
		}
		ids := append([]int(nil), e.sel.Cards...)
		e.sel.Cards = nil
		e.fire("create-set", func(ctx context.Context) error {
			return e.backend.CreateSet(ctx, ids, e.token)
		})
	})
	return err
}

// AddSelectedToSet extends the lowest-id compatible owned set with the
// single selected card.
func (e *Engine) AddSelectedToSet() {
	e.do(func(e *Engine) {
		if len(e.sel.Cards) != 1 {
			return
		}
		var card Card
		found := false
		for _, c := range e.store.Hand() {
			if c.ID == e.sel.Cards[0] {
				card = c
				found = true
				break
			}
		}
		if !found {
			return
		}
		e.sel.Cards = nil
		e.fire("add-to-set", func(ctx context.Context) error {
			owned, err := e.backend.OwnedSets(ctx, e.localID)
			if err != nil {
				return err
			}
			set, ok := ExtendableSet(card, owned, e.localID)
			if !ok {
				return nil
			}
			return e.backend.AddToSet(ctx, set.ID, card.ID, e.token)
		})
	})
}
