package game

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const fetchTimeout = 10 * time.Second

// Engine owns every piece of mutable session state. A single goroutine
// consumes tagged messages from one queue: push-feed deliveries, refetch
// results carrying their slice generation, and user commands. Refetches and
// dispatched actions run on their own goroutines and post results back;
// in-flight requests are never cancelled, stale ones are discarded by
// generation when they land.
type Engine struct {
	store   *Store
	backend Backend
	rec     Recorder

	gameID  int
	localID int
	token   string

	msgs chan message
	// done is closed when Run exits so posters never block on a dead loop.
	done chan struct{}

	mode            Mode
	sel             Selection
	lastStatus      string
	lastTurn        int
	alreadyVoted    bool
	selectedToTrade bool
	chatOpen        bool
	popup           *ChatMessage
	// revealID is the pending private-secret reveal. Only the id is kept;
	// the Secret is resolved against the mirror when the state is read, so
	// a reveal push that outruns the secrets refetch is not lost.
	revealID int

	ashes *Prompt
	delay *Prompt
}

type message interface {
	handle(e *Engine)
}

// pushReceived is one push-feed delivery.
type pushReceived struct {
	Action string
	Model  string
	Data   json.RawMessage
}

// sliceFetched carries a refetch result back into the loop. commit applies
// it against the store's generation check.
type sliceFetched struct {
	commit func() bool
}

func (m sliceFetched) handle(e *Engine) {
	if m.commit() {
		e.recompute()
	}
}

// voteFlags carries a vote-tracker poll result for a turn.
type voteFlags struct {
	turn    int
	voted   bool
	trading bool
	isTrade bool
}

func (m voteFlags) handle(e *Engine) {
	if m.turn != e.lastTurn {
		return
	}
	e.alreadyVoted = m.voted
	if m.isTrade {
		e.selectedToTrade = m.trading
	}
}

// command is a user action executed inside the loop.
type command struct {
	run  func(e *Engine)
	done chan struct{}
}

func (m command) handle(e *Engine) {
	m.run(e)
	close(m.done)
}

func New(backend Backend, rec Recorder, gameID, localID int, token string) *Engine {
	return &Engine{
		store:   NewStore(),
		backend: backend,
		rec:     rec,
		gameID:  gameID,
		localID: localID,
		token:   token,
		msgs:    make(chan message, 64),
		done:    make(chan struct{}),
		ashes:   NewPrompt(AshesPrompt),
		delay:   NewPrompt(DelayPrompt),
	}
}

// Store exposes the read side of the entity mirror.
func (e *Engine) Store() *Store { return e.store }

// Run consumes the message queue until the context ends. All state
// transitions happen on this goroutine.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)
	e.bootstrap()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-e.msgs:
			m.handle(e)
		}
	}
}

func (e *Engine) post(m message) {
	select {
	case e.msgs <- m:
	case <-e.done:
	}
}

// do runs fn inside the loop and waits for it. After shutdown it returns
// without running fn.
func (e *Engine) do(fn func(e *Engine)) {
	cmd := command{run: fn, done: make(chan struct{})}
	select {
	case e.msgs <- cmd:
	case <-e.done:
		return
	}
	select {
	case <-cmd.done:
	case <-e.done:
	}
}

// HandlePush is the feed subscriber. Safe to call from any goroutine.
func (e *Engine) HandlePush(action, model string, data json.RawMessage) {
	if e.rec != nil {
		e.rec.Push(model, action, data)
	}
	e.post(pushReceived{Action: action, Model: model, Data: data})
}

// bootstrap seeds the mirror before the first push arrives.
func (e *Engine) bootstrap() {
	e.refetchSession()
	e.refetchPlayers()
	e.refetchSecrets()
	e.refetchCardSlices()
	e.refetchChat()
}

func (m pushReceived) handle(e *Engine) {
	switch m.Model {
	case "game":
		if m.Action != "create" && m.Action != "update" {
			return
		}
		var session Session
		if err := json.Unmarshal(m.Data, &session); err != nil {
			log.Printf("push decode failed model=game error=%v", err)
			return
		}
		if session.ID != e.gameID {
			return
		}
		gen := e.store.Begin(SliceSession)
		if e.store.ApplySession(gen, session) {
			e.refetchTurnState(session)
			e.recompute()
		}

	case "card":
		if !e.matchesGame(m.Data) {
			return
		}
		e.refetchCardSlices()
		e.refetchSession()

	case "player":
		if !e.matchesGame(m.Data) {
			return
		}
		e.refetchPlayers()

	case "secret":
		if !e.matchesGame(m.Data) {
			return
		}
		e.refetchSecrets()

	case "timer":
		if m.Action != "update_seconds" {
			return
		}
		var tick struct {
			RemainingSeconds int `json:"remaining_seconds"`
		}
		if err := json.Unmarshal(m.Data, &tick); err != nil {
			return
		}
		seconds := tick.RemainingSeconds
		e.store.SetCountdown(&seconds)

	case "devious":
		if m.Action != "show-secret" {
			return
		}
		var reveal struct {
			DestUser int `json:"dest_user"`
			SecretID int `json:"secret_id"`
		}
		if err := json.Unmarshal(m.Data, &reveal); err != nil {
			return
		}
		if reveal.DestUser != e.localID {
			return
		}
		e.revealID = reveal.SecretID
		e.refetchSecrets()

	case "chat":
		if m.Action != "create" {
			return
		}
		var msg ChatMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			return
		}
		e.store.AppendChat(msg, e.chatOpen)
		if e.rec != nil {
			e.rec.Chat(msg)
		}
		if msg.OwnerName == "" {
			e.popup = &msg
		}
	}
}

// matchesGame checks the message's game_id against the session, unwrapping
// batched payloads by their first element.
func (e *Engine) matchesGame(data json.RawMessage) bool {
	type scoped struct {
		GameID int `json:"game_id"`
	}
	if len(data) > 0 && data[0] == '[' {
		var batch []scoped
		if err := json.Unmarshal(data, &batch); err != nil || len(batch) == 0 {
			return false
		}
		return batch[0].GameID == e.gameID
	}
	var one scoped
	if err := json.Unmarshal(data, &one); err != nil {
		return false
	}
	return one.GameID == e.gameID
}

func (e *Engine) refetchSession() {
	gen := e.store.Begin(SliceSession)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		session, err := e.backend.Session(ctx, e.gameID)
		if err != nil {
			log.Printf("session refetch failed game_id=%d error=%v", e.gameID, err)
			return
		}
		e.post(sliceFetched{commit: func() bool {
			if !e.store.ApplySession(gen, session) {
				return false
			}
			e.refetchTurnState(session)
			return true
		}})
	}()
}

func (e *Engine) refetchPlayers() {
	gen := e.store.Begin(SlicePlayers)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		players, err := e.backend.Players(ctx, e.gameID)
		if err != nil {
			log.Printf("players refetch failed game_id=%d error=%v", e.gameID, err)
			return
		}
		localPosition := 0
		for _, p := range players {
			if p.ID == e.localID {
				localPosition = p.Position
			}
		}
		e.post(sliceFetched{commit: func() bool {
			return e.store.ApplyPlayers(gen, players, localPosition)
		}})
	}()
}

func (e *Engine) refetchSecrets() {
	gen := e.store.Begin(SliceSecrets)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		secrets, err := e.backend.Secrets(ctx, e.gameID)
		if err != nil {
			log.Printf("secrets refetch failed game_id=%d error=%v", e.gameID, err)
			return
		}
		e.post(sliceFetched{commit: func() bool {
			return e.store.ApplySecrets(gen, secrets)
		}})
	}()
}

// refetchCardSlices reloads the hand and both shared piles. Each slice is
// its own request and its own generation; whichever lands later for a
// different slice does not block the others.
func (e *Engine) refetchCardSlices() {
	handGen := e.store.Begin(SliceHand)
	drawGen := e.store.Begin(SliceDraw)
	discardGen := e.store.Begin(SliceDiscard)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if hand, err := e.backend.HandCards(ctx, e.localID); err != nil {
			log.Printf("hand refetch failed player_id=%d error=%v", e.localID, err)
		} else {
			e.post(sliceFetched{commit: func() bool { return e.store.ApplyHand(handGen, hand) }})
		}
		if draw, err := e.backend.DrawPile(ctx, e.gameID); err != nil {
			log.Printf("draw pile refetch failed game_id=%d error=%v", e.gameID, err)
		} else {
			e.post(sliceFetched{commit: func() bool { return e.store.ApplyDrawPile(drawGen, draw) }})
		}
		if discard, err := e.backend.DiscardPile(ctx, e.gameID); err != nil {
			log.Printf("discard pile refetch failed game_id=%d error=%v", e.gameID, err)
		} else {
			e.post(sliceFetched{commit: func() bool { return e.store.ApplyDiscardPile(discardGen, discard) }})
		}
	}()
}

// refetchTurnState reloads the current-turn effect candidates: cards played
// or discarded this turn and sets formed or extended this turn.
func (e *Engine) refetchTurnState(session Session) {
	playedGen := e.store.Begin(SlicePlayed)
	setsGen := e.store.Begin(SliceSets)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		played, err := e.backend.CardsPlayedOn(ctx, e.gameID, session.CurrentTurn)
		if err != nil {
			log.Printf("played cards refetch failed game_id=%d turn=%d error=%v", e.gameID, session.CurrentTurn, err)
			return
		}
		discarded, err := e.backend.CardsDiscardedOn(ctx, e.gameID, session.CurrentTurn)
		if err != nil {
			log.Printf("discarded cards refetch failed game_id=%d turn=%d error=%v", e.gameID, session.CurrentTurn, err)
			return
		}
		e.post(sliceFetched{commit: func() bool {
			return e.store.ApplyPlayedCards(playedGen, played, len(discarded) > 0)
		}})

		sets, err := e.backend.SetsPlayedOn(ctx, e.gameID, session.CurrentTurn)
		if err != nil {
			log.Printf("turn sets refetch failed game_id=%d turn=%d error=%v", e.gameID, session.CurrentTurn, err)
			return
		}
		e.post(sliceFetched{commit: func() bool {
			return e.store.ApplyTurnSets(setsGen, sets)
		}})
	}()
}

func (e *Engine) refetchChat() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		msgs, err := e.backend.ChatHistory(ctx, e.gameID)
		if err != nil {
			log.Printf("chat history fetch failed game_id=%d error=%v", e.gameID, err)
			return
		}
		e.post(sliceFetched{commit: func() bool {
			e.store.ReplaceChat(msgs)
			return false
		}})
	}()
}

// recompute re-derives the active effect, mode and prompt state from the
// mirror. Status and turn changes clear the transient selection state.
func (e *Engine) recompute() {
	session, ok := e.store.Session()
	if !ok {
		return
	}

	if session.Status != e.lastStatus {
		e.sel.Clear()
		if session.Status != StatusCancelAction {
			e.store.SetCountdown(nil)
		}
		e.lastStatus = session.Status
	}
	if session.CurrentTurn != e.lastTurn {
		e.alreadyVoted = false
		e.selectedToTrade = false
		e.lastTurn = session.CurrentTurn
	}

	local, _ := e.store.PlayerByID(e.localID)
	local.ID = e.localID
	choosingSecret := session.Status == StatusChooseSecret || session.Status == StatusChooseSecretPYS
	effect := ResolveActiveEffect(e.store.PlayedCards(), e.store.TurnSets(), session.CurrentTurn, choosingSecret)

	mode := ResolveMode(ModeInput{
		Session:      session,
		LocalPlayer:  local,
		PlayerCount:  len(e.store.Players()),
		Effect:       effect,
		SetsThisTurn: e.store.TurnSets(),
	})
	if mode != e.mode {
		e.sel.Clear()
		e.mode = mode
	}

	discard := e.store.DiscardPile()
	e.ashes.Sync(session, e.localID, discard)
	e.delay.Sync(session, e.localID, discard)

	e.pollVotes(session)
}

// pollVotes queries the event log whenever the active card is one of the
// collective-response effects. The derived flags are monotone in the row
// count, so repeated polling converges even when clients observe the log in
// different partial states.
func (e *Engine) pollVotes(session Session) {
	var card Card
	found := false
	for _, c := range e.store.PlayedCards() {
		if c.PlayedOn(session.CurrentTurn) && VoteTagFor(c.Name) != "" {
			card = c
			found = true
			break
		}
	}
	if !found {
		return
	}

	tag := VoteTagFor(card.Name)
	turn := session.CurrentTurn
	playerCount := len(e.store.Players())
	name := card.Name
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		votes, err := e.backend.Votes(ctx, e.gameID, tag, turn)
		if err != nil {
			log.Printf("vote poll failed game_id=%d action=%s turn=%d error=%v", e.gameID, tag, turn, err)
			return
		}
		flags := voteFlags{
			turn:  turn,
			voted: AlreadyVoted(name, votes, playerCount, e.localID),
		}
		switch name {
		case CardTrade:
			flags.isTrade = true
			flags.trading = SelectedToTrade(votes, e.localID)
		case CardDeadCardFolly:
			flags.isTrade = true
			flags.trading = !votedBy(votes, e.localID)
		}
		e.post(flags)
	}()
}

// myTurn reports whether the local participant owns the current-turn seat.
func (e *Engine) myTurn(session Session) bool {
	players := e.store.Players()
	if len(players) == 0 {
		return false
	}
	local, ok := e.store.PlayerByID(e.localID)
	if !ok {
		return false
	}
	return local.Position == session.CurrentTurn%len(players)
}

// State is a read-only view of the engine's derived state for the UI.
type State struct {
	Mode            Mode
	Selection       Selection
	DispatchEnabled bool
	AlreadyVoted    bool
	SelectedToTrade bool
	PassTurn        bool
	MyTurn          bool
	AshesOpen       bool
	AshesCards      []Card
	DelayOpen       bool
	DelayCards      []Card
	Reveal          *Secret
	Popup           *ChatMessage
	MurdererEscaped bool
	Finished        bool
}

// CurrentState assembles the derived view. Safe to call from any goroutine.
func (e *Engine) CurrentState() State {
	var st State
	e.do(func(e *Engine) {
		st = e.stateLocked()
	})
	return st
}

func (e *Engine) stateLocked() State {
	session, _ := e.store.Session()
	st := State{
		Mode:            e.mode,
		Selection:       e.sel,
		DispatchEnabled: e.sel.DispatchEnabled(e.mode),
		AlreadyVoted:    e.alreadyVoted,
		SelectedToTrade: e.selectedToTrade,
		PassTurn:        PassTurnAvailable(session.Status) && e.myTurn(session),
		MyTurn:          e.myTurn(session),
		AshesOpen:       e.ashes.Open(),
		AshesCards:      e.ashes.Candidates(),
		DelayOpen:       e.delay.Open(),
		DelayCards:      e.delay.Candidates(),
		Popup:           e.popup,
		Finished:        session.Status == StatusFinalized,
	}
	if e.revealID != 0 {
		if secret, ok := e.store.SecretByID(e.revealID); ok {
			st.Reveal = &secret
		}
	}
	if st.Finished {
		st.MurdererEscaped = MurdererEscaped(e.store.DrawPile(), e.store.Players(), e.store.Secrets())
	}
	return st
}

// Snapshot renders the mirror and derived state as one map, consumed by the
// local debug surface.
func (e *Engine) Snapshot() map[string]any {
	var snap map[string]any
	e.do(func(e *Engine) {
		session, _ := e.store.Session()
		chat, unread := e.store.Chat()
		snap = map[string]any{
			"game_id":           e.gameID,
			"player_id":         e.localID,
			"status":            session.Status,
			"current_turn":      session.CurrentTurn,
			"mode":              e.mode.String(),
			"dispatch_enabled":  e.sel.DispatchEnabled(e.mode),
			"already_voted":     e.alreadyVoted,
			"selected_to_trade": e.selectedToTrade,
			"hand":              len(e.store.Hand()),
			"draw_pile":         len(e.store.DrawPile()),
			"discard_pile":      len(e.store.DiscardPile()),
			"players":           len(e.store.Players()),
			"secrets":           len(e.store.Secrets()),
			"chat":              len(chat),
			"chat_unread":       unread,
			"countdown":         e.store.Countdown(),
		}
	})
	return snap
}

// Selection commands. Each runs inside the loop so ordering against pushes
// is deterministic.

func (e *Engine) TogglePlayer(playerID int) {
	e.do(func(e *Engine) {
		e.sel.TogglePlayer(e.mode, e.localID, playerID)
	})
}

func (e *Engine) ToggleSecret(secretID int) {
	e.do(func(e *Engine) {
		secret, ok := e.store.SecretByID(secretID)
		if !ok {
			return
		}
		e.sel.ToggleSecret(e.mode, e.localID, secret)
	})
}

func (e *Engine) ToggleSet(setID int) {
	e.do(func(e *Engine) {
		e.sel.ToggleSet(e.mode, setID)
	})
}

func (e *Engine) ToggleCard(cardID int) {
	e.do(func(e *Engine) {
		session, ok := e.store.Session()
		if !ok {
			return
		}
		var card Card
		found := false
		for _, c := range e.store.Hand() {
			if c.ID == cardID {
				card = c
				found = true
				break
			}
		}
		if !found {
			return
		}
		local, _ := e.store.PlayerByID(e.localID)
		activeID := 0
		effect := ResolveActiveEffect(e.store.PlayedCards(), e.store.TurnSets(), session.CurrentTurn, false)
		if effect.IsCard() {
			activeID = effect.Card.ID
		}
		e.sel.ToggleCard(HandToggleInput{
			Mode:           e.mode,
			Status:         session.Status,
			MyTurn:         e.myTurn(session),
			SocialDisgrace: local.SocialDisgrace,
			ActiveCardID:   activeID,
		}, card)
	})
}

func (e *Engine) TogglePick(cardID int) {
	e.do(func(e *Engine) {
		session, ok := e.store.Session()
		if !ok {
			return
		}
		e.sel.TogglePick(e.myTurn(session), len(e.store.Hand()), cardID)
	})
}

func (e *Engine) OpenChat() {
	e.do(func(e *Engine) {
		e.chatOpen = true
		e.store.MarkChatRead()
	})
}

func (e *Engine) CloseChat() {
	e.do(func(e *Engine) { e.chatOpen = false })
}

func (e *Engine) DismissReveal() {
	e.do(func(e *Engine) { e.revealID = 0 })
}

func (e *Engine) DismissPopup() {
	e.do(func(e *Engine) { e.popup = nil })
}
