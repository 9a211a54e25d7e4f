package game

import (
	"sort"
	"sync"
)

// Entity slices tracked by the mirror. Each carries its own generation
// counter so a slow refetch can never overwrite a newer one.
const (
	SliceSession = "session"
	SlicePlayers = "players"
	SliceHand    = "hand"
	SliceDraw    = "draw"
	SliceDiscard = "discard"
	SliceSecrets = "secrets"
	SlicePlayed  = "played"
	SliceSets    = "sets"
)

// Store is the locally cached mirror of the server-authoritative session.
// All writes pass through Apply with a generation issued by Begin; stale
// responses are discarded instead of applied last-writer-wins.
type Store struct {
	mu sync.Mutex

	session     Session
	hasSession  bool
	players     []Player
	hand        []Card
	drawPile    []Card
	tableCards  []Card
	discardPile []Card
	secrets     []Secret
	playedCards []Card
	turnSets    []DetectiveSet

	hasDiscarded bool
	countdown    *int
	chat         []ChatMessage
	unread       int

	issued  map[string]uint64
	applied map[string]uint64
}

func NewStore() *Store {
	return &Store{
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// Begin issues the next generation for a slice refetch. The matching Apply
// call only lands if no later generation has landed first.
func (s *Store) Begin(slice string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[slice]++
	return s.issued[slice]
}

func (s *Store) apply(slice string, gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.applied[slice] {
		return false
	}
	s.applied[slice] = gen
	fn()
	return true
}

func (s *Store) ApplySession(gen uint64, session Session) bool {
	return s.apply(SliceSession, gen, func() {
		s.session = session
		s.hasSession = true
	})
}

// ApplyPlayers replaces the player slice, deriving each board position
// relative to the local seat and ordering the table by it. Board positions
// exist for layout only; no rule logic reads them.
func (s *Store) ApplyPlayers(gen uint64, players []Player, localPosition int) bool {
	return s.apply(SlicePlayers, gen, func() {
		n := len(players)
		for i := range players {
			if n > 0 {
				players[i].BoardPosition = (players[i].Position - localPosition + n) % n
			}
		}
		sort.Slice(players, func(i, j int) bool {
			return players[i].BoardPosition < players[j].BoardPosition
		})
		s.players = players
	})
}

func (s *Store) ApplyHand(gen uint64, cards []Card) bool {
	return s.apply(SliceHand, gen, func() {
		sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
		s.hand = cards
	})
}

// ApplyDrawPile replaces the draw pile; the first three cards double as the
// face-up table row replenishing short hands.
func (s *Store) ApplyDrawPile(gen uint64, cards []Card) bool {
	return s.apply(SliceDraw, gen, func() {
		s.drawPile = cards
		if len(cards) > 3 {
			s.tableCards = cards[:3]
		} else {
			s.tableCards = cards
		}
	})
}

func (s *Store) ApplyDiscardPile(gen uint64, cards []Card) bool {
	return s.apply(SliceDiscard, gen, func() {
		sort.Slice(cards, func(i, j int) bool {
			oi, oj := 0, 0
			if cards[i].DiscardedOrder != nil {
				oi = *cards[i].DiscardedOrder
			}
			if cards[j].DiscardedOrder != nil {
				oj = *cards[j].DiscardedOrder
			}
			return oi < oj
		})
		s.discardPile = cards
	})
}

func (s *Store) ApplySecrets(gen uint64, secrets []Secret) bool {
	return s.apply(SliceSecrets, gen, func() {
		sort.Slice(secrets, func(i, j int) bool { return secrets[i].ID < secrets[j].ID })
		s.secrets = secrets
	})
}

func (s *Store) ApplyPlayedCards(gen uint64, cards []Card, hasDiscarded bool) bool {
	return s.apply(SlicePlayed, gen, func() {
		s.playedCards = cards
		s.hasDiscarded = hasDiscarded
	})
}

func (s *Store) ApplyTurnSets(gen uint64, sets []DetectiveSet) bool {
	return s.apply(SliceSets, gen, func() {
		s.turnSets = sets
	})
}

func (s *Store) SetCountdown(seconds *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countdown = seconds
}

func (s *Store) Countdown() *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown
}

// AppendChat records one chat row, counting it unread unless the panel is
// open. System rows (no owner) are surfaced by the engine as popups.
func (s *Store) AppendChat(msg ChatMessage, panelOpen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, msg)
	if !panelOpen {
		s.unread++
	}
}

func (s *Store) ReplaceChat(msgs []ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = msgs
}

func (s *Store) MarkChatRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread = 0
}

func (s *Store) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.hasSession
}

func (s *Store) Players() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Player(nil), s.players...)
}

func (s *Store) Hand() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Card(nil), s.hand...)
}

func (s *Store) DrawPile() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Card(nil), s.drawPile...)
}

func (s *Store) TableCards() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Card(nil), s.tableCards...)
}

func (s *Store) DiscardPile() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Card(nil), s.discardPile...)
}

func (s *Store) Secrets() []Secret {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Secret(nil), s.secrets...)
}

func (s *Store) PlayedCards() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Card(nil), s.playedCards...)
}

func (s *Store) TurnSets() []DetectiveSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DetectiveSet(nil), s.turnSets...)
}

func (s *Store) HasDiscarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasDiscarded
}

func (s *Store) Chat() ([]ChatMessage, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.chat...), s.unread
}

// PlayerByID looks a player up in the mirrored slice.
func (s *Store) PlayerByID(id int) (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// SecretByID looks a secret up in the mirrored slice.
func (s *Store) SecretByID(id int) (Secret, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range s.secrets {
		if sec.ID == id {
			return sec, true
		}
	}
	return Secret{}, false
}
