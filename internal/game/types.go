package game

// Session statuses pushed by the server. The engine never invents a status;
// it only reacts to the one currently mirrored.
const (
	StatusWaiting               = "waiting"
	StatusStarted               = "started"
	StatusTurnStart             = "turn_start"
	StatusChoosePlayer          = "waiting_for_choose_player"
	StatusChooseDiscarded       = "waiting_for_choose_discarded"
	StatusOrderDiscard          = "waiting_for_order_discard"
	StatusChoosePlayerAndSecret = "waiting_for_choose_player_and_secret"
	StatusChooseSecret          = "waiting_for_choose_secret"
	StatusPointYourSuspicions   = "waiting_for_point_your_suspicions"
	StatusChooseSecretPYS       = "waiting_for_choose_secret_pys"
	StatusChooseSet             = "waiting_for_choose_set"
	StatusCancelAction          = "waiting_for_cancel_action"
	StatusChooseDirection       = "waiting_to_choose_direction"
	StatusSelectCardToTrade     = "select_card_to_trade"
	StatusFinalizeTurn          = "finalize_turn"
	StatusFinalizeTurnDraft     = "finalize_turn_draft"
	StatusFinalized             = "finalized"
)

// Card names the engine special-cases. Every other card is handled purely
// through the server-pushed status.
const (
	CardNotSoFast           = "not-so-fast"
	CardAnotherVictim       = "another-victim"
	CardBlackmailed         = "blackmailed"
	CardTrade               = "card-trade"
	CardDeadCardFolly       = "dead-card-folly"
	CardPointYourSuspicions = "point-your-suspicions"
	CardAriadneOliver       = "ariadne-oliver"
	CardParkerPyne          = "parker-pyne"
	CardHarleyQuinWildcard  = "harley-quin-wildcard"
)

// Event-table action tags read back for quorum decisions.
const (
	ActionPointYourSuspicions = "point_your_suspicions"
	ActionCardTrade           = "card_trade"
	ActionDeadCardFollyTrade  = "dead_card_folly_trade"
	ActionToCancel            = "to_cancel"
)

const (
	CardTypeDetective = "detective"
	CardTypeEvent     = "event"
	CardTypeDevious   = "devious"
	CardTypeInstant   = "instant"
)

const (
	SecretMurderer   = "murderer"
	SecretAccomplice = "accomplice"
	SecretVarios     = "varios"
)

const (
	OrderClockwise        = "clockwise"
	OrderCounterClockwise = "counter-clockwise"
)

// HandLimit is the hand size replenished from the table pile.
const HandLimit = 6

type Session struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	CurrentTurn    int    `json:"current_turn"`
	MinPlayers     int    `json:"min_players"`
	MaxPlayers     int    `json:"max_players"`
	Owner          int    `json:"owner"`
	PlayerInAction *int   `json:"player_in_action"`
}

type Player struct {
	ID             int    `json:"id"`
	GameID         int    `json:"game_id"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	Position       int    `json:"position"`
	BoardPosition  int    `json:"board_position"`
	SocialDisgrace bool   `json:"social_disgrace"`
	// Token is only present on the local participant's own record and is
	// never forwarded for other players.
	Token string `json:"token,omitempty"`
}

type Card struct {
	ID             int    `json:"id"`
	GameID         int    `json:"game_id"`
	Owner          *int   `json:"owner"`
	Name           string `json:"name"`
	CardType       string `json:"card_type"`
	TurnDiscarded  *int   `json:"turn_discarded"`
	DiscardedOrder *int   `json:"discarded_order"`
	TurnPlayed     *int   `json:"turn_played"`
	SetID          *int   `json:"set_id"`
}

// PlayedOn reports whether the card is the effect played on the given turn.
func (c Card) PlayedOn(turn int) bool {
	return c.TurnPlayed != nil && *c.TurnPlayed == turn
}

type DetectiveSet struct {
	ID         int    `json:"id"`
	GameID     int    `json:"game_id"`
	Owner      int    `json:"owner"`
	Detectives []Card `json:"detectives"`
	TurnPlayed *int   `json:"turn_played"`
}

func (s DetectiveSet) Contains(name string) bool {
	for _, d := range s.Detectives {
		if d.Name == name {
			return true
		}
	}
	return false
}

type Secret struct {
	ID       int    `json:"id"`
	GameID   int    `json:"game_id"`
	Owner    int    `json:"owner"`
	Name     string `json:"name"`
	Revealed bool   `json:"revealed"`
	Type     string `json:"type"`
}

// EventRow is a row of the server's append-only event table. Rows are only
// ever inserted by the server; the client reads them for quorum decisions
// and cancel-window lookups.
type EventRow struct {
	ID              int    `json:"id"`
	GameID          int    `json:"game_id"`
	PlayerID        *int   `json:"player_id"`
	Action          string `json:"action"`
	TurnPlayed      int    `json:"turn_played"`
	TargetPlayer    *int   `json:"target_player"`
	TargetSet       *int   `json:"target_set"`
	TargetCard      *int   `json:"target_card"`
	TargetSecret    *int   `json:"target_secret"`
	CompletedAction bool   `json:"completed_action"`
}

type ChatMessage struct {
	ID        int    `json:"id"`
	GameID    int    `json:"game_id"`
	OwnerName string `json:"owner_name"`
	Content   string `json:"content"`
}
