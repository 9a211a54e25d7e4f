package game

import "context"

// CardTargets is the payload of a play-card-with-targets request. Only the
// field relevant to the resolved mode is populated.
type CardTargets struct {
	TargetPlayers []int  `json:"target_players"`
	TargetSecrets []int  `json:"target_secrets"`
	TargetCards   []int  `json:"target_cards"`
	TargetSets    []int  `json:"target_sets"`
	PlayerOrder   string `json:"player_order,omitempty"`
}

// SetTargets is the payload of a set-action request.
type SetTargets struct {
	TargetPlayer *int `json:"target_player,omitempty"`
	TargetSecret *int `json:"target_secret,omitempty"`
	TargetSet    *int `json:"target_set,omitempty"`
}

// Backend is the server interface the engine consumes. The transport
// implementation lives elsewhere; the engine only cares about the request
// shapes and treats every call as fire-and-forget.
type Backend interface {
	Session(ctx context.Context, gameID int) (Session, error)
	Players(ctx context.Context, gameID int) ([]Player, error)
	Secrets(ctx context.Context, gameID int) ([]Secret, error)
	HandCards(ctx context.Context, ownerID int) ([]Card, error)
	DrawPile(ctx context.Context, gameID int) ([]Card, error)
	DiscardPile(ctx context.Context, gameID int) ([]Card, error)
	CardsPlayedOn(ctx context.Context, gameID, turn int) ([]Card, error)
	CardsDiscardedOn(ctx context.Context, gameID, turn int) ([]Card, error)
	SetsPlayedOn(ctx context.Context, gameID, turn int) ([]DetectiveSet, error)
	OwnedSets(ctx context.Context, ownerID int) ([]DetectiveSet, error)
	Votes(ctx context.Context, gameID int, action string, turn int) ([]EventRow, error)
	PendingCancellations(ctx context.Context, gameID, turn int) ([]EventRow, error)
	ChatHistory(ctx context.Context, gameID int) ([]ChatMessage, error)

	PlayCard(ctx context.Context, cardID int, token string, targets CardTargets) error
	SetAction(ctx context.Context, setID int, token string, targets SetTargets) error
	BulkDiscard(ctx context.Context, cardIDs []int, turn int, token string) error
	AdvanceTurn(ctx context.Context, gameID, nextTurn int, token string) error
	PickUpCard(ctx context.Context, cardID, ownerID int, token string) error
	CancelAction(ctx context.Context, eventID, notSoFastID int, token string) error
	CreateSet(ctx context.Context, detectives []int, token string) error
	AddToSet(ctx context.Context, setID, cardID int, token string) error
}

// Recorder receives a copy of the session traffic for local archival. A nil
// recorder is valid and means no journaling.
type Recorder interface {
	Push(model, action string, data []byte)
	Chat(msg ChatMessage)
}
