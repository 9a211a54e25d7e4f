package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"death-on-the-cards/internal/game"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Client talks to the game server's REST surface. It implements
// game.Backend; every action payload is validated before it leaves the
// process so a wiring bug fails loudly instead of as a server 422.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		validate: validator.New(),
	}
}

func (c *Client) request(ctx context.Context, method, path string, body, dest any) error {
	reqID := uuid.NewString()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s req_id=%s: %w", method, path, reqID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("api error method=%s path=%s status=%d req_id=%s body=%q", method, path, resp.StatusCode, reqID, payload)
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) search(ctx context.Context, path string, filter, dest any) error {
	return c.request(ctx, http.MethodPost, path, filter, dest)
}

func (c *Client) Session(ctx context.Context, gameID int) (game.Session, error) {
	var session game.Session
	err := c.request(ctx, http.MethodGet, fmt.Sprintf("/game/%d", gameID), nil, &session)
	return session, err
}

func (c *Client) Players(ctx context.Context, gameID int) ([]game.Player, error) {
	var players []game.Player
	err := c.search(ctx, "/player/search", PlayerFilter{GameID: intp(gameID)}, &players)
	return players, err
}

func (c *Client) Secrets(ctx context.Context, gameID int) ([]game.Secret, error) {
	var secrets []game.Secret
	err := c.search(ctx, "/secret/search", SecretFilter{GameID: intp(gameID)}, &secrets)
	return secrets, err
}

// HandCards returns the owner's loose cards; cards absorbed into a set stay
// with the set.
func (c *Client) HandCards(ctx context.Context, ownerID int) ([]game.Card, error) {
	var cards []game.Card
	err := c.search(ctx, "/card/search", CardFilter{
		Owner:       intp(ownerID),
		SetIDIsNull: boolp(true),
	}, &cards)
	return cards, err
}

func (c *Client) DrawPile(ctx context.Context, gameID int) ([]game.Card, error) {
	var cards []game.Card
	err := c.search(ctx, "/card/search", CardFilter{
		GameID:            intp(gameID),
		TurnDiscardedNull: boolp(true),
		OwnerIsNull:       boolp(true),
		Content:           strp(""),
	}, &cards)
	return cards, err
}

func (c *Client) DiscardPile(ctx context.Context, gameID int) ([]game.Card, error) {
	var cards []game.Card
	err := c.search(ctx, "/card/search", CardFilter{
		GameID:            intp(gameID),
		TurnDiscardedNull: boolp(false),
		OwnerIsNull:       boolp(true),
	}, &cards)
	return cards, err
}

func (c *Client) CardsPlayedOn(ctx context.Context, gameID, turn int) ([]game.Card, error) {
	var cards []game.Card
	err := c.search(ctx, "/card/search", CardFilter{
		GameID:     intp(gameID),
		TurnPlayed: intp(turn),
	}, &cards)
	return cards, err
}

func (c *Client) CardsDiscardedOn(ctx context.Context, gameID, turn int) ([]game.Card, error) {
	var cards []game.Card
	err := c.search(ctx, "/card/search", CardFilter{
		GameID:        intp(gameID),
		TurnDiscarded: intp(turn),
	}, &cards)
	return cards, err
}

func (c *Client) SetsPlayedOn(ctx context.Context, gameID, turn int) ([]game.DetectiveSet, error) {
	var sets []game.DetectiveSet
	err := c.search(ctx, "/detective_set/search", SetFilter{
		GameID:     intp(gameID),
		TurnPlayed: intp(turn),
	}, &sets)
	return sets, err
}

func (c *Client) OwnedSets(ctx context.Context, ownerID int) ([]game.DetectiveSet, error) {
	var sets []game.DetectiveSet
	err := c.search(ctx, "/detective_set/search", SetFilter{Owner: intp(ownerID)}, &sets)
	return sets, err
}

func (c *Client) Votes(ctx context.Context, gameID int, action string, turn int) ([]game.EventRow, error) {
	var rows []game.EventRow
	err := c.search(ctx, "/event_table/search", EventFilter{
		GameID:     intp(gameID),
		Action:     strp(action),
		TurnPlayed: intp(turn),
	}, &rows)
	return rows, err
}

func (c *Client) PendingCancellations(ctx context.Context, gameID, turn int) ([]game.EventRow, error) {
	var rows []game.EventRow
	err := c.search(ctx, "/event_table/search", EventFilter{
		GameID:          intp(gameID),
		Action:          strp(game.ActionToCancel),
		TurnPlayed:      intp(turn),
		CompletedAction: boolp(false),
	}, &rows)
	return rows, err
}

func (c *Client) ChatHistory(ctx context.Context, gameID int) ([]game.ChatMessage, error) {
	var msgs []game.ChatMessage
	err := c.request(ctx, http.MethodGet, fmt.Sprintf("/chat/%d", gameID), nil, &msgs)
	return msgs, err
}

type playCardRequest struct {
	game.CardTargets
	Token string `json:"token" validate:"required"`
}

func (c *Client) PlayCard(ctx context.Context, cardID int, token string, targets game.CardTargets) error {
	if targets.TargetPlayers == nil {
		targets.TargetPlayers = []int{}
	}
	if targets.TargetSecrets == nil {
		targets.TargetSecrets = []int{}
	}
	if targets.TargetCards == nil {
		targets.TargetCards = []int{}
	}
	if targets.TargetSets == nil {
		targets.TargetSets = []int{}
	}
	req := playCardRequest{CardTargets: targets, Token: token}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("play card %d: %w", cardID, err)
	}
	path := fmt.Sprintf("/card/play_card/%d?token=%s", cardID, url.QueryEscape(token))
	return c.request(ctx, http.MethodPost, path, req, nil)
}

type setActionRequest struct {
	game.SetTargets
	Token string `json:"token" validate:"required"`
}

func (c *Client) SetAction(ctx context.Context, setID int, token string, targets game.SetTargets) error {
	req := setActionRequest{SetTargets: targets, Token: token}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("set action %d: %w", setID, err)
	}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/detective_set/%d", setID), req, nil)
}

type bulkDiscardRequest struct {
	CardIDs []int           `json:"cids" validate:"required,min=1"`
	DTO     bulkDiscardBody `json:"dto"`
}

type bulkDiscardBody struct {
	TurnDiscarded int    `json:"turn_discarded"`
	Token         string `json:"token" validate:"required"`
}

func (c *Client) BulkDiscard(ctx context.Context, cardIDs []int, turn int, token string) error {
	req := bulkDiscardRequest{
		CardIDs: cardIDs,
		DTO:     bulkDiscardBody{TurnDiscarded: turn, Token: token},
	}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("bulk discard: %w", err)
	}
	return c.request(ctx, http.MethodPatch, "/card", req, nil)
}

type advanceTurnRequest struct {
	CurrentTurn int    `json:"current_turn" validate:"min=1"`
	Token       string `json:"token" validate:"required"`
}

func (c *Client) AdvanceTurn(ctx context.Context, gameID, nextTurn int, token string) error {
	req := advanceTurnRequest{CurrentTurn: nextTurn, Token: token}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("advance turn: %w", err)
	}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/game/%d", gameID), req, nil)
}

type pickUpRequest struct {
	Owner int    `json:"owner" validate:"required"`
	Token string `json:"token" validate:"required"`
}

func (c *Client) PickUpCard(ctx context.Context, cardID, ownerID int, token string) error {
	req := pickUpRequest{Owner: ownerID, Token: token}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("pick up card %d: %w", cardID, err)
	}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/card/%d", cardID), req, nil)
}

type cancelActionRequest struct {
	NotSoFast int    `json:"not_so_fast" validate:"required"`
	Token     string `json:"token" validate:"required"`
}

func (c *Client) CancelAction(ctx context.Context, eventID, notSoFastID int, token string) error {
	req := cancelActionRequest{NotSoFast: notSoFastID, Token: token}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("cancel action %d: %w", eventID, err)
	}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/card/cancel_action/%d", eventID), req, nil)
}

type createSetRequest struct {
	Detectives []int `json:"detectives" validate:"required,min=2"`
}

func (c *Client) CreateSet(ctx context.Context, detectives []int, token string) error {
	req := createSetRequest{Detectives: detectives}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("create set: %w", err)
	}
	path := "/detective_set?token=" + url.QueryEscape(token)
	return c.request(ctx, http.MethodPost, path, req, nil)
}

type addToSetRequest struct {
	AddCard int    `json:"add_card" validate:"required"`
	Token   string `json:"token" validate:"required"`
}

func (c *Client) AddToSet(ctx context.Context, setID, cardID int, token string) error {
	req := addToSetRequest{AddCard: cardID, Token: token}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("add to set %d: %w", setID, err)
	}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/detective_set/update/%d", setID), req, nil)
}

// SendChat posts a chat message for the local player.
func (c *Client) SendChat(ctx context.Context, gameID, ownerID int, content string) error {
	body := map[string]any{
		"game_id":  gameID,
		"owner_id": ownerID,
		"content":  content,
	}
	return c.request(ctx, http.MethodPost, "/chat/", body, nil)
}
