package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"death-on-the-cards/internal/game"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newRecordingServer(t *testing.T, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var calls []recordedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected an X-Request-ID header on every request")
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestHandCardsFilter(t *testing.T) {
	ts, calls := newRecordingServer(t, `[{"id":1,"name":"not-so-fast"}]`)
	c := NewClient(ts.URL)

	cards, err := c.HandCards(context.Background(), 4)
	if err != nil {
		t.Fatalf("hand cards: %v", err)
	}
	if len(cards) != 1 || cards[0].Name != "not-so-fast" {
		t.Fatalf("expected the decoded hand, got %+v", cards)
	}

	call := (*calls)[0]
	if call.method != http.MethodPost || call.path != "/card/search" {
		t.Fatalf("expected POST /card/search, got %s %s", call.method, call.path)
	}
	if got := call.body["owner__eq"]; got != float64(4) {
		t.Fatalf("expected owner filter 4, got %v", got)
	}
	if got := call.body["set_id__is_null"]; got != true {
		t.Fatalf("expected set_id__is_null filter, got %v", got)
	}
	if _, present := call.body["game_id__eq"]; present {
		t.Fatal("expected unset filters omitted")
	}
}

func TestDrawPileFilter(t *testing.T) {
	ts, calls := newRecordingServer(t, `[]`)
	c := NewClient(ts.URL)

	if _, err := c.DrawPile(context.Background(), 7); err != nil {
		t.Fatalf("draw pile: %v", err)
	}
	body := (*calls)[0].body
	if body["game_id__eq"] != float64(7) {
		t.Fatalf("expected game filter, got %v", body["game_id__eq"])
	}
	if body["turn_discarded__is_null"] != true || body["owner__is_null"] != true {
		t.Fatalf("expected undiscarded unowned cards, got %v", body)
	}
	if body["content__eq"] != "" {
		t.Fatalf("expected face-down content filter, got %v", body["content__eq"])
	}
}

func TestPendingCancellationsFilter(t *testing.T) {
	ts, calls := newRecordingServer(t, `[]`)
	c := NewClient(ts.URL)

	if _, err := c.PendingCancellations(context.Background(), 7, 3); err != nil {
		t.Fatalf("pending cancellations: %v", err)
	}
	call := (*calls)[0]
	if call.path != "/event_table/search" {
		t.Fatalf("expected /event_table/search, got %s", call.path)
	}
	body := call.body
	if body["action__eq"] != "to_cancel" || body["completed_action__eq"] != false {
		t.Fatalf("expected open cancel rows only, got %v", body)
	}
	if body["turn_played__eq"] != float64(3) {
		t.Fatalf("expected turn filter, got %v", body["turn_played__eq"])
	}
}

func TestPlayCardRequestShape(t *testing.T) {
	ts, calls := newRecordingServer(t, `{}`)
	c := NewClient(ts.URL)

	err := c.PlayCard(context.Background(), 30, "tok-123", game.CardTargets{TargetSecrets: []int{11}})
	if err != nil {
		t.Fatalf("play card: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodPost || call.path != "/card/play_card/30" {
		t.Fatalf("expected POST /card/play_card/30, got %s %s", call.method, call.path)
	}
	if call.query != "token=tok-123" {
		t.Fatalf("expected the token in the query, got %q", call.query)
	}
	body := call.body
	if body["token"] != "tok-123" {
		t.Fatalf("expected the token in the body, got %v", body["token"])
	}
	secrets, ok := body["target_secrets"].([]any)
	if !ok || len(secrets) != 1 || secrets[0] != float64(11) {
		t.Fatalf("expected target_secrets [11], got %v", body["target_secrets"])
	}
	// Untargeted slices serialize as empty lists, never null.
	for _, field := range []string{"target_players", "target_cards", "target_sets"} {
		if list, ok := body[field].([]any); !ok || len(list) != 0 {
			t.Fatalf("expected %s to be an empty list, got %v", field, body[field])
		}
	}
}

func TestPlayCardRejectsMissingToken(t *testing.T) {
	ts, calls := newRecordingServer(t, `{}`)
	c := NewClient(ts.URL)

	if err := c.PlayCard(context.Background(), 30, "", game.CardTargets{}); err == nil {
		t.Fatal("expected validation failure without a token")
	}
	if len(*calls) != 0 {
		t.Fatal("expected no request sent for an invalid payload")
	}
}

func TestBulkDiscardRequestShape(t *testing.T) {
	ts, calls := newRecordingServer(t, `{}`)
	c := NewClient(ts.URL)

	if err := c.BulkDiscard(context.Background(), []int{5, 6}, 2, "tok"); err != nil {
		t.Fatalf("bulk discard: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodPatch || call.path != "/card" {
		t.Fatalf("expected PATCH /card, got %s %s", call.method, call.path)
	}
	cids, ok := call.body["cids"].([]any)
	if !ok || len(cids) != 2 {
		t.Fatalf("expected two discarded cards, got %v", call.body["cids"])
	}
	dto, ok := call.body["dto"].(map[string]any)
	if !ok || dto["turn_discarded"] != float64(2) || dto["token"] != "tok" {
		t.Fatalf("expected the discard dto, got %v", call.body["dto"])
	}
}

func TestAdvanceTurnRequestShape(t *testing.T) {
	ts, calls := newRecordingServer(t, `{}`)
	c := NewClient(ts.URL)

	if err := c.AdvanceTurn(context.Background(), 7, 3, "tok"); err != nil {
		t.Fatalf("advance turn: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodPatch || call.path != "/game/7" {
		t.Fatalf("expected PATCH /game/7, got %s %s", call.method, call.path)
	}
	if call.body["current_turn"] != float64(3) {
		t.Fatalf("expected current_turn 3, got %v", call.body["current_turn"])
	}
}

func TestCancelActionRequestShape(t *testing.T) {
	ts, calls := newRecordingServer(t, `{}`)
	c := NewClient(ts.URL)

	if err := c.CancelAction(context.Background(), 77, 8, "tok"); err != nil {
		t.Fatalf("cancel action: %v", err)
	}
	call := (*calls)[0]
	if call.path != "/card/cancel_action/77" {
		t.Fatalf("expected /card/cancel_action/77, got %s", call.path)
	}
	if call.body["not_so_fast"] != float64(8) {
		t.Fatalf("expected the counter card id, got %v", call.body["not_so_fast"])
	}
}

func TestErrorStatusSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"no such game"}`, http.StatusNotFound)
	}))
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL)

	if _, err := c.Session(context.Background(), 99); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}
