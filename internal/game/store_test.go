package game

import "testing"

func TestStoreStaleGenerationDiscarded(t *testing.T) {
	s := NewStore()
	first := s.Begin(SliceHand)
	second := s.Begin(SliceHand)

	if !s.ApplyHand(second, namedCards("fresh")) {
		t.Fatal("expected newer generation to land")
	}
	if s.ApplyHand(first, namedCards("stale", "stale")) {
		t.Fatal("expected older generation to be discarded")
	}
	hand := s.Hand()
	if len(hand) != 1 || hand[0].Name != "fresh" {
		t.Fatalf("expected the newer hand kept, got %+v", hand)
	}
}

func TestStoreBoardPositions(t *testing.T) {
	s := NewStore()
	players := []Player{
		{ID: 1, Position: 0},
		{ID: 2, Position: 1},
		{ID: 3, Position: 2},
		{ID: 4, Position: 3},
	}
	// Local participant sits at table position 2.
	if !s.ApplyPlayers(s.Begin(SlicePlayers), players, 2) {
		t.Fatal("expected players to land")
	}
	got := s.Players()
	if got[0].ID != 3 || got[0].BoardPosition != 0 {
		t.Fatalf("expected the local seat first, got %+v", got[0])
	}
	if got[1].ID != 4 || got[2].ID != 1 || got[3].ID != 2 {
		t.Fatalf("expected clockwise order from the local seat, got %+v", got)
	}
}

func TestStoreDiscardPileOrdered(t *testing.T) {
	s := NewStore()
	second, first, third := 2, 1, 3
	cards := []Card{
		{ID: 10, DiscardedOrder: &second},
		{ID: 11, DiscardedOrder: &first},
		{ID: 12, DiscardedOrder: &third},
	}
	if !s.ApplyDiscardPile(s.Begin(SliceDiscard), cards) {
		t.Fatal("expected discard pile to land")
	}
	got := s.DiscardPile()
	if got[0].ID != 11 || got[1].ID != 10 || got[2].ID != 12 {
		t.Fatalf("expected oldest-to-newest order, got %+v", got)
	}
}

func TestStoreTableCards(t *testing.T) {
	s := NewStore()
	if !s.ApplyDrawPile(s.Begin(SliceDraw), namedCards("a", "b", "c", "d", "e")) {
		t.Fatal("expected draw pile to land")
	}
	if got := s.TableCards(); len(got) != 3 {
		t.Fatalf("expected three face-up table cards, got %d", len(got))
	}
	if !s.ApplyDrawPile(s.Begin(SliceDraw), namedCards("a", "b")) {
		t.Fatal("expected short pile to land")
	}
	if got := s.TableCards(); len(got) != 2 {
		t.Fatalf("expected short pile entirely face-up, got %d", len(got))
	}
}

func TestStoreChatUnread(t *testing.T) {
	s := NewStore()
	s.AppendChat(ChatMessage{ID: 1, Content: "hello"}, false)
	s.AppendChat(ChatMessage{ID: 2, Content: "anyone?"}, false)
	if _, unread := s.Chat(); unread != 2 {
		t.Fatalf("expected 2 unread, got %d", unread)
	}

	s.AppendChat(ChatMessage{ID: 3, Content: "hi"}, true)
	if _, unread := s.Chat(); unread != 2 {
		t.Fatalf("expected open panel not to count unread, got %d", unread)
	}

	s.MarkChatRead()
	msgs, unread := s.Chat()
	if unread != 0 || len(msgs) != 3 {
		t.Fatalf("expected all read with history kept, got unread=%d len=%d", unread, len(msgs))
	}
}
