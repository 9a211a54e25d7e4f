package game

import "testing"

func voteRow(id int, player int) EventRow {
	return EventRow{ID: id, PlayerID: intp(player)}
}

func TestAlreadyVotedPointYourSuspicions(t *testing.T) {
	const localID, playerCount = 2, 3

	votes := []EventRow{voteRow(1, 1), voteRow(2, 2)}
	if !AlreadyVoted(CardPointYourSuspicions, votes, playerCount, localID) {
		t.Fatal("expected suppression while quorum pending")
	}

	// Quorum reached: the round is settled and the flag clears.
	votes = append(votes, voteRow(3, 3))
	if AlreadyVoted(CardPointYourSuspicions, votes, playerCount, localID) {
		t.Fatal("expected flag cleared at quorum")
	}

	// Never voted in the first place.
	votes = []EventRow{voteRow(1, 1)}
	if AlreadyVoted(CardPointYourSuspicions, votes, playerCount, localID) {
		t.Fatal("expected no suppression without own vote")
	}
}

func TestAlreadyVotedDeadCardFolly(t *testing.T) {
	votes := []EventRow{voteRow(1, 2)}
	if !AlreadyVoted(CardDeadCardFolly, votes, 4, 2) {
		t.Fatal("expected suppression below player-count quorum")
	}
	votes = []EventRow{voteRow(1, 1), voteRow(2, 2), voteRow(3, 3), voteRow(4, 4)}
	if AlreadyVoted(CardDeadCardFolly, votes, 4, 2) {
		t.Fatal("expected flag cleared at player-count quorum")
	}
}

func TestAlreadyVotedCardTrade(t *testing.T) {
	const localID = 2

	// The first row is the initiating pick; the initiator stays active.
	votes := []EventRow{voteRow(1, localID)}
	if AlreadyVoted(CardTrade, votes, 5, localID) {
		t.Fatal("expected single-row trade round not to suppress")
	}

	votes = append(votes, voteRow(2, 3))
	if !AlreadyVoted(CardTrade, votes, 5, localID) {
		t.Fatal("expected suppression with two rows below the fixed quorum")
	}

	// The trade quorum is fixed at three, independent of player count.
	votes = append(votes, voteRow(3, 4))
	if AlreadyVoted(CardTrade, votes, 5, localID) {
		t.Fatal("expected flag cleared at the fixed quorum of three")
	}
}

func TestSelectedToTrade(t *testing.T) {
	const localID = 2

	// Named as the partner with no card chosen yet.
	votes := []EventRow{{ID: 1, PlayerID: intp(5), TargetPlayer: intp(localID)}}
	if !SelectedToTrade(votes, localID) {
		t.Fatal("expected partner with pending card choice to be trading")
	}

	// Own row already carries a card: nothing is owed.
	votes = append(votes, EventRow{ID: 2, PlayerID: intp(localID), TargetCard: intp(40)})
	if SelectedToTrade(votes, localID) {
		t.Fatal("expected completed own row to end the obligation")
	}

	// Unrelated rows never implicate the local participant.
	votes = []EventRow{{ID: 1, PlayerID: intp(5), TargetPlayer: intp(6)}}
	if SelectedToTrade(votes, localID) {
		t.Fatal("expected unrelated rows not to implicate")
	}
}

func TestVoteTagFor(t *testing.T) {
	if got := VoteTagFor(CardTrade); got != ActionCardTrade {
		t.Fatalf("expected card_trade tag, got %q", got)
	}
	if got := VoteTagFor(CardBlackmailed); got != "" {
		t.Fatalf("expected no tag for non-vote card, got %q", got)
	}
}
