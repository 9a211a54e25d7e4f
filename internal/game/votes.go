package game

// cardTradeQuorum is a fixed game rule: a card-trade round settles after 3
// responses no matter how many players are seated.
const cardTradeQuorum = 3

// VoteTagFor maps a collective-response card to the event-table action tag
// its votes are recorded under. Empty for cards without a vote round.
func VoteTagFor(cardName string) string {
	switch cardName {
	case CardPointYourSuspicions:
		return ActionPointYourSuspicions
	case CardTrade:
		return ActionCardTrade
	case CardDeadCardFolly:
		return ActionDeadCardFollyTrade
	}
	return ""
}

func votedBy(votes []EventRow, playerID int) bool {
	for _, v := range votes {
		if v.PlayerID != nil && *v.PlayerID == playerID {
			return true
		}
	}
	return false
}

// AlreadyVoted derives whether the local participant should be suppressed
// from re-prompting for a pending collective-response effect. The formula
// is monotone in the number of rows: once the quorum is reached the round
// is settled and the flag clears regardless of membership, so clients
// observing the log in different partial states converge.
func AlreadyVoted(cardName string, votes []EventRow, playerCount, localID int) bool {
	switch cardName {
	case CardPointYourSuspicions, CardDeadCardFolly:
		return len(votes) < playerCount && votedBy(votes, localID)
	case CardTrade:
		return len(votes) < cardTradeQuorum && votedBy(votes, localID) && len(votes) != 1
	}
	return false
}

// SelectedToTrade reports whether the local participant is a card-trade
// counterpart still owing their own card choice: some vote row names them
// (as actor or chosen partner) without a card recorded, and no row where
// they acted has a card recorded yet.
func SelectedToTrade(votes []EventRow, localID int) bool {
	pending := false
	for _, v := range votes {
		actor := v.PlayerID != nil && *v.PlayerID == localID
		partner := v.TargetPlayer != nil && *v.TargetPlayer == localID
		if v.TargetCard == nil && (actor || partner) {
			pending = true
		}
		if actor && v.TargetCard != nil {
			return false
		}
	}
	return pending
}
