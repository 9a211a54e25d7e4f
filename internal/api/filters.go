package api

// Search filters mirror the server's `field__op` query convention. Pointer
// fields are omitted when nil, so a zero filter matches everything.

type CardFilter struct {
	GameID            *int    `json:"game_id__eq,omitempty"`
	Owner             *int    `json:"owner__eq,omitempty"`
	OwnerIsNull       *bool   `json:"owner__is_null,omitempty"`
	TurnPlayed        *int    `json:"turn_played__eq,omitempty"`
	TurnDiscarded     *int    `json:"turn_discarded__eq,omitempty"`
	TurnDiscardedNull *bool   `json:"turn_discarded__is_null,omitempty"`
	SetIDIsNull       *bool   `json:"set_id__is_null,omitempty"`
	Content           *string `json:"content__eq,omitempty"`
}

type SetFilter struct {
	GameID     *int `json:"game_id__eq,omitempty"`
	Owner      *int `json:"owner__eq,omitempty"`
	TurnPlayed *int `json:"turn_played__eq,omitempty"`
}

type PlayerFilter struct {
	GameID *int `json:"game_id__eq,omitempty"`
}

type SecretFilter struct {
	GameID *int `json:"game_id__eq,omitempty"`
}

type EventFilter struct {
	GameID          *int    `json:"game_id__eq,omitempty"`
	Action          *string `json:"action__eq,omitempty"`
	TurnPlayed      *int    `json:"turn_played__eq,omitempty"`
	CompletedAction *bool   `json:"completed_action__eq,omitempty"`
}

func intp(v int) *int       { return &v }
func boolp(v bool) *bool    { return &v }
func strp(v string) *string { return &v }
