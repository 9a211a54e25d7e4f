package game

// promptCandidates is how many of the most recent discards a reactive
// prompt offers.
const promptCandidates = 5

// PromptConfig parameterizes a reactive targeting prompt. The two live
// instances differ only in trigger status and selection shape.
type PromptConfig struct {
	// TriggerStatus opens the prompt when it matches the session status
	// and the local participant is the player in action.
	TriggerStatus string
	// Ordered prompts confirm a reordered list of cards; unordered ones a
	// single card.
	Ordered bool
}

// AshesPrompt picks one recently discarded card back into the hand.
var AshesPrompt = PromptConfig{TriggerStatus: StatusChooseDiscarded}

// DelayPrompt reorders the recent discards back onto the draw pile.
var DelayPrompt = PromptConfig{TriggerStatus: StatusOrderDiscard, Ordered: true}

// Prompt is a self-contained "pick from the discard pile" prompt with a
// two-step confirm flow.
type Prompt struct {
	cfg        PromptConfig
	open       bool
	candidates []Card
}

func NewPrompt(cfg PromptConfig) *Prompt {
	return &Prompt{cfg: cfg}
}

func (p *Prompt) Open() bool { return p.open }

func (p *Prompt) Candidates() []Card { return append([]Card(nil), p.candidates...) }

// Sync opens or closes the prompt against the mirrored session. While open
// the candidates track the top five of the discard pile (pile ordered
// oldest to newest).
func (p *Prompt) Sync(session Session, localID int, discardPile []Card) {
	enabled := session.Status == p.cfg.TriggerStatus &&
		session.PlayerInAction != nil && *session.PlayerInAction == localID
	if !enabled {
		p.open = false
		p.candidates = nil
		return
	}
	top := discardPile
	if len(top) > promptCandidates {
		top = top[len(top)-promptCandidates:]
	}
	p.open = true
	p.candidates = append([]Card(nil), top...)
}

// Close force-closes without dispatching.
func (p *Prompt) Close() {
	p.open = false
	p.candidates = nil
}
