package npc

// Profile tunes a RuleBrain.
type Profile struct {
	GuessBase     float64 `json:"guessBase"`     // chance to guess on an empty history
	GuessPerEntry float64 `json:"guessPerEntry"` // added per history line
	Accuracy      float64 `json:"accuracy"`      // chance a guess is right
	SureAfter     int     `json:"sureAfter"`     // history length after which guesses are always right
}

// Persona is a named bot character.
type Persona struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Tagline string  `json:"tagline"`
	Brain   Profile `json:"brain"`
}

// DefaultProfile mirrors the classic bot: 5% base guess chance, +2% per
// history line, right half the time and always after 25 lines.
var DefaultProfile = Profile{
	GuessBase:     0.05,
	GuessPerEntry: 0.02,
	Accuracy:      0.5,
	SureAfter:     25,
}

var defaultPersonas = []*Persona{
	{ID: "bot", Name: "Bot", Tagline: "Plays it by the book.", Brain: DefaultProfile},
	{ID: "cautious", Name: "Cauta", Tagline: "Collects clues before guessing.", Brain: Profile{GuessBase: 0.02, GuessPerEntry: 0.01, Accuracy: 0.6, SureAfter: 30}},
	{ID: "reckless", Name: "Loco", Tagline: "Guesses early and often.", Brain: Profile{GuessBase: 0.15, GuessPerEntry: 0.03, Accuracy: 0.35, SureAfter: 20}},
}
