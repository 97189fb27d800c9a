package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category splits the catalog into the two draw piles.
type Category string

const (
	Vanilla Category = "vanilla"
	Spicy   Category = "spicy"
)

// Action identifies what a card asks for and how it resolves.
type Action string

const (
	ActionRevealFirst      Action = "reveal_first_letter"
	ActionRevealLast       Action = "reveal_last_letter"
	ActionRevealLength     Action = "reveal_length"
	ActionCountVowels      Action = "count_vowels"
	ActionCountConsonants  Action = "count_consonants"
	ActionRevealVowel      Action = "reveal_vowel"
	ActionCompareLength    Action = "compare_length"
	ActionCheckLetter      Action = "check_single_letter"
	ActionTilesNotInWord   Action = "tiles_not_in_word"
	ActionLetterPosition   Action = "letter_position"
	ActionMutualReveal     Action = "mutual_reveal"
	ActionCountDuplicates  Action = "count_duplicates"
	ActionSharedLetter     Action = "shared_letter_count"
	ActionTilesNotInWordVC Action = "tiles_not_in_word_variable"
	ActionCheckRareLetter  Action = "check_rare_letter"
	ActionRhyme            Action = "rhyme"
)

// Input is the kind of value the card player must attach.
type Input int

const (
	InputNone Input = iota
	InputLetter
	InputWord
	InputRareLetter
)

func (in Input) String() string {
	switch in {
	case InputLetter:
		return "letter"
	case InputWord:
		return "word"
	case InputRareLetter:
		return "rare_letter"
	default:
		return "none"
	}
}

// RareLetters are the only letters Flit accepts.
const RareLetters = "ZJQXK"

// Card ids.
const (
	Yakky     = "yakky"
	Woody     = "woody"
	Calimero  = "calimero"
	Jose      = "jose"
	Chilly    = "chilly"
	Woodstock = "woodstock"
	Foghorn   = "foghorn"
	Beaky     = "beaky"
	Daffy     = "daffy"
	Henery    = "henery"
	Zazu      = "zazu"
	Heckle    = "heckle"
	Scuttle   = "scuttle"
	Scrooge   = "scrooge"
	Flit      = "flit"
	Iago      = "iago"
)

// Cost is either a fixed token amount or computed at resolution time.
type Cost struct {
	Value    int
	Variable bool
}

// Fixed returns a fixed cost.
func Fixed(n int) Cost { return Cost{Value: n} }

// VariableCost marks a cost computed when the card resolves.
var VariableCost = Cost{Variable: true}

func (c Cost) String() string {
	if c.Variable {
		return "variable"
	}
	return fmt.Sprintf("%d", c.Value)
}

// MarshalJSON encodes a number, or the string "variable".
func (c Cost) MarshalJSON() ([]byte, error) {
	if c.Variable {
		return []byte(`"variable"`), nil
	}
	return json.Marshal(c.Value)
}

func (c *Cost) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "variable" {
			return fmt.Errorf("invalid cost %q", s)
		}
		*c = VariableCost
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Fixed(n)
	return nil
}

// Card is an immutable catalog entry. Decks hold value copies.
type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Flavor      string   `json:"flavor"`
	Description string   `json:"description"`
	Cost        Cost     `json:"cost"`
	Category    Category `json:"category"`
	Action      Action   `json:"actionCategory"`
}

// Input returns what the card player must attach to the play.
func (c Card) Input() Input {
	switch c.Action {
	case ActionCompareLength, ActionTilesNotInWord, ActionTilesNotInWordVC:
		return InputWord
	case ActionCheckLetter, ActionLetterPosition, ActionCountDuplicates, ActionSharedLetter:
		return InputLetter
	case ActionCheckRareLetter:
		return InputRareLetter
	default:
		return InputNone
	}
}

// SelfResolving cards need nothing from the opponent and resolve on play.
func (c Card) SelfResolving() bool {
	switch c.Action {
	case ActionRevealFirst, ActionRevealLast, ActionRevealLength,
		ActionCountVowels, ActionCountConsonants, ActionRevealVowel:
		return true
	}
	return false
}

// BlockedOnceOpponentGuessed lists cards that cannot be played after the
// opponent has already found the player's word.
func (c Card) BlockedOnceOpponentGuessed() bool {
	return c.ID == Zazu || c.ID == Scuttle
}

var catalog = []Card{
	{ID: Yakky, Name: "Yakky Doodle", Flavor: "Word generator", Description: "Build a word. Your opponent switches off the letters you used that are NOT in their word.", Cost: Fixed(4), Category: Vanilla, Action: ActionTilesNotInWord},
	{ID: Woody, Name: "Woody Woodpecker", Flavor: "First letter", Description: "Your opponent reveals the first letter of their secret word.", Cost: Fixed(4), Category: Vanilla, Action: ActionRevealFirst},
	{ID: Calimero, Name: "Calimero", Flavor: "Relative length", Description: "Build a word. Your opponent says whether it is longer, shorter or equal to theirs.", Cost: Fixed(1), Category: Vanilla, Action: ActionCompareLength},
	{ID: Jose, Name: "José Carioca", Flavor: "Letter check", Description: "Pick a letter. Your opponent says whether it is in their secret word.", Cost: Fixed(2), Category: Vanilla, Action: ActionCheckLetter},
	{ID: Chilly, Name: "Chilly Willy", Flavor: "Exact length", Description: "Your opponent tells you the exact length of their secret word.", Cost: Fixed(3), Category: Vanilla, Action: ActionRevealLength},
	{ID: Woodstock, Name: "Woodstock", Flavor: "Last letter", Description: "Your opponent reveals the last letter of their secret word.", Cost: Fixed(1), Category: Vanilla, Action: ActionRevealLast},

	{ID: Foghorn, Name: "Foghorn Leghorn", Flavor: "Buy a vowel", Description: "Your opponent reveals a vowel of their secret word that is not revealed yet.", Cost: Fixed(1), Category: Spicy, Action: ActionRevealVowel},
	{ID: Beaky, Name: "Beaky Buzzard", Flavor: "Vowel count", Description: "Your opponent tells you how many vowels their secret word has.", Cost: Fixed(2), Category: Spicy, Action: ActionCountVowels},
	{ID: Daffy, Name: "Daffy Duck", Flavor: "Consonant count", Description: "Your opponent tells you how many consonants their secret word has.", Cost: Fixed(3), Category: Spicy, Action: ActionCountConsonants},
	{ID: Henery, Name: "Henery Hawk", Flavor: "Power play", Description: "Pick a letter. If it is there, your opponent reveals the position of one copy.", Cost: Fixed(3), Category: Spicy, Action: ActionLetterPosition},
	{ID: Zazu, Name: "Zazu", Flavor: "Give and take", Description: "Both players reveal one unrevealed letter.", Cost: Fixed(1), Category: Spicy, Action: ActionMutualReveal},
	{ID: Heckle, Name: "Heckle and Jeckle", Flavor: "Copies", Description: "Pick a letter you hold 2+ times. Your opponent says how often it appears in their word.", Cost: Fixed(2), Category: Spicy, Action: ActionCountDuplicates},
	{ID: Scuttle, Name: "Scuttle", Flavor: "Let's share", Description: "Pick a letter present in both sets. Each player says how often it appears in their word.", Cost: Fixed(1), Category: Spicy, Action: ActionSharedLetter},
	{ID: Scrooge, Name: "Scrooge McDuck", Flavor: "Dynamic", Description: "Like Yakky, but the cost is the number of letters left switched on.", Cost: VariableCost, Category: Spicy, Action: ActionTilesNotInWordVC},
	{ID: Flit, Name: "Flit", Flavor: "Rare pearl", Description: "Pick Z, J, Q, X or K. Your opponent says whether it appears.", Cost: Fixed(1), Category: Spicy, Action: ActionCheckRareLetter},
	{ID: Iago, Name: "Iago", Flavor: "Rhyme", Description: "Your opponent must say a word that rhymes with their secret word.", Cost: Fixed(5), Category: Spicy, Action: ActionRhyme},
}

var byID = func() map[string]Card {
	m := make(map[string]Card, len(catalog))
	for _, c := range catalog {
		m[c.ID] = c
	}
	return m
}()

// Catalog returns a copy of every card.
func Catalog() List {
	out := make(List, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a catalog entry. Lookup is case-insensitive.
func ByID(id string) (Card, bool) {
	c, ok := byID[strings.ToLower(strings.TrimSpace(id))]
	return c, ok
}
