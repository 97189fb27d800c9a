package wordy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/tile"
)

// handler is the rule set of one action category.
//
// prompt builds the question shown to the target (nil for self-resolving
// cards). check runs extra preconditions before the card is accepted.
// resolve applies the effect and returns the result line plus the cost for
// variable-cost cards.
type handler struct {
	prompt  func(input string) string
	check   func(m *Match, asker Seat, input string) error
	resolve func(m *Match, pa *PendingAction) (string, int)
}

var handlers = map[card.Action]handler{
	card.ActionRevealFirst: {
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			return fmt.Sprintf("The first letter is %s.", m.reveal(pa.Target, 0)), 0
		},
	},
	card.ActionRevealLast: {
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			last := len(m.secret(pa.Target)) - 1
			return fmt.Sprintf("The last letter is %s.", m.reveal(pa.Target, last)), 0
		},
	},
	card.ActionRevealLength: {
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			return fmt.Sprintf("The word has %d letters.", len(m.secret(pa.Target))), 0
		},
	},
	card.ActionCountVowels: {
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			return fmt.Sprintf("The word has %d vowel(s).", countVowels(m.secret(pa.Target))), 0
		},
	},
	card.ActionCountConsonants: {
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			w := m.secret(pa.Target)
			return fmt.Sprintf("The word has %d consonant(s).", len(w)-countVowels(w)), 0
		},
	},
	card.ActionRevealVowel: {
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			owner := m.players[pa.Target]
			for i, r := range m.secret(pa.Target) {
				if tile.IsVowel(string(r)) && !owner.positionRevealed(i) {
					return fmt.Sprintf("Vowel %s is at position %d.", m.reveal(pa.Target, i), i+1), 0
				}
			}
			return "No vowels left to reveal.", 0
		},
	},
	card.ActionCompareLength: {
		prompt: func(in string) string {
			return fmt.Sprintf("Is your word longer, shorter or the same length as %s?", in)
		},
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			secret, guess := len(m.secret(pa.Target)), len([]rune(pa.Input))
			switch {
			case secret > guess:
				return fmt.Sprintf("The word is LONGER than %s.", pa.Input), 0
			case secret < guess:
				return fmt.Sprintf("The word is SHORTER than %s.", pa.Input), 0
			default:
				return fmt.Sprintf("The word is EQUAL in length to %s.", pa.Input), 0
			}
		},
	},
	card.ActionCheckLetter: {
		prompt:  letterPrompt("Is the letter %s in your word?"),
		resolve: presence,
	},
	card.ActionCheckRareLetter: {
		prompt:  letterPrompt("Is the rare letter %s in your word?"),
		resolve: presence,
	},
	card.ActionTilesNotInWord: {
		prompt: notInWordPrompt,
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			result, _ := m.disableAbsent(pa)
			return result, 0
		},
	},
	card.ActionTilesNotInWordVC: {
		prompt:  notInWordPrompt,
		resolve: (*Match).disableAbsent,
	},
	card.ActionLetterPosition: {
		prompt: letterPrompt("Where is the letter %s in your word?"),
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			idx := indexOf(m.secret(pa.Target), pa.Input)
			if idx < 0 {
				return fmt.Sprintf("%s is not in the word.", pa.Input), 0
			}
			m.reveal(pa.Target, idx)
			return fmt.Sprintf("%s is at position %d.", pa.Input, idx+1), 0
		},
	},
	card.ActionMutualReveal: {
		prompt: func(string) string {
			return "Both players reveal one letter of their word."
		},
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			parts := make([]string, 0, 2)
			for _, s := range []Seat{pa.UsedBy, pa.Target} {
				p := m.players[s]
				idx := -1
				for i := range m.secret(s) {
					if !p.positionRevealed(i) {
						idx = i
						break
					}
				}
				if idx < 0 {
					parts = append(parts, fmt.Sprintf("%s has nothing left to reveal", p.Name))
					continue
				}
				parts = append(parts, fmt.Sprintf("%s reveals %s at position %d", p.Name, m.reveal(s, idx), idx+1))
			}
			return strings.Join(parts, "; ") + ".", 0
		},
	},
	card.ActionCountDuplicates: {
		prompt: letterPrompt("How many times does %s appear in your word?"),
		check: func(m *Match, asker Seat, in string) error {
			if m.players[asker].Tiles.Count(in, true) < 2 {
				return conflictf("you need at least two %s tiles for this card", in)
			}
			return nil
		},
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			n := countLetter(m.secret(pa.Target), pa.Input)
			if n > 0 {
				m.discloseLetter(pa.Target, pa.Input)
			}
			return fmt.Sprintf("%s appears %d time(s) in the word.", pa.Input, n), 0
		},
	},
	card.ActionSharedLetter: {
		prompt: letterPrompt("How many times does %s appear in your word?"),
		check: func(m *Match, asker Seat, in string) error {
			if !m.players[asker].Tiles.Has(in, true) || !m.players[asker.Other()].Tiles.Has(in, false) {
				return conflictf("%s must be in both hands for this card", in)
			}
			return nil
		},
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			asker, target := m.players[pa.UsedBy], m.players[pa.Target]
			for _, s := range []Seat{pa.Target, pa.UsedBy} {
				if countLetter(m.secret(s), pa.Input) > 0 {
					m.discloseLetter(s, pa.Input)
				}
			}
			return fmt.Sprintf("%s appears %d time(s) in %s's word and %d time(s) in %s's word.",
				pa.Input,
				countLetter(m.secret(pa.Target), pa.Input), target.Name,
				countLetter(m.secret(pa.UsedBy), pa.Input), asker.Name), 0
		},
	},
	card.ActionRhyme: {
		prompt: func(string) string {
			return "Say a word that rhymes with your secret word."
		},
		resolve: func(m *Match, pa *PendingAction) (string, int) {
			return fmt.Sprintf("%s answered: %s", m.players[pa.Target].Name, pa.Response), 0
		},
	},
}

func letterPrompt(format string) func(string) string {
	return func(in string) string { return fmt.Sprintf(format, in) }
}

func notInWordPrompt(in string) string {
	return fmt.Sprintf("Which letters of %s are not in your word?", in)
}

func presence(m *Match, pa *PendingAction) (string, int) {
	if countLetter(m.secret(pa.Target), pa.Input) > 0 {
		m.discloseLetter(pa.Target, pa.Input)
		return fmt.Sprintf("Yes, %s is in the word.", pa.Input), 0
	}
	return fmt.Sprintf("No, %s is not in the word.", pa.Input), 0
}

// disableAbsent switches off the asker's tiles whose letters are missing from
// the target word. The returned cost is the number of distinct input letters
// that are present.
func (m *Match) disableAbsent(pa *PendingAction) (string, int) {
	secret := m.secret(pa.Target)
	var absent []string
	present := 0
	seen := make(map[string]bool)
	for _, r := range pa.Input {
		l := string(r)
		if seen[l] {
			continue
		}
		seen[l] = true
		if countLetter(secret, l) > 0 {
			present++
		} else {
			absent = append(absent, l)
		}
	}
	if len(absent) == 0 {
		return fmt.Sprintf("Every letter of %s is in the word.", pa.Input), present
	}
	sort.Strings(absent)
	m.players[pa.UsedBy].Tiles.DisableLetters(absent)
	return fmt.Sprintf("Not in the word: %s.", strings.Join(absent, ", ")), present
}

// reveal discloses the letter at idx of owner's word. The position is recorded
// on the owner and the first matching tile in the opponent's hand is flagged.
func (m *Match) reveal(owner Seat, idx int) string {
	p := m.players[owner]
	letter := string(m.secret(owner)[idx])
	if !p.positionRevealed(idx) {
		p.RevealedPositions = append(p.RevealedPositions, RevealedPosition{Letter: letter, Index: idx})
		sort.Slice(p.RevealedPositions, func(i, j int) bool {
			return p.RevealedPositions[i].Index < p.RevealedPositions[j].Index
		})
		m.players[owner.Other()].Tiles.MarkRevealed(letter)
	}
	m.discloseLetter(owner, letter)
	return letter
}

// discloseLetter records that letter is known to be in owner's word without
// pinning a position.
func (m *Match) discloseLetter(owner Seat, letter string) {
	p := m.players[owner]
	if !containsString(p.RevealedLetters, letter) {
		p.RevealedLetters = append(p.RevealedLetters, letter)
		sort.Strings(p.RevealedLetters)
	}
}

func (m *Match) secret(s Seat) []rune {
	return []rune(m.players[s].SecretWord)
}

func countVowels(w []rune) int {
	n := 0
	for _, r := range w {
		if tile.IsVowel(string(r)) {
			n++
		}
	}
	return n
}

func countLetter(w []rune, letter string) int {
	n := 0
	for _, r := range w {
		if string(r) == letter {
			n++
		}
	}
	return n
}

func indexOf(w []rune, letter string) int {
	for i, r := range w {
		if string(r) == letter {
			return i
		}
	}
	return -1
}

func containsString(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}
