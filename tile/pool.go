package tile

import "strings"

// Letter distribution follows Spanish Scrabble quantities.
// A:11 E:12 I:6 O:9 U:5
const VowelPool = "AAAAAAAAAAAEEEEEEEEEEEEIIIIIIOOOOOOOOOUUUUU"

// K and W never appear in generated hands.
// L:4 N:5 R:5 S:6 T:4 D:5 G:2 B:2 C:4 M:2 P:2 F:2 H:2 V:1 Y:1 Q:1 J:1 Ñ:1 X:1 Z:1
const ConsonantPool = "LLLLNNNNNRRRRRSSSSSSTTTTDDDDDGGBBCCCCMMPPFFHHVYQJÑXZ"

const (
	HandVowels     = 5
	HandConsonants = 6
	HandSize       = HandVowels + HandConsonants
)

// Vowels used for counting and kind detection.
const Vowels = "AEIOU"

var (
	vowelRunes     = []rune(VowelPool)
	consonantRunes = []rune(ConsonantPool)
)

// IsVowel reports whether letter is one of AEIOU.
func IsVowel(letter string) bool {
	return len(letter) == 1 && strings.Contains(Vowels, letter)
}

// KindOf classifies a single letter.
func KindOf(letter string) Kind {
	if IsVowel(letter) {
		return KindVowel
	}
	return KindConsonant
}

// InPool reports whether letter can be drawn from the pool of kind k.
func InPool(k Kind, letter string) bool {
	if k == KindVowel {
		return strings.Contains(VowelPool, letter)
	}
	return strings.Contains(ConsonantPool, letter)
}

func poolRunes(k Kind) []rune {
	if k == KindVowel {
		return vowelRunes
	}
	return consonantRunes
}
