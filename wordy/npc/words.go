package npc

import (
	"strings"

	"golang.org/x/exp/rand"

	"github.com/FCamaggi/aLittleWordy/tile"
)

// Words is the pool bots pick their secret word from. Every entry fits in a
// 5 vowel / 6 consonant hand.
var Words = []string{
	"SOL", "MAR", "PAN", "LUZ", "VOZ", "RED", "FIN", "SER", "VER", "DAR",
	"CASA", "MESA", "PISO", "AGUA", "AIRE", "VIDA", "AMOR", "EDAD", "ZONA", "IDEA",
	"GATO", "PERRO", "SILLA", "LAPIZ", "RELOJ", "CIELO", "FUEGO", "PLAYA", "NOCHE", "TARDE",

	"MANZANA", "NARANJA", "PLATANO", "VENTANA", "PUERTA", "CAMINO", "BOSQUE", "CIUDAD",
	"LIBRO", "MUNDO", "FELIZ", "GRANDE", "VERDE", "AZUL", "NEGRO", "BLANCO", "TIEMPO",
	"ESPACIO", "MUSICA", "BAILE", "JUEGO", "DEPORTE", "FIESTA", "AMIGO", "PERSONA",
	"FAMILIA", "MADRE", "PADRE", "HERMANO", "ESCUELA", "TRABAJO", "DINERO",

	"COMPUTADORA", "TELEFONO", "TELEVISION", "INTERNET", "DOCUMENTO", "MEDICINA",
	"AVENTURA", "HISTORIA", "GEOGRAFIA", "CIENCIA", "UNIVERSO", "PLANETA",

	"NIÑO", "NIÑA", "ESPAÑA", "MONTAÑA", "SUEÑO", "MAÑANA", "CABAÑA", "PIÑA", "AÑO",
	"UÑA", "ENSEÑAR", "DISEÑO", "PEQUEÑO", "TAMAÑO", "BAÑO", "SEÑOR", "SEÑAL",
}

// fallbackRhyme is answered when no listed word shares an ending.
const fallbackRhyme = "PALABRA"

// PickWord returns a random entry of Words.
func PickWord(rng *rand.Rand) string {
	return Words[rng.Intn(len(Words))]
}

// OtherWord returns a random entry different from not.
func OtherWord(rng *rand.Rand, not string) string {
	for i := 0; i < 8; i++ {
		w := PickWord(rng)
		if w != not {
			return w
		}
	}
	if not == Words[0] {
		return Words[1]
	}
	return Words[0]
}

// Rhyme returns a listed word ending like word, or a fixed answer.
func Rhyme(word string) string {
	word = strings.ToUpper(word)
	r := []rune(word)
	if len(r) < 2 {
		return fallbackRhyme
	}
	suffix := string(r[len(r)-2:])
	for _, w := range Words {
		if w != word && strings.HasSuffix(w, suffix) {
			return w
		}
	}
	return fallbackRhyme
}

// fits reports whether word can be dealt as a bot hand.
func fits(word string) bool {
	v, c := 0, 0
	for _, r := range word {
		if tile.IsVowel(string(r)) {
			v++
		} else {
			c++
		}
	}
	return v <= tile.HandVowels && c <= tile.HandConsonants
}
