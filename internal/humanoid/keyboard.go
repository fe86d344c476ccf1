package humanoid

import (
	"strings"
	"time"
	"unicode"
)

// ControlKey defines constants for control characters used in key dispatch.
type ControlKey string

const (
	KeyBackspace ControlKey = "\b"
	KeyEnter     ControlKey = "\r"
	KeyTab       ControlKey = "\t"
)

// Keystroke is one entry of a typing schedule: the literal key to dispatch,
// the hold time for the press, and the pause after releasing it.
type Keystroke struct {
	// Key is the string handed to the dispatcher ("h", "\b", "\r").
	Key string
	// Rune is the logical character, zero for control keys.
	Rune rune
	// Hold is how long the key stays down.
	Hold time.Duration
	// Delay is the pause after the keystroke before the next one.
	Delay time.Duration
}

// TypingSchedule produces exactly one keystroke per input rune, in order.
// Delays come from a Gaussian inter-key distribution modulated by common
// digram/trigram speedups, a fatigue drift that slows typing over the course
// of a long string, and occasional think pauses at word boundaries.
func (h *Humanoid) TypingSchedule(text string) []Keystroke {
	h.mu.Lock()
	defer h.mu.Unlock()

	runes := []rune(text)
	schedule := make([]Keystroke, 0, len(runes))
	for i, r := range runes {
		schedule = append(schedule, h.keystroke(runes, i, r))
	}
	return schedule
}

// TypingScheduleWithTypos produces a schedule that may interleave realistic,
// always-corrected typos: wrong-neighbor hits, adjacent transpositions,
// skipped characters, and stray insertions, each followed by backspace
// corrections. The net text after dispatch always equals the input.
func (h *Humanoid) TypingScheduleWithTypos(text string) []Keystroke {
	h.mu.Lock()
	defer h.mu.Unlock()

	runes := []rune(text)
	schedule := make([]Keystroke, 0, len(runes)+4)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if h.persona.TypoRate > 0 && h.rng.Float64() < h.persona.TypoRate && unicode.IsLetter(r) {
			consumed := h.typoSequence(&schedule, runes, i)
			i += consumed
			continue
		}
		schedule = append(schedule, h.keystroke(runes, i, r))
	}
	return schedule
}

// keystroke builds one scheduled key press for runes[i].
func (h *Humanoid) keystroke(runes []rune, i int, r rune) Keystroke {
	progress := 0.0
	if len(runes) > 1 {
		progress = float64(i) / float64(len(runes)-1)
	}
	pauseMean := h.persona.KeyPauseMean * (1 + progress*h.persona.KeyPauseFatigueFactor)
	pauseMs := sampleGaussian(h.rng, pauseMean, h.persona.KeyPauseStdDev)

	// Practiced character sequences come out faster.
	if i > 0 {
		digram := string(runes[i-1]) + string(r)
		if commonDigrams[strings.ToLower(digram)] {
			pauseMs *= h.persona.KeyPauseNgramFactor2
		}
		if i > 1 {
			trigram := string(runes[i-2]) + digram
			if commonTrigrams[strings.ToLower(trigram)] {
				pauseMs *= h.persona.KeyPauseNgramFactor3
			}
		}
	}
	pauseMs = clamp(pauseMs, h.persona.KeyPauseMin, h.persona.KeyPauseMax)
	delay := time.Duration(pauseMs * float64(time.Millisecond))

	// Word boundaries invite a longer pause while the next word is decided.
	if i > 0 && runes[i-1] == ' ' && h.rng.Float64() < h.persona.ThinkPauseProbability {
		span := h.persona.ThinkPauseMaxMs - h.persona.ThinkPauseMinMs
		thinkMs := h.persona.ThinkPauseMinMs + h.rng.Float64()*span
		delay += time.Duration(thinkMs * float64(time.Millisecond))
	}

	return Keystroke{
		Key:   string(r),
		Rune:  r,
		Hold:  h.keyHold(),
		Delay: delay,
	}
}

// typoSequence appends a corrected typo for runes[i] and returns how many
// extra input runes it consumed beyond runes[i] itself minus one (so the
// caller's loop index advances correctly).
func (h *Humanoid) typoSequence(schedule *[]Keystroke, runes []rune, i int) int {
	r := runes[i]
	correctionDelay := time.Duration(
		h.persona.KeyPauseMean * h.persona.TypoCorrectionPauseScale * float64(time.Millisecond))

	draw := h.rng.Float64()
	switch {
	case draw < h.persona.TypoTransposeRate && i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
		// Adjacent transposition: both characters land swapped, then get
		// backed out and retyped in order.
		next := runes[i+1]
		*schedule = append(*schedule,
			h.keystroke(runes, i, next),
			h.keystroke(runes, i, r),
			h.backspace(correctionDelay),
			h.backspace(0),
			h.keystroke(runes, i, r),
			h.keystroke(runes, i+1, next),
		)
		return 1
	case draw < h.persona.TypoTransposeRate+h.persona.TypoInsertionRate:
		// Stray extra character before the intended one.
		stray := h.neighborOf(r)
		*schedule = append(*schedule,
			h.keystroke(runes, i, stray),
			h.backspace(correctionDelay),
			h.keystroke(runes, i, r),
		)
		return 0
	case draw < h.persona.TypoTransposeRate+h.persona.TypoInsertionRate+h.persona.TypoOmissionRate &&
		i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
		// Skipped character: the following one lands first, gets noticed and
		// backed out, then the pair is retyped in order.
		next := runes[i+1]
		*schedule = append(*schedule,
			h.keystroke(runes, i, next),
			h.backspace(correctionDelay),
			h.keystroke(runes, i, r),
			h.keystroke(runes, i+1, next),
		)
		return 1
	default:
		// Wrong neighbor key instead of the intended one.
		wrong := h.neighborOf(r)
		*schedule = append(*schedule,
			h.keystroke(runes, i, wrong),
			h.backspace(correctionDelay),
			h.keystroke(runes, i, r),
		)
		return 0
	}
}

func (h *Humanoid) backspace(extraDelay time.Duration) Keystroke {
	pauseMs := clamp(
		sampleGaussian(h.rng, h.persona.KeyPauseMean, h.persona.KeyPauseStdDev),
		h.persona.KeyPauseMin, h.persona.KeyPauseMax)
	return Keystroke{
		Key:   string(KeyBackspace),
		Hold:  h.keyHold(),
		Delay: extraDelay + time.Duration(pauseMs*float64(time.Millisecond)),
	}
}

func (h *Humanoid) keyHold() time.Duration {
	ms := sampleGaussian(h.rng, h.persona.KeyHoldMean, h.persona.KeyHoldStdDev)
	if ms < 20 {
		ms = 20
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// neighborOf returns a physically adjacent key on a QWERTY layout, falling
// back to the character itself when no neighbor is known.
func (h *Humanoid) neighborOf(r rune) rune {
	lower := unicode.ToLower(r)
	neighbors, ok := keyboardNeighbors[lower]
	if !ok || len(neighbors) == 0 {
		return r
	}
	n := neighbors[h.rng.Intn(len(neighbors))]
	if unicode.IsUpper(r) {
		return unicode.ToUpper(n)
	}
	return n
}

// keyboardNeighbors maps each key to its physical QWERTY neighbors.
var keyboardNeighbors = map[rune][]rune{
	'q': {'w', 'a'},
	'w': {'q', 'e', 's'},
	'e': {'w', 'r', 'd'},
	'r': {'e', 't', 'f'},
	't': {'r', 'y', 'g'},
	'y': {'t', 'u', 'h'},
	'u': {'y', 'i', 'j'},
	'i': {'u', 'o', 'k'},
	'o': {'i', 'p', 'l'},
	'p': {'o', 'l'},
	'a': {'q', 's', 'z'},
	's': {'a', 'd', 'w', 'x'},
	'd': {'s', 'f', 'e', 'c'},
	'f': {'d', 'g', 'r', 'v'},
	'g': {'f', 'h', 't', 'b'},
	'h': {'g', 'j', 'y', 'n'},
	'j': {'h', 'k', 'u', 'm'},
	'k': {'j', 'l', 'i'},
	'l': {'k', 'o', 'p'},
	'z': {'a', 'x'},
	'x': {'z', 'c', 's'},
	'c': {'x', 'v', 'd'},
	'v': {'c', 'b', 'f'},
	'b': {'v', 'n', 'g'},
	'n': {'b', 'm', 'h'},
	'm': {'n', 'j'},
}

// commonDigrams and commonTrigrams are high-frequency English character
// sequences typed noticeably faster than random pairs.
var commonDigrams = map[string]bool{
	"th": true, "he": true, "in": true, "er": true, "an": true,
	"re": true, "on": true, "at": true, "en": true, "nd": true,
	"ti": true, "es": true, "or": true, "te": true, "of": true,
	"ed": true, "is": true, "it": true, "al": true, "ar": true,
	"st": true, "to": true, "nt": true, "ng": true, "se": true,
}

var commonTrigrams = map[string]bool{
	"the": true, "and": true, "ing": true, "her": true, "hat": true,
	"his": true, "tha": true, "ere": true, "for": true, "ent": true,
	"ion": true, "ter": true, "was": true, "you": true, "ith": true,
}
