package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// CharacterClass is a named category of characters usable in a password.
type CharacterClass int

const (
	Lowercase CharacterClass = iota
	Uppercase
	Digits
	Symbols
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var (
	ErrInvalidLength            = errors.New("password length must be at least 1")
	ErrNoCharacterClassSelected = errors.New("at least one character class must be selected")
	ErrLengthInsufficient       = errors.New("password length must be at least equal to the number of selected character classes")
	ErrUnknownCharacterClass    = errors.New("unknown character class")
)

// AllClasses lists every character class in canonical pool order.
var AllClasses = []CharacterClass{Lowercase, Uppercase, Digits, Symbols}

// Chars returns the fixed character pool of the class.
func (c CharacterClass) Chars() string {
	switch c {
	case Lowercase:
		return lowercaseChars
	case Uppercase:
		return uppercaseChars
	case Digits:
		return digitChars
	case Symbols:
		return symbolChars
	}
	return ""
}

func (c CharacterClass) String() string {
	switch c {
	case Lowercase:
		return "lowercase"
	case Uppercase:
		return "uppercase"
	case Digits:
		return "digits"
	case Symbols:
		return "symbols"
	}
	return fmt.Sprintf("CharacterClass(%d)", int(c))
}

// ParseClass maps a user-facing class name to a CharacterClass.
func ParseClass(name string) (CharacterClass, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lower", "lowercase":
		return Lowercase, nil
	case "upper", "uppercase":
		return Uppercase, nil
	case "digit", "digits", "number", "numbers":
		return Digits, nil
	case "symbol", "symbols":
		return Symbols, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCharacterClass, name)
}

// ParseClasses parses a comma separated list of class names. Empty items are ignored.
func ParseClasses(list string) ([]CharacterClass, error) {
	var classes []CharacterClass
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		c, err := ParseClass(item)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// GeneratorOptions configures the password generator.
type GeneratorOptions struct {
	Length  int
	Classes []CharacterClass

	// RequireEach guarantees at least one character from every selected class.
	// Positions are then no longer independent draws over the whole pool.
	RequireEach bool
}

// DefaultOptions returns 16 characters with all classes enabled.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:  16,
		Classes: AllClasses,
	}
}

// Generate creates a cryptographically secure random password. Every position
// is drawn uniformly from the union of the selected classes. Repeated classes
// and characters shared between classes count once.
func Generate(opts GeneratorOptions) (string, error) {
	if opts.Length < 1 {
		return "", ErrInvalidLength
	}

	sets := selectedSets(opts.Classes)
	if len(sets) == 0 {
		return "", ErrNoCharacterClassSelected
	}
	if opts.RequireEach && opts.Length < len(sets) {
		return "", ErrLengthInsufficient
	}

	pool := buildPool(sets)
	result := make([]byte, opts.Length)

	start := 0
	if opts.RequireEach {
		for i, charset := range sets {
			ch, err := randChar(charset)
			if err != nil {
				return "", err
			}
			result[i] = ch
		}
		start = len(sets)
	}

	for i := start; i < opts.Length; i++ {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if opts.RequireEach {
		if err := secureShuffle(result); err != nil {
			return "", err
		}
	}

	return string(result), nil
}

// selectedSets returns the pools of the distinct selected classes in canonical order.
func selectedSets(classes []CharacterClass) []string {
	var enabled [Symbols + 1]bool
	for _, c := range classes {
		if c >= Lowercase && c <= Symbols {
			enabled[c] = true
		}
	}

	var sets []string
	for _, c := range AllClasses {
		if enabled[c] {
			sets = append(sets, c.Chars())
		}
	}
	return sets
}

// buildPool concatenates the sets, keeping the first occurrence of each byte.
func buildPool(sets []string) string {
	var seen [256]bool
	var b strings.Builder
	for _, set := range sets {
		for i := 0; i < len(set); i++ {
			if seen[set[i]] {
				continue
			}
			seen[set[i]] = true
			b.WriteByte(set[i])
		}
	}
	return b.String()
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// secureShuffle performs a Fisher-Yates shuffle using crypto/rand.
func secureShuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		data[i], data[j.Int64()] = data[j.Int64()], data[i]
	}
	return nil
}
