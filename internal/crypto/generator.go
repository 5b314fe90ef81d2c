package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"unicode/utf8"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"

	// PassphraseWords is the number of dictionary words drawn per candidate.
	PassphraseWords = 3
)

// Generator produces memorable passphrase-style passwords.
type Generator struct {
	words      []string
	separators string
	random     io.Reader
}

// NewGenerator returns a Generator over the built-in word list that draws
// all randomness from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{
		words:      words,
		separators: separators,
		random:     rand.Reader,
	}
}

var defaultGenerator = NewGenerator()

// GeneratePassphrase creates a passphrase of at least minLength characters
// using the default Generator.
func GeneratePassphrase(minLength int) (string, error) {
	return defaultGenerator.Generate(minLength)
}

// Generate creates a passphrase of at least minLength characters containing
// lowercase, uppercase, digit and symbol characters. The only error source
// is the random reader.
func (g *Generator) Generate(minLength int) (string, error) {
	for {
		pw, err := g.candidate(minLength)
		if err != nil {
			return "", err
		}
		if utf8.RuneCountInString(pw) >= minLength {
			return pw, nil
		}
	}
}

func (g *Generator) candidate(minLength int) (string, error) {
	parts := make([]string, PassphraseWords)
	for i := range parts {
		w, err := g.word()
		if err != nil {
			return "", err
		}
		parts[i] = w
	}

	// One capitalized word gives the upper case; the others stay lower case.
	capIndex, err := g.intn(len(parts))
	if err != nil {
		return "", err
	}
	parts[capIndex] = strings.ToUpper(parts[capIndex][:1]) + parts[capIndex][1:]

	sep, err := g.separator()
	if err != nil {
		return "", err
	}
	pw := strings.Join(parts, sep)

	if !strings.ContainsAny(pw, numberChars) {
		n, err := g.intn(90)
		if err != nil {
			return "", err
		}
		pw += fmt.Sprintf("%d", n+10)
	}
	if !hasSymbol(pw) {
		s, err := g.separator()
		if err != nil {
			return "", err
		}
		pw += s
	}

	for utf8.RuneCountInString(pw) < minLength {
		w, err := g.word()
		if err != nil {
			return "", err
		}
		pw += sep + w
	}

	return g.ensureClasses(pw)
}

// ensureClasses appends a character for every class pw lacks.
func (g *Generator) ensureClasses(pw string) (string, error) {
	for _, charset := range []string{lowercaseChars, uppercaseChars, numberChars} {
		if strings.ContainsAny(pw, charset) {
			continue
		}
		ch, err := g.randChar(charset)
		if err != nil {
			return "", err
		}
		pw += string(ch)
	}
	if !hasSymbol(pw) {
		s, err := g.separator()
		if err != nil {
			return "", err
		}
		pw += s
	}
	return pw, nil
}

func (g *Generator) word() (string, error) {
	i, err := g.intn(len(g.words))
	if err != nil {
		return "", err
	}
	return g.words[i], nil
}

func (g *Generator) separator() (string, error) {
	ch, err := g.randChar(g.separators)
	if err != nil {
		return "", err
	}
	return string(ch), nil
}

// randChar picks a random character from charset.
func (g *Generator) randChar(charset string) (byte, error) {
	i, err := g.intn(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[i], nil
}

// intn returns a uniform integer in [0, n).
func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.random, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("reading random source: %w", err)
	}
	return int(v.Int64()), nil
}

func hasSymbol(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) >= 0
}
