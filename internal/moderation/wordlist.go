package moderation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wordlist is the banned-term filter applied to submitted text. Matching
// is a case-insensitive substring check, mirroring how the portal has
// always filtered spam and scam keywords.
type Wordlist struct {
	terms []string
}

// DefaultBannedWords covers the spam and scam vocabulary the portal ships
// with when no wordlist file is configured.
var DefaultBannedWords = []string{
	"도박",
	"대출",
	"사기",
	"불법",
	"밀수",
	"赌博",
	"贷款",
	"诈骗",
	"走私",
	"casino",
	"viagra",
}

// NewWordlist builds a filter from the given terms. Blank terms are
// dropped; matching is case-insensitive.
func NewWordlist(terms []string) *Wordlist {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, strings.ToLower(t))
	}
	return &Wordlist{terms: out}
}

// wordlistFile is the on-disk shape of a banned-word configuration.
type wordlistFile struct {
	BannedWords []string `yaml:"banned_words"`
}

// LoadWordlist reads a YAML wordlist file. An empty path returns the
// default list.
func LoadWordlist(path string) (*Wordlist, error) {
	if path == "" {
		return NewWordlist(DefaultBannedWords), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wordlist %s: %w", path, err)
	}
	var file wordlistFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse wordlist %s: %w", path, err)
	}
	if len(file.BannedWords) == 0 {
		return NewWordlist(DefaultBannedWords), nil
	}
	return NewWordlist(file.BannedWords), nil
}

// ContainsBanned reports whether any configured term appears in any of
// the given texts.
func (w *Wordlist) ContainsBanned(texts ...string) bool {
	for _, text := range texts {
		lowered := strings.ToLower(text)
		for _, term := range w.terms {
			if strings.Contains(lowered, term) {
				return true
			}
		}
	}
	return false
}

// Terms returns the configured terms, lowercased.
func (w *Wordlist) Terms() []string {
	return w.terms
}
