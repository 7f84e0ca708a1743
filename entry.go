package memzone

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hupe1980/memzone/internal/hash"
)

// Entry is an immutable interned record.
//
// Content and derived metadata never mutate after creation; the entry is
// destroyed only when its owning frame is popped.
type Entry struct {
	// Key is the normalized identity of the entry, unique among all
	// currently-live entries.
	Key uint64

	// Text is the canonical content.
	Text string

	// Lex holds metadata derived once at creation.
	Lex Lexical

	// Epoch identifies the frame that owns the entry (0 = persistent).
	Epoch uint64

	id uint32 // dense id used for frame ownership bitmaps
}

// Handle returns a checked reference to the entry.
func (e *Entry) Handle() Handle {
	return Handle{Key: e.Key, Epoch: e.Epoch}
}

// Lexical is orthographic metadata computed once when an entry is created.
type Lexical struct {
	Length  int    `json:"length"`
	Lower   uint64 `json:"lower"` // key of the lowercased form
	IsAlpha bool   `json:"is_alpha"`
	IsDigit bool   `json:"is_digit"`
	IsSpace bool   `json:"is_space"`
	IsPunct bool   `json:"is_punct"`
	IsUpper bool   `json:"is_upper"`
	IsTitle bool   `json:"is_title"`
}

// Builder constructs an Entry for a key that is not yet interned.
//
// The builder is invoked at most once per live key: concurrent or repeated
// interns of the same key receive the first writer's entry. Returning an
// error aborts the intern without inserting anything.
type Builder func(key uint64, text string) (*Entry, error)

// defaultBuilder derives Lexical metadata from the text.
func defaultBuilder(key uint64, text string) (*Entry, error) {
	return &Entry{Key: key, Text: text, Lex: DeriveLexical(text)}, nil
}

// DeriveLexical computes the orthographic metadata for text.
// Exposed so custom builders can reuse it.
func DeriveLexical(text string) Lexical {
	lex := Lexical{
		Length:  utf8.RuneCountInString(text),
		IsAlpha: text != "",
		IsDigit: text != "",
		IsSpace: text != "",
		IsPunct: text != "",
	}

	cased, first := false, true
	lex.IsUpper = true
	for _, r := range text {
		lex.IsAlpha = lex.IsAlpha && unicode.IsLetter(r)
		lex.IsDigit = lex.IsDigit && unicode.IsDigit(r)
		lex.IsSpace = lex.IsSpace && unicode.IsSpace(r)
		lex.IsPunct = lex.IsPunct && unicode.IsPunct(r)
		if unicode.IsUpper(r) || unicode.IsLower(r) {
			cased = true
		}
		lex.IsUpper = lex.IsUpper && !unicode.IsLower(r)
		if first {
			lex.IsTitle = unicode.IsUpper(r)
			first = false
			continue
		}
		lex.IsTitle = lex.IsTitle && !unicode.IsUpper(r)
	}
	// Upper/title require at least one cased rune.
	lex.IsUpper = lex.IsUpper && cased
	lex.IsTitle = lex.IsTitle && cased

	lex.Lower = hash.Sum64(strings.ToLower(text))
	return lex
}
