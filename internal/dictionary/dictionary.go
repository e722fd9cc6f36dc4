// Package dictionary interns words as the opaque uint32 identifiers the
// predictor operates on, and maps them back for display.
package dictionary

// ErrorWord is the reserved word interned at ID 0. The brain uses it both
// as the predictor's error event and as the sentence boundary marker, so
// any selection can be mapped back to a printable token.
const ErrorWord = "<err>"

// ErrorID is the identifier of ErrorWord.
const ErrorID uint32 = 0

// Dictionary is a bidirectional word registry. IDs are dense and assigned
// in interning order, starting after the reserved error word. It carries no
// locking; callers that share one across goroutines guard it themselves,
// which the brain does with its own mutex.
type Dictionary struct {
	ids   map[string]uint32
	words []string
}

// New returns a Dictionary with the error word already interned.
func New() *Dictionary {
	d := &Dictionary{
		ids:   make(map[string]uint32),
		words: make([]string, 0, 64),
	}
	d.Intern(ErrorWord)
	return d
}

// Intern returns the ID for word, assigning the next free one on first use.
func (d *Dictionary) Intern(word string) uint32 {
	if id, ok := d.ids[word]; ok {
		return id
	}
	id := uint32(len(d.words))
	d.ids[word] = id
	d.words = append(d.words, word)
	return id
}

// Lookup returns the ID for word without interning it.
func (d *Dictionary) Lookup(word string) (uint32, bool) {
	id, ok := d.ids[word]
	return id, ok
}

// Word returns the word registered under id.
func (d *Dictionary) Word(id uint32) (string, bool) {
	if int(id) >= len(d.words) {
		return "", false
	}
	return d.words[id], true
}

// Size returns the number of interned words, the reserved error word
// included.
func (d *Dictionary) Size() int {
	return len(d.words)
}

// Words returns a snapshot of all interned words in ID order.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}
