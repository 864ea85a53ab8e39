// Package dictionary is the reference oracle's language model: word and
// phrase counts kept in patricia tries, answering next-word predictions for
// a sentence and completions of a partial last word.
package dictionary

import (
	"bufio"
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultLimit caps the number of suggestions returned by Complete.
const DefaultLimit = 5

// Dictionary is safe for concurrent use.
type Dictionary struct {
	mu    sync.RWMutex
	words *patricia.Trie // word -> int frequency
	next  *patricia.Trie // "w1" or "w1 w2" -> followers
	limit int
}

// followers counts the words seen after one context
type followers map[string]int

type ranked struct {
	word  string
	count int
}

// New creates an empty dictionary. A limit <= 0 uses DefaultLimit.
func New(limit int) *Dictionary {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Dictionary{
		words: patricia.NewTrie(),
		next:  patricia.NewTrie(),
		limit: limit,
	}
}

// Learn counts every word, bigram and trigram in text. Sentence breaks are
// where contexts stop.
func (d *Dictionary) Learn(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sentence := range sentences(text) {
		for i, w := range sentence {
			d.bump(w)
			if i >= 1 {
				d.follow(sentence[i-1], w)
			}
			if i >= 2 {
				d.follow(sentence[i-2]+" "+sentence[i-1], w)
			}
		}
	}
}

// LearnReader learns a corpus line by line.
func (d *Dictionary) LearnReader(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		d.Learn(sc.Text())
	}
	return sc.Err()
}

// LoadFile learns the corpus at path.
func (d *Dictionary) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.LearnReader(f)
}

// Words reports how many distinct words are known.
func (d *Dictionary) Words() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	_ = d.words.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}

func (d *Dictionary) bump(w string) {
	key := patricia.Prefix(w)
	if item := d.words.Get(key); item != nil {
		d.words.Set(key, item.(int)+1)
		return
	}
	d.words.Insert(key, 1)
}

func (d *Dictionary) follow(prefix, w string) {
	key := patricia.Prefix(prefix)
	if item := d.next.Get(key); item != nil {
		item.(followers)[w]++
		return
	}
	d.next.Insert(key, followers{w: 1})
}

// Complete answers a query for text. When the last word is a known word, the
// answer is the most likely next words, trigram context first. Otherwise the
// last word is completed from the words it prefixes.
func (d *Dictionary) Complete(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := tokenize(lastSentence(text))
	if len(tokens) == 0 {
		return []string{}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	last := tokens[len(tokens)-1]
	if d.words.Get(patricia.Prefix(last)) == nil {
		return d.completeWord(last), nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(rs []ranked) {
		for _, r := range rs {
			if len(out) == d.limit {
				return
			}
			if !seen[r.word] {
				seen[r.word] = true
				out = append(out, r.word)
			}
		}
	}
	if len(tokens) >= 2 {
		add(d.followersOf(tokens[len(tokens)-2] + " " + last))
	}
	add(d.followersOf(last))
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (d *Dictionary) followersOf(context string) []ranked {
	item := d.next.Get(patricia.Prefix(context))
	if item == nil {
		return nil
	}
	f := item.(followers)
	rs := make([]ranked, 0, len(f))
	for w, c := range f {
		rs = append(rs, ranked{w, c})
	}
	sortRanked(rs)
	return rs
}

func (d *Dictionary) completeWord(prefix string) []string {
	var rs []ranked
	_ = d.words.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		if w := string(p); w != prefix {
			rs = append(rs, ranked{w, item.(int)})
		}
		return nil
	})
	sortRanked(rs)
	if len(rs) > d.limit {
		rs = rs[:d.limit]
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.word
	}
	return out
}

// sortRanked orders by count, then alphabetically so ties are stable.
func sortRanked(rs []ranked) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].count != rs[j].count {
			return rs[i].count > rs[j].count
		}
		return rs[i].word < rs[j].word
	})
}

func isBreak(r rune) bool { return r == '.' || r == '!' || r == '?' || r == '\n' }

func sentences(text string) [][]string {
	var out [][]string
	for _, s := range strings.FieldsFunc(text, isBreak) {
		if toks := tokenize(s); len(toks) > 0 {
			out = append(out, toks)
		}
	}
	return out
}

// lastSentence drops everything up to the final sentence break. A query
// ending in a break has no context.
func lastSentence(text string) string {
	if i := strings.LastIndexFunc(text, isBreak); i >= 0 {
		return text[i+1:]
	}
	return text
}

// tokenize lowercases and splits on anything that is not a letter, digit or
// apostrophe.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
