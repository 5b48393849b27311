package cover

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"

	"github.com/nahan-app/nahan/nahan/stego/tag"
)

const (
	minPool = 5
	maxPool = 10
)

// Selector picks cover texts from a corpus for a given payload size.
type Selector struct {
	Corpus *Corpus
	// Rand supplies selection randomness. Nil means crypto/rand.
	Rand io.Reader
}

type candidate struct {
	poem Poem
	size int
}

// Recommend returns a cover text sized by EstimatedTagCount for a payload of
// payloadLen bytes. The estimate does not see compression or the checksum,
// so callers that hold the payload should use RecommendTags instead.
func (s Selector) Recommend(payloadLen int, lang string) (string, error) {
	return s.RecommendTags(EstimatedTagCount(payloadLen), lang)
}

// RecommendTags returns a cover text long enough to carry tags tag codepoints
// without spilling them past the end. Among the poems that fit, one is drawn
// at random from the smallest few so repeated messages of the same size do not
// reuse the same cover. Only whole lines are taken. When no single poem is
// long enough, poems are joined largest first.
func (s Selector) RecommendTags(tags int, lang string) (string, error) {
	corpus := s.Corpus
	if corpus == nil {
		corpus = DefaultCorpus()
	}
	poems := corpus.Poems(lang)
	if len(poems) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoCorpus, lang)
	}
	required := tag.CharsFor(tags)

	all := make([]candidate, len(poems))
	var fits []candidate
	for i, p := range poems {
		all[i] = candidate{poem: p, size: VisibleLength(p.Text())}
		if all[i].size >= required {
			fits = append(fits, all[i])
		}
	}

	if len(fits) == 0 {
		sort.SliceStable(all, func(i, j int) bool { return all[i].size > all[j].size })
		var lines []string
		for _, c := range all {
			lines = append(lines, c.poem.Lines...)
		}
		return assemble(lines, required), nil
	}

	sort.SliceStable(fits, func(i, j int) bool { return fits[i].size < fits[j].size })
	pool := poolSize(len(fits))
	pick, err := s.intn(pool)
	if err != nil {
		return "", err
	}
	return assemble(fits[pick].poem.Lines, required), nil
}

// Ratio is a convenience wrapper for StealthRatio on a cover string.
func Ratio(coverText string, payloadLen int) int {
	return StealthRatio(VisibleLength(coverText), payloadLen)
}

func poolSize(n int) int {
	size := n / 2
	if size < minPool {
		size = minPool
	}
	if size > maxPool {
		size = maxPool
	}
	if size > n {
		size = n
	}
	return size
}

func (s Selector) intn(n int) (int, error) {
	r := s.Rand
	if r == nil {
		r = rand.Reader
	}
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("cover: random selection: %w", err)
	}
	return int(v.Int64()), nil
}

// assemble joins whole lines until the visible length reaches required or the
// lines run out.
func assemble(lines []string, required int) string {
	var b strings.Builder
	n := 0
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
			n++
		}
		b.WriteString(line)
		n += graphemeCount(line)
		if n >= required {
			break
		}
	}
	return b.String()
}

func graphemeCount(s string) int {
	n := 0
	g := graphemes.FromString(s)
	for g.Next() {
		n++
	}
	return n
}
