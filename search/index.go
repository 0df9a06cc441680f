// Package search ranks catalog products against free-text queries.
package search

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kitcomfeedback-cell/kitchen-store/metrics"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/shuffle"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"go.uber.org/zap"
)

const (
	// MinResults is the floor a search result is padded up to.
	MinResults = 20
	// Threshold is the largest normalized field distance that still matches.
	Threshold = 0.6
	memoSize  = 256
)

type field struct {
	weight float64
	title  bool
	value  func(models.Product) string
}

var fields = []field{
	{weight: 0.7, title: true, value: func(p models.Product) string { return p.Title }},
	{weight: 0.2, value: func(p models.Product) string { return p.Description }},
	{weight: 0.1, value: func(p models.Product) string { return p.Brand }},
}

var editCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Query is one search over a session's shuffled list. Seed and Version
// identify that list; fillers are drawn from a stream derived from the seed
// and the term, so the same query over the same session always pads the
// same way.
type Query struct {
	Term     string
	Products []models.Product
	Seed     uint64
	Version  string
}

// Result is a ranked, deduplicated list. The first Matches entries are
// genuine hits; the Fillers after them carry no relevance.
type Result struct {
	Products []models.Product
	Matches  int
	Fillers  int
}

type Index struct {
	memo    *lru.Cache[string, Result]
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewIndex(log *zap.Logger, m *metrics.Metrics) *Index {
	if log == nil {
		log = zap.NewNop()
	}
	memo, _ := lru.New[string, Result](memoSize)
	return &Index{memo: memo, log: log, metrics: m}
}

// Search ranks q.Products against q.Term and pads thin results with
// fillers up to MinResults. Matching failures are logged and the result
// degrades to fillers only.
func (ix *Index) Search(q Query) Result {
	term := strings.TrimSpace(q.Term)
	key := ""
	if q.Version != "" {
		key = q.Version + "|" + strconv.FormatUint(q.Seed, 10) + "|" + strings.ToLower(term)
		if r, ok := ix.memo.Get(key); ok {
			r.Products = slices.Clone(r.Products)
			return r
		}
	}

	var matches []models.Product
	if term != "" {
		var err error
		matches, err = rank(term, q.Products)
		if err != nil {
			ix.log.Error("search ranking failed, serving fillers", zap.String("term", term), zap.Error(err))
			matches = nil
		}
	}

	products, fillers := Pad(matches, q.Products, shuffle.DerivedRand(q.Seed, strings.ToLower(term)), MinResults)
	r := Result{Products: products, Matches: len(matches), Fillers: fillers}
	ix.metrics.ObserveSearch(fillers)
	ix.log.Debug("search",
		zap.String("term", term),
		zap.Int("matches", r.Matches),
		zap.Int("fillers", r.Fillers),
	)
	if key != "" {
		ix.memo.Add(key, Result{Products: slices.Clone(products), Matches: r.Matches, Fillers: r.Fillers})
	}
	return r
}

// Pad appends products from pool, in an order drawn from rng, until the
// list holds floor entries or pool is exhausted. Ids already present are
// never repeated. It returns the padded list and the number of fillers.
func Pad(matches, pool []models.Product, rng *rand.Rand, floor int) ([]models.Product, int) {
	out := append(make([]models.Product, 0, max(floor, len(matches))), matches...)
	if len(out) >= floor {
		return out, 0
	}
	seen := make(map[string]struct{}, floor)
	for _, p := range out {
		seen[p.ID] = struct{}{}
	}
	fillers := 0
	for _, p := range shuffle.Shuffle(pool, rng) {
		if len(out) >= floor {
			break
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
		fillers++
	}
	return out, fillers
}

type hit struct {
	product models.Product
	score   float64
}

func rank(term string, products []models.Product) (ranked []models.Product, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search: ranking panicked: %v", r)
		}
	}()

	needle := []rune(strings.ToLower(term))
	spans := subsequenceTitles(term, products)

	var hits []hit
	for i, p := range products {
		best, total := 1.0, 0.0
		for _, f := range fields {
			d := 1.0
			if s := f.value(p); s != "" {
				d = distance(needle, []rune(strings.ToLower(s)))
			}
			if f.title {
				if sd, ok := spans[i]; ok && sd < d {
					d = sd
				}
			}
			total += f.weight * d
			best = min(best, d)
		}
		if best <= Threshold {
			hits = append(hits, hit{product: p, score: total})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })
	ranked = lo.Map(hits, func(h hit, _ int) models.Product { return h.product })
	return lo.UniqBy(ranked, func(p models.Product) string { return p.ID }), nil
}

// distance is the edit distance between needle and the closest substring
// of haystack, normalized by the needle length and capped at 1. A substring
// hit scores 0.
func distance(needle, haystack []rune) float64 {
	n := len(needle)
	if n == 0 {
		return 1
	}
	if strings.Contains(string(haystack), string(needle)) {
		return 0
	}
	var best int
	if len(haystack) <= n+1 {
		best = levenshtein.DistanceForStrings(needle, haystack, editCosts)
	} else {
		best = substringDistance(needle, haystack)
	}
	return min(float64(best)/float64(n), 1)
}

// substringDistance is the fewest edits turning needle into some substring
// of haystack. Matching may start at any haystack offset for free, so one
// column of the edit matrix is carried across the haystack in O(n·m).
func substringDistance(needle, haystack []rune) int {
	n := len(needle)
	col := make([]int, n+1)
	for i := range col {
		col[i] = i
	}
	best := n
	for _, c := range haystack {
		diag := col[0]
		for i := 1; i <= n; i++ {
			cost := 1
			if needle[i-1] == c {
				cost = 0
			}
			next := min(col[i]+1, col[i-1]+1, diag+cost)
			diag, col[i] = col[i], next
		}
		best = min(best, col[n])
	}
	return best
}

type titleSource []models.Product

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// subsequenceTitles finds titles containing the term's characters in order
// within a span not much longer than the term, and scores them by how
// spread out the characters are.
func subsequenceTitles(term string, products []models.Product) map[int]float64 {
	n := len([]rune(term))
	if n < 2 {
		return nil
	}
	limit := float64(n) * (1 + Threshold)
	out := map[int]float64{}
	for _, m := range fuzzy.FindFrom(term, titleSource(products)) {
		if len(m.MatchedIndexes) == 0 {
			continue
		}
		span := m.MatchedIndexes[len(m.MatchedIndexes)-1] - m.MatchedIndexes[0] + 1
		if float64(span) > limit {
			continue
		}
		out[m.Index] = float64(span-n) / float64(n)
	}
	return out
}
