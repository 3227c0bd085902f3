package segment

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/blevesearch/vellum"
	"github.com/blevesearch/vellum/levenshtein"
)

// maxEditDistance bounds fuzzy matching against the term index.
const maxEditDistance = 2

// resolveTerms maps a query to the posting-list terms to fetch. An empty
// query resolves to the catch-all sentinel without touching the term index.
// A non-empty query streams every indexed term within maxEditDistance of it
// (case-sensitive, unranked) from the segment's FST.
func resolveTerms(partitionDir string, id uint64, query string) ([]string, error) {
	if query == "" {
		return []string{PostingListAll}, nil
	}

	fst, err := vellum.Open(filepath.Join(partitionDir, IndexFileName(id)))
	if err != nil {
		return nil, fmt.Errorf("segment %d: open term index: %w", id, err)
	}
	defer fst.Close()

	lb, err := levenshtein.NewLevenshteinAutomatonBuilder(maxEditDistance, false)
	if err != nil {
		return nil, fmt.Errorf("fuzzy automaton: %w", err)
	}
	dfa, err := lb.BuildDfa(query, maxEditDistance)
	if err != nil {
		return nil, fmt.Errorf("fuzzy automaton for %q: %w", query, err)
	}

	var terms []string
	itr, err := fst.Search(dfa, nil, nil)
	for err == nil {
		term, _ := itr.Current()
		terms = append(terms, string(term))
		err = itr.Next()
	}
	if !errors.Is(err, vellum.ErrIteratorDone) {
		return nil, fmt.Errorf("segment %d: stream term index: %w", id, err)
	}
	return terms, nil
}
