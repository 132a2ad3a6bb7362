package chunk

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

var (
	// ErrInvalidBudget is returned when the token budget is not positive.
	ErrInvalidBudget = errors.New("token budget must be greater than 0")

	// ErrInvalidOverlap is returned when the overlap is negative or does
	// not leave room for new content within the budget.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and less than half the budget")
)

var (
	paragraphSplitter = regexp.MustCompile(`\n{2,}`)
	sentenceSplitter  = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`)
	headingPattern    = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
)

// Chunker splits extracted document text into bounded, ordered chunk drafts.
//
// Policy: the text is split on paragraph boundaries first, oversized
// paragraphs on sentence boundaries; boundary units accumulate into a chunk
// until adding the next unit would exceed the token budget. Each new chunk
// starts with a configured overlap, a trailing token slice of the previous
// chunk, to preserve cross-boundary context. A single indivisible unit
// larger than the budget is hard-split at the budget boundary.
//
// The same input text and configuration always yield the same chunk
// boundaries and count, which re-ingestion idempotency depends on.
type Chunker struct {
	budget  int
	overlap int
	enc     *tiktoken.Tiktoken
}

// NewChunker creates a chunker with the given token budget and overlap.
// Overlap is measured in tokens and must leave at least half the budget
// for new content.
func NewChunker(budget, overlap int) (*Chunker, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	if overlap < 0 || overlap*2 >= budget {
		return nil, ErrInvalidOverlap
	}
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, err
	}
	return &Chunker{
		budget:  budget,
		overlap: overlap,
		enc:     enc,
	}, nil
}

// Budget returns the configured per-chunk token budget.
func (c *Chunker) Budget() int {
	return c.budget
}

// CountTokens returns the token count of text under the chunker's encoding.
func (c *Chunker) CountTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Split splits text into an ordered sequence of chunk drafts covering the
// whole document with no gaps. Empty or whitespace-only text yields zero
// chunks. Text within the budget yields exactly one chunk.
func (c *Chunker) Split(text string) ([]core.ChunkDraft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var drafts []core.ChunkDraft

	var cur []string
	var curTokens int
	var curSection string
	var seedOnly bool
	section := ""

	flush := func() {
		// A chunk holding nothing but an overlap seed repeats content the
		// previous chunk already covers; drop it.
		if len(cur) == 0 || seedOnly {
			cur = nil
			curTokens = 0
			seedOnly = false
			return
		}
		chunkText := strings.Join(cur, "\n")
		drafts = append(drafts, core.ChunkDraft{
			Seq:        len(drafts),
			Text:       chunkText,
			TokenCount: c.CountTokens(chunkText),
			Section:    curSection,
		})
		cur = nil
		curTokens = 0
	}

	// seed starts the next chunk with the trailing overlap tokens of the
	// chunk just flushed.
	seed := func() {
		if c.overlap == 0 || len(drafts) == 0 {
			return
		}
		prevTokens := c.enc.Encode(drafts[len(drafts)-1].Text, nil, nil)
		if len(prevTokens) == 0 {
			return
		}
		start := max(len(prevTokens)-c.overlap, 0)
		tail := c.enc.Decode(prevTokens[start:])
		cur = []string{tail}
		curTokens = len(prevTokens) - start
		seedOnly = true
	}

	add := func(unit string, unitTokens int) {
		if len(cur) > 0 && curTokens+unitTokens+1 > c.budget {
			flush()
			seed()
			// Drop the overlap seed when the unit would not fit beside it.
			if curTokens+unitTokens+1 > c.budget {
				cur = nil
				curTokens = 0
				seedOnly = false
			}
		}
		if len(cur) == 0 {
			curSection = section
		}
		cur = append(cur, unit)
		curTokens += unitTokens + 1 // account for the joining newline
		seedOnly = false
	}

	for _, para := range paragraphSplitter.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if m := headingPattern.FindStringSubmatch(para); m != nil {
			section = strings.TrimSpace(m[1])
		}

		for _, unit := range c.units(para) {
			unitTokens := c.CountTokens(unit)
			if unitTokens <= c.budget {
				add(unit, unitTokens)
				continue
			}

			// Indivisible unit beyond the budget: hard-split its
			// token stream at the budget boundary.
			flush()
			tokens := c.enc.Encode(unit, nil, nil)
			for start := 0; start < len(tokens); start += c.budget {
				end := min(start+c.budget, len(tokens))
				piece := c.enc.Decode(tokens[start:end])
				curSection = section
				drafts = append(drafts, core.ChunkDraft{
					Seq:        len(drafts),
					Text:       piece,
					TokenCount: end - start,
					Section:    section,
				})
			}
			seed()
		}
	}
	flush()

	return drafts, nil
}

// units splits a paragraph into accumulation units. Paragraphs within the
// budget stay whole; larger ones are broken on sentence boundaries.
func (c *Chunker) units(para string) []string {
	if c.CountTokens(para) <= c.budget {
		return []string{para}
	}
	sentences := sentenceSplitter.FindAllString(para, -1)
	if len(sentences) == 0 {
		return []string{para}
	}
	units := make([]string, 0, len(sentences)+1)
	var consumed int
	for _, s := range sentences {
		units = append(units, strings.TrimSpace(s))
		consumed += len(s)
	}
	// Keep any trailing text after the last sentence terminator.
	if rest := strings.TrimSpace(para[consumed:]); rest != "" {
		units = append(units, rest)
	}
	return units
}
