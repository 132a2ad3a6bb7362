package chunk

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker_Validation(t *testing.T) {
	tests := []struct {
		name    string
		budget  int
		overlap int
		wantErr error
	}{
		{"valid", 512, 64, nil},
		{"zero overlap", 512, 0, nil},
		{"zero budget", 0, 0, ErrInvalidBudget},
		{"negative budget", -1, 0, ErrInvalidBudget},
		{"negative overlap", 512, -1, ErrInvalidOverlap},
		{"overlap half of budget", 100, 50, ErrInvalidOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChunker(tt.budget, tt.overlap)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.budget, c.Budget())
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	c, err := NewChunker(512, 64)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		drafts, err := c.Split(text)
		require.NoError(t, err)
		assert.Empty(t, drafts)
	}
}

func TestSplit_SingleChunk(t *testing.T) {
	c, err := NewChunker(512, 64)
	require.NoError(t, err)

	// Three short paragraphs well under the budget collapse into one chunk.
	text := "IAM controls access to AWS resources.\n\n" +
		"Policies are JSON documents attached to identities.\n\n" +
		"Roles are assumed by services or federated users."

	drafts, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, 0, drafts[0].Seq)
	assert.Contains(t, drafts[0].Text, "IAM controls access")
	assert.Contains(t, drafts[0].Text, "federated users")
	assert.LessOrEqual(t, drafts[0].TokenCount, c.Budget())
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := NewChunker(60, 10)
	require.NoError(t, err)

	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "Sentence number %d talks about access management in detail. ", i)
		if i%5 == 4 {
			b.WriteString("\n\n")
		}
	}
	text := b.String()

	first, err := c.Split(text)
	require.NoError(t, err)
	second, err := c.Split(text)
	require.NoError(t, err)

	require.Greater(t, len(first), 1)
	assert.True(t, reflect.DeepEqual(first, second), "same input must yield identical chunks")
}

func TestSplit_BudgetEnforced(t *testing.T) {
	c, err := NewChunker(40, 8)
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	drafts, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(drafts), 1)

	for i, draft := range drafts {
		assert.Equal(t, i, draft.Seq, "chunk sequence must be dense")
		assert.LessOrEqual(t, draft.TokenCount, c.Budget(),
			"chunk %d exceeds the token budget", i)
		assert.Equal(t, c.CountTokens(draft.Text), draft.TokenCount)
	}
}

func TestSplit_OverlapSeedsNextChunk(t *testing.T) {
	c, err := NewChunker(40, 8)
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	drafts, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(drafts), 1)

	for i := 1; i < len(drafts); i++ {
		seed, _, found := strings.Cut(drafts[i].Text, "\n")
		require.True(t, found, "chunk %d should start with an overlap seed", i)
		assert.True(t, strings.HasSuffix(drafts[i-1].Text, seed),
			"chunk %d seed %q is not a suffix of the previous chunk", i, seed)
	}
}

func TestSplit_HardSplitOversizedUnit(t *testing.T) {
	c, err := NewChunker(32, 4)
	require.NoError(t, err)

	// No sentence terminators and no paragraph breaks: indivisible.
	text := strings.Repeat("abcdefghij", 120)

	drafts, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(drafts), 1)

	var rebuilt strings.Builder
	for i, draft := range drafts {
		assert.LessOrEqual(t, draft.TokenCount, c.Budget(), "chunk %d over budget", i)
		rebuilt.WriteString(draft.Text)
	}
	assert.Equal(t, text, rebuilt.String(), "hard-split chunks must cover the input with no gaps")
}

func TestSplit_SectionFromHeading(t *testing.T) {
	c, err := NewChunker(512, 0)
	require.NoError(t, err)

	text := "# Identity and Access\n\nIAM manages permissions."

	drafts, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Identity and Access", drafts[0].Section)
}

func TestCountTokens(t *testing.T) {
	c, err := NewChunker(512, 64)
	require.NoError(t, err)

	assert.Equal(t, 0, c.CountTokens(""))
	assert.Greater(t, c.CountTokens("hello world"), 0)
}
