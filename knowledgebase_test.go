package assistant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baricodes/AWS-AI-Assitant/index/memory"
)

func TestNewKnowledgeBase(t *testing.T) {
	t.Run("create new knowledge base", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_kb")
		kb, err := NewKnowledgeBase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, kb)
		defer kb.Close()

		// Verify components are initialized
		assert.NotNil(t, kb.IngestionRepository())
		assert.NotNil(t, kb.IndexStore())
		assert.NotNil(t, kb.Chunker())
		assert.NotNil(t, kb.backend)
		assert.NotNil(t, kb.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open the metadata store at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		kb, err := NewKnowledgeBase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, kb)
	})

	t.Run("error with invalid chunking", func(t *testing.T) {
		kb, err := NewKnowledgeBase(t.TempDir(), WithChunking(100, 90))
		assert.Error(t, err)
		assert.Nil(t, kb)
	})

	t.Run("injected index store is used", func(t *testing.T) {
		store := memory.NewStore()
		kb, err := NewKnowledgeBase(t.TempDir(), WithIndexStore(store))
		require.NoError(t, err)
		defer kb.Close()

		assert.Equal(t, store, kb.IndexStore())
	})
}

func TestKnowledgeBase_Close(t *testing.T) {
	kb, err := NewKnowledgeBase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, kb)

	err = kb.Close()
	assert.NoError(t, err)
}

func TestKnowledgeBase_FactoryMethods(t *testing.T) {
	kb, err := NewKnowledgeBase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, kb)
	defer kb.Close()

	t.Run("can create ingest orchestrator", func(t *testing.T) {
		orchestrator, err := kb.NewIngestOrchestrator()
		require.NoError(t, err)
		require.NotNil(t, orchestrator)
		orchestrator.Release()
	})

	t.Run("can create answerer", func(t *testing.T) {
		answerer, err := kb.NewAnswerer()
		require.NoError(t, err)
		require.NotNil(t, answerer)
	})
}
