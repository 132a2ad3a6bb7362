package opensearch

import (
	"fmt"

	"github.com/Baricodes/AWS-AI-Assitant/core"
)

// indexMapping returns the index creation body. The schema is fixed: a
// 1024-dimension cosine kNN vector with on-disk HNSW, plus the chunk
// metadata fields. Changing any field type here is a breaking change for
// every stored record.
func indexMapping() string {
	return fmt.Sprintf(`{
  "settings": {
    "index.knn": true
  },
  "mappings": {
    "properties": {
      "embedding": {
        "type": "knn_vector",
        "dimension": %d,
        "space_type": "cosinesimil",
        "mode": "on_disk",
        "compression_level": "16x",
        "method": {
          "name": "hnsw",
          "engine": "faiss",
          "parameters": {
            "m": 16,
            "ef_construction": 100
          }
        }
      },
      "chunk_text": {"type": "text"},
      "doc_id": {"type": "keyword"},
      "chunk_id": {"type": "integer"},
      "title": {"type": "text"},
      "section": {"type": "text"},
      "source": {"type": "keyword"},
      "s3_key": {"type": "keyword"},
      "url": {"type": "keyword"},
      "tags": {"type": "keyword"},
      "token_count": {"type": "integer"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`, core.EmbeddingDim)
}
