// Copyright 2025 Baricodes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateDocumentMeta validates document metadata according to domain rules.
//
// Validation rules:
//   - SourceKey must not be empty
//
// NOT validated (optional descriptive fields):
//   - Title, Source, URL, Tags
func ValidateDocumentMeta(meta *DocumentMeta) error {
	if meta == nil {
		return fmt.Errorf("document meta is nil: %w", ErrEmptySourceKey)
	}
	if strings.TrimSpace(meta.SourceKey) == "" {
		return ErrEmptySourceKey
	}
	return nil
}

// ValidateChunk validates a chunk before it is written to the vector index.
//
// Validation rules:
//   - DocID must not be empty
//   - ChunkID must be non-negative
//   - Embedding, when present, must have dimension EmbeddingDim
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("chunk is nil")
	}
	if chunk.DocID == "" {
		return fmt.Errorf("chunk doc_id cannot be empty")
	}
	if chunk.ChunkID < 0 {
		return fmt.Errorf("chunk_id must be non-negative, got %d", chunk.ChunkID)
	}
	if len(chunk.Embedding) > 0 && len(chunk.Embedding) != EmbeddingDim {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, EmbeddingDim, len(chunk.Embedding))
	}
	return nil
}

// MaxQuestionLength is the longest accepted question, in characters.
const MaxQuestionLength = 4000

// ValidateQuestion validates a question before the query pipeline runs.
//
// Validation rules:
//   - must not be empty or whitespace-only
//   - must not exceed MaxQuestionLength characters
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	if n := utf8.RuneCountInString(question); n > MaxQuestionLength {
		return fmt.Errorf("%w: %d > %d characters", ErrQuestionTooLong, n, MaxQuestionLength)
	}
	return nil
}
