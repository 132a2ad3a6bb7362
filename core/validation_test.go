package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDocumentMeta(t *testing.T) {
	tests := []struct {
		name    string
		meta    *DocumentMeta
		wantErr error
	}{
		{
			name: "valid meta",
			meta: &DocumentMeta{SourceKey: "docs/guide.md", Title: "Guide"},
		},
		{
			name:    "nil meta",
			meta:    nil,
			wantErr: ErrEmptySourceKey,
		},
		{
			name:    "empty source key",
			meta:    &DocumentMeta{Title: "Guide"},
			wantErr: ErrEmptySourceKey,
		},
		{
			name:    "whitespace source key",
			meta:    &DocumentMeta{SourceKey: "   "},
			wantErr: ErrEmptySourceKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentMeta(tt.meta)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocumentMeta() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocumentMeta() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	valid := func() *Chunk {
		return &Chunk{
			DocID:     DocIDFromSourceKey("docs/guide.md"),
			ChunkID:   0,
			Text:      "some text",
			Embedding: make([]float32, EmbeddingDim),
		}
	}

	t.Run("valid chunk", func(t *testing.T) {
		if err := ValidateChunk(valid()); err != nil {
			t.Errorf("ValidateChunk() unexpected error: %v", err)
		}
	})

	t.Run("missing embedding is allowed", func(t *testing.T) {
		chunk := valid()
		chunk.Embedding = nil
		if err := ValidateChunk(chunk); err != nil {
			t.Errorf("ValidateChunk() unexpected error: %v", err)
		}
	})

	t.Run("wrong dimension", func(t *testing.T) {
		chunk := valid()
		chunk.Embedding = make([]float32, 3)
		if err := ValidateChunk(chunk); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("ValidateChunk() error = %v, want ErrDimensionMismatch", err)
		}
	})

	t.Run("empty doc id", func(t *testing.T) {
		chunk := valid()
		chunk.DocID = ""
		if err := ValidateChunk(chunk); err == nil {
			t.Error("ValidateChunk() expected error for empty doc_id")
		}
	})

	t.Run("negative chunk id", func(t *testing.T) {
		chunk := valid()
		chunk.ChunkID = -1
		if err := ValidateChunk(chunk); err == nil {
			t.Error("ValidateChunk() expected error for negative chunk_id")
		}
	})
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantErr  error
	}{
		{
			name:     "valid question",
			question: "What is IAM?",
		},
		{
			name:     "question at the length cap",
			question: strings.Repeat("a", MaxQuestionLength),
		},
		{
			name:    "empty question",
			wantErr: ErrEmptyQuestion,
		},
		{
			name:     "whitespace question",
			question: "  \n\t ",
			wantErr:  ErrEmptyQuestion,
		},
		{
			name:     "question over the length cap",
			question: strings.Repeat("a", MaxQuestionLength+1),
			wantErr:  ErrQuestionTooLong,
		},
		{
			name:     "multibyte question at the cap counts runes not bytes",
			question: strings.Repeat("é", MaxQuestionLength),
		},
		{
			name:     "multibyte question over the cap",
			question: strings.Repeat("é", MaxQuestionLength+1),
			wantErr:  ErrQuestionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.question)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateQuestion() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQuestion() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
