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


package storage

import (
	"fmt"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MarshalIngestionRecord serializes an IngestionRecord to bytes using the
// MUS format. Timestamps are stored as Unix microseconds.
func MarshalIngestionRecord(record *IngestionRecord) []byte {
	buf := make([]byte, sizeIngestionRecord(record))
	n := ord.String.Marshal(record.DocID, buf)
	n += ord.String.Marshal(record.SourceKey, buf[n:])
	n += varint.Int.Marshal(int(record.Status), buf[n:])
	n += varint.Int.Marshal(record.ChunkCount, buf[n:])
	n += varint.Int.Marshal(record.ChunksFailed, buf[n:])
	n += ord.String.Marshal(record.LastError, buf[n:])
	n += varint.Int64.Marshal(record.CreatedAt.UnixMicro(), buf[n:])
	varint.Int64.Marshal(record.UpdatedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalIngestionRecord deserializes an IngestionRecord from bytes.
func UnmarshalIngestionRecord(data []byte) (*IngestionRecord, error) {
	record := &IngestionRecord{}
	docID, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: doc_id: %w", ErrSerializationFailed, err)
	}
	record.DocID = docID

	sourceKey, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: source_key: %w", ErrSerializationFailed, err)
	}
	record.SourceKey = sourceKey
	n += m

	status, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: status: %w", ErrSerializationFailed, err)
	}
	record.Status = core.Status(status)
	n += m

	chunkCount, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: chunk_count: %w", ErrSerializationFailed, err)
	}
	record.ChunkCount = chunkCount
	n += m

	chunksFailed, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: chunks_failed: %w", ErrSerializationFailed, err)
	}
	record.ChunksFailed = chunksFailed
	n += m

	lastError, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: last_error: %w", ErrSerializationFailed, err)
	}
	record.LastError = lastError
	n += m

	createdAt, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: created_at: %w", ErrSerializationFailed, err)
	}
	record.CreatedAt = time.UnixMicro(createdAt).UTC()
	n += m

	updatedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: updated_at: %w", ErrSerializationFailed, err)
	}
	record.UpdatedAt = time.UnixMicro(updatedAt).UTC()

	return record, nil
}

func sizeIngestionRecord(record *IngestionRecord) int {
	return ord.String.Size(record.DocID) +
		ord.String.Size(record.SourceKey) +
		varint.Int.Size(int(record.Status)) +
		varint.Int.Size(record.ChunkCount) +
		varint.Int.Size(record.ChunksFailed) +
		ord.String.Size(record.LastError) +
		varint.Int64.Size(record.CreatedAt.UnixMicro()) +
		varint.Int64.Size(record.UpdatedAt.UnixMicro())
}
