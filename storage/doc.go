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


// Package storage provides the metadata storage abstraction layer.
//
// This package defines the repository interface that decouples the
// ingestion orchestrator from the storage implementation. The repository
// tracks one IngestionRecord per document, keyed by the deterministic
// doc_id, which is what makes re-ingestion idempotency checks cheap: no
// vector index scan is ever needed to answer "is this document indexed".
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface type to enforce abstraction and
// enable alternative backends:
//
//	repo, err := badger.NewIngestionRepository(backend)  // returns storage.IngestionRepository
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
