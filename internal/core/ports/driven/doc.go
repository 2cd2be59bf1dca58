// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: maps text to fixed-dimension vectors
//   - LLMService: maps a prompt to a completion
//   - VectorIndex: stores chunk vectors and serves filtered similarity queries
//   - TranscriptStore: transcript/segment metadata persistence
//
// # Optional Interfaces
//
//   - Transcriber: speech-to-text for audio uploads; without it only text
//     ingestion is available
//   - HistoryStore: question/answer history persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
