// Package domain contains the core business entities and rules for MeetMind.
//
// Entities here have no dependencies on adapters or infrastructure. The
// central types are Transcript (an uploaded or transcribed meeting), Segment
// (a timestamped span of speech within a transcript), and Chunk (a derived
// retrieval unit spanning one or more consecutive segments).
//
// # Import Rules
//
//   - Can Import: standard library, github.com/google/uuid
//   - Cannot Import: Any adapter, service, or port package
package domain
