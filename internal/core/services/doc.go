// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Nothing in here touches SQLite, HTTP, or the terminal directly.
package services
