// Package summary loads the product summary shown for a support case.
//
// Loading is a two-step chain: the case record is fetched to find its
// contact, then the product-summary service is asked about that contact.
// Each remote call runs as a Bubble Tea command; its result comes back as a
// message that must be applied on the caller's event loop. All state changes
// therefore happen on one goroutine and need no locking:
//
//	cmd := ctrl.SetCaseID(ctx, caseID) // run cmd, feed its msg to ctrl.Update
//	cmd = ctrl.Update(msg)             // may return the product fetch
//
// The bubbletea program in internal/tui and Run in this package are the two
// event loops used by the CLI.
//
// Responses are applied in completion order. If two product fetches overlap
// the one finishing last wins, unless the loader is built with
// WithDiscardStale.
package summary
