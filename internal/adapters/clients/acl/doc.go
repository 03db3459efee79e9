// Package acl is the anti-corruption layer for the remote quote feed.
// It translates the feed's wire format into domain types so that
// changes to the external API never ripple past this package.
//
// The package provides:
//
//   - [FeedClient]: the feed adapter implementing the sync source port
//   - [BaseAdapter]: embeddable request plumbing with error mapping
//   - [MapHTTPError]: HTTP status code to domain error mapping
//   - [DecodeResponse]: generic JSON response decoder
//   - [TranslateSlice]: batch translation that drops invalid items
//
// Error handling strategy: the feed returns failures as HTTP status
// codes, error response bodies, or transport errors. All of these are
// mapped to domain errors before leaving the package, so callers only
// ever see [domain.ErrNotFound], [domain.ErrValidation],
// [domain.ErrConflict], or [domain.ErrUnavailable]. Client-level
// failures ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// map to [domain.ErrUnavailable] as well.
//
// Individual feed items that fail translation are dropped rather than
// failing the whole fetch. A feed that returns one malformed item
// should not stall the sync loop.
package acl
