// Package services reads the remote Rick and Morty catalog.
//
// # Catalog Interface
//
// [Catalog] exposes paginated, filtered listings and ID lookups for characters, episodes and locations.
// Views depend on the interface so tests can substitute a double.
//
// # Rick and Morty Implementation
//
// [RickAndMortyService] calls the public REST API at https://rickandmortyapi.com/api.
// Requests are paced with a [rate.Limiter], tagged with a User-Agent and an X-Request-ID, and never retried.
//
// Lookups by ID always return a slice. The API answers a bare object when a single ID is requested;
// the client wraps it. An empty ID list returns an empty slice without touching the network.
//
// # Raw Access
//
// [APIService] performs untyped GET requests against any catalog path (used by `rmx api get`).
//
// # Error Handling
//
// Every failed catalog call returns an [*UpstreamError] carrying the HTTP status
// (0 for transport failures) and the upstream message taken from the `{"error": "..."}` body.
// It unwraps to [shared.ErrAPIRequest].
package services
