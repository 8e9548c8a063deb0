// Package models defines the domain entities shared by the rmx catalog explorer.
//
// The package contains three categories of types:
//
// 1. Catalog records: immutable mirrors of the remote API shape
//   - [Character], [Episode], [Location] : one per [Kind]
//   - [Page] : a paginated list response with its [Info] block
//
// 2. Identity and favorites records persisted in the key-value store
//   - [Credential] : a registered (email, password) pair
//   - [FavoriteIDs] : the three per-kind ID sets of one user
//   - [FavoritesMap] : every user's [FavoriteIDs], keyed by email
//
// 3. [FavoriteItem] : a tagged union over the three catalog records, keyed by [Kind]
package models
