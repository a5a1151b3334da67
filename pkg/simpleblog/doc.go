// Package simpleblog is the content & metadata engine of a multi-tenant
// blogging platform: collision-free slug assignment over the flat URL
// namespace shared by profiles and posts, a generic typed key/value
// attribute store, the post publish/feature lifecycle, many-to-many category
// association management, and offset pagination composed with dynamic filter
// predicates.
//
// The engine is a library, not a server. Persistence sits behind the Store /
// UnitOfWork boundary (see repo/memory and repo/postgres), full-text search
// behind Searcher, publish notifications behind Notifier, and asset bytes
// behind BlobStore (see storage/...). Callers supply an already
// authenticated identity; apart from the featured-post admin check the
// engine makes no authorization decisions.
package simpleblog
