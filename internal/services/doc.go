// package services contains the clients the batch engine is wired with.
//
// # Poster Sources
//
// Source implementations (PosterDBSource, MediuxSource) scrape a poster
// site URL into poster descriptors. SourceRegistry routes URLs to the
// right source and feeds the batch engine as its Fetcher.
//
// # Plex
//
// PlexService wraps the Plex Media Server HTTP API: library discovery,
// title lookup, poster and art application, label tagging. UploadService
// combines it with title mapping overrides and the upload history
// repository to satisfy the engine's Uploader contract.
//
// # Authentication
//
// PinClient implements the plex.tv PIN login flow for servers where the
// user does not want to copy a token out of the Plex web app by hand.
package services
