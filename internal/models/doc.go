// Package models defines domain entities and persistence interfaces for the poster set helper.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs describing scraped poster data
//   - [Poster] : One poster descriptor (target title, season/episode mapping, image URL)
//   - [PosterSet] : All posters scraped from one source URL, grouped by media type
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [UploadRecord] : History of every poster pushed to a Plex library item
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
