// Package repository implements the data access layer for guild
// configurations.
//
// Two implementations of the same surface are provided:
//
//   - GuildConfigRepository persists records in SurrealDB
//   - MemoryGuildConfigRepository keeps records in process memory
//
// Both follow the same contract:
//
//   - Constructor function accepts the backing store
//   - Get returns (nil, nil) when no record exists for the guild
//   - Create fails with database.ErrDuplicate for a second record per guild
//   - Update fails with database.ErrNotFound when the record is absent
//   - SurrealQL queries use parameterized $variable syntax
//
// Map-valued config fields are flattened into text arrays for storage (see
// the model package codecs) so both backends store the same shape.
package repository
