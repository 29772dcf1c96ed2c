// Package banuid generates 64-bit, time-sortable identifiers that need no
// coordination between processes.
//
// Layout (most significant bit first):
//
//	| 41 bits: ms since Epoch | 13 bits: shard id | 10 bits: sequence |
//
// A Generator owns one shard id and a (last timestamp, sequence) pair. Ids
// from one Generator are strictly increasing; ids from Generators with
// different shard ids never collide.
//
// Usage
//
//	g := banuid.WithShardID(42)
//	id := g.NextID()
//	banuid.ExtractShardID(id) // 42
package banuid
