/*
Package election implements a generic election lifecycle.

An election is created with a type and an opaque payload. The electorate is
the set of voters returned by a VoterSource at the creation height. Each
elector can vote once, with its weight. An election is accepted once the
weight of the yes votes exceeds the configured threshold share of the total
electorate weight.

Accepted elections are concluded at the end of the block by the Concluder.
What an approved election does is decided by the Variant registered for its
type.
*/
package election
