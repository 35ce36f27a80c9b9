// Package stream holds the bulk-write side of the forwarder: the Repo
// abstraction and its Kinesis, NATS Streaming and stdout implementations.
package stream
