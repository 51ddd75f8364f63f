// SPDX-License-Identifier: EPL-2.0

// Package export stores session exports produced by the mixer.
//
// A Sink receives a mixer.Export and returns the id it was stored under.
// FileSink writes one JSON document per export into a directory;
// RedisSink keeps them as fields of a Redis hash.
package export
