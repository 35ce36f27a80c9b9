// Package extension is the host side of the forwarder: it registers with the
// Lambda Extensions API, subscribes to function logs through the Logs API and
// serves the HTTP endpoint the host delivers log batches to.
package extension
