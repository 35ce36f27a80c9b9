// Package logforwarder turns log batches delivered by the Lambda Logs API into
// stream records and submits each batch as one bulk write.
package logforwarder
