// Package data holds the storage connections of the service.
//
// MongoDB carries the job documents; Redis, when configured, backs the job
// cache. Every repository call goes through the Executor, which bounds the
// call with data.mongodb.timeout, retries one timeout after
// data.mongodb.retry_backoff and reports ErrUnavailable otherwise.
package data
