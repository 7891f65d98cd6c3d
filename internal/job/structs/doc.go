// Package structs defines the job model, request bodies and listing filters.
package structs
