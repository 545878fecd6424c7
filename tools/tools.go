//go:build tools
// +build tools

// Package tools documents development tool dependencies. These are installed
// globally with `go install` or invoked with `go run`, so they are not
// tracked as runtime dependencies in go.mod.
package tools

// Development tools:
//
// mockgen - generates the repository mocks under internal/mocks
//   Invoke: go generate ./internal/mocks (runs go.uber.org/mock/mockgen@v0.6.0)
//   Docs: https://github.com/uber-go/mock
//
// Air - live reload during local development
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
