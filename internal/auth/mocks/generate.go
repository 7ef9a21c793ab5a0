package mocks

// Mock generation directives. Run `go generate ./internal/auth/mocks/` to regenerate.

//go:generate go run go.uber.org/mock/mockgen -source=../service/hasher.go -destination=mock_hasher.go -package=mocks
