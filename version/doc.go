// Package version exposes build information of the transport binary.
//
// Set the values at build time:
//
//	go build -ldflags "\
//	  -X github.com/laktaabhutan/LAK-Goods-Transport-Application/version.Version=1.2.3 \
//	  -X github.com/laktaabhutan/LAK-Goods-Transport-Application/version.Branch=main \
//	  -X github.com/laktaabhutan/LAK-Goods-Transport-Application/version.Revision=abc1234 \
//	  -X github.com/laktaabhutan/LAK-Goods-Transport-Application/version.BuiltAt=2024-05-01T10:00:00Z" \
//	  ./cmd/transport
//
// Without ldflags the revision and build time come from the Go vcs stamp.
package version
