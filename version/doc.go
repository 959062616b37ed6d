// Package version reports the build of a linqkit binary.
//
// Version, commit, branch and build time are set at link time and fall back to
// the module and VCS data the Go toolchain stamps into the binary:
//
//	go build -ldflags "-X github.com/kbukum/linqkit/version.Version=1.2.0" ./cmd/linqsamples
package version
