//go:build !amd64 && !arm64

package platform

func init() {
	initCapabilities()
}
