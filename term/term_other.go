//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package term

// 端末の判定ができない環境では常に色なしで表示する。
func isTerminal(fd int) bool {
	return false
}
