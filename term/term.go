// Package term は出力先が端末かどうかを調べる。
// 診断を色付きで表示するかの判定（--color auto）に使う。
package term

import "os"

// IsTerminal は f が端末につながっていれば true を返す。
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isTerminal(int(f.Fd()))
}
