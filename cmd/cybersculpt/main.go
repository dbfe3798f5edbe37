// Command cybersculpt は健康指標APIサーバーとワーカーの実行バイナリ。
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/cybersculpt/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cybersculpt: %v\n", err)
		os.Exit(1)
	}
}
