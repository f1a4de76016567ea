package termui

import (
	"fmt"
	"os"

	"lightcycle/client"
)

// ReportFatal 还原终端，把错误与原因打印到 stderr 后以状态码 1 退出。
// s 为 nil 表示终端未被接管。
func ReportFatal(s *Screen, msg string, err error) {
	if s != nil {
		s.Close()
	}
	client.Log.Errorw(msg, "error", err)
	client.SyncLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}
