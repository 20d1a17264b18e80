// Package main studioctl 只读检查本地缓存中的故事图
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
