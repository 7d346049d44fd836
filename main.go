package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	// 开始安全退出任务
	InitSafeExit(ctx, cancel)
	defer SafeExitInst.Exit()
	// 初始化配置
	if err := InitConf(configPath, cmd.Flags()); err != nil {
		return err
	}
	// 初始化日志
	InitLog()
	// 初始化断点
	if err := InitBreakPoint(); err != nil {
		return err
	}
	// 开始任务
	return InitViewer(ctx)
}
