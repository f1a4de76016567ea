package client

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是全局可用的 SugaredLogger；InitLogger 之前为空实现，便于测试与库内调用
var Log = zap.NewNop().Sugar()

// InitLogger 初始化 zap 日志到本地文件（支持滚动）。
// 对局期间终端被界面占用，所以日志只写文件。
func InitLogger(filePath string, debug bool) error {
	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   false,
	}

	Log = zap.New(newLogCore(zapcore.AddSync(lj), debug), zap.AddCaller()).Sugar().Named("lightcycle")
	return nil
}

// newLogCore 人读的单行格式：ISO8601 时间、大写级别
func newLogCore(ws zapcore.WriteSyncer, debug bool) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel // 每个 Tick 的状态切换只在 Debug 下输出
	}
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, level)
}

// SyncLogger 清理和同步缓冲
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
