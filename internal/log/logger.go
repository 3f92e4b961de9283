package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"profile/config"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultMaxAgeDays = 7

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "dpanic":
		return zap.DPanicLevel
	case "panic":
		return zap.PanicLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.MessageKey = "message"
	encCfg.LevelKey = "level"
	encCfg.TimeKey = "ts"
	encCfg.CallerKey = "caller"
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return encCfg
}

// NewLogger 建立 JSON logger：info 以下走 stdout、warn 以上走 stderr；
// 有設定 LOG__DIR 時再多寫一份每日切割的檔案
func NewLogger(conf *config.Configuration) (*zap.Logger, error) {
	atomic := zap.NewAtomicLevelAt(parseLevel(conf.Log.Level))
	encoder := zapcore.NewJSONEncoder(encoderConfig())

	stdoutLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return atomic.Enabled(l) && l < zapcore.WarnLevel
	})
	stderrLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return atomic.Enabled(l) && l >= zapcore.WarnLevel
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), stdoutLevel),
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), stderrLevel),
	}

	if conf.Log.Dir != "" {
		writer, err := newRotateWriter(conf)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), atomic))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	logger.Info(fmt.Sprintf("zap logger set level: %s", atomic.Level()))

	return logger, nil
}

func newRotateWriter(conf *config.Configuration) (*rotatelogs.RotateLogs, error) {
	maxAge := conf.Log.MaxAgeDays
	if maxAge <= 0 {
		maxAge = defaultMaxAgeDays
	}
	name := conf.App.Name
	if name == "" {
		name = "profile"
	}
	if err := os.MkdirAll(conf.Log.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return rotatelogs.New(
		filepath.Join(conf.Log.Dir, name+"-%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(conf.Log.Dir, name+".log")),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
}
