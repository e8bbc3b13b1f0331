// logger.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package logger

import (
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process-wide logger. It is a no-op until Initialize.
	Logger *zap.SugaredLogger
	// Output receives the plain run report (banner, echoed input, tables).
	// It writes to the same file as Logger but without level or time prefix.
	Output *zap.SugaredLogger
)

func init() {
	Logger = zap.NewNop().Sugar()
	Output = zap.NewNop().Sugar()
}

// Config describes where and how to log.
type Config struct {
	// File is the run output file; empty means stderr only.
	File string
	// Level is one of debug, info, warn, error.
	Level string
	// JSON switches the file encoder to JSON.
	JSON bool
	// MaxSizeMB is the rotation threshold of the output file.
	MaxSizeMB int
	// Quiet disables the stderr copy.
	Quiet bool
}

// Initialize replaces Logger and Output according to cfg.
func Initialize(cfg Config) error {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores, outCores []zapcore.Core
	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: 3,
		})
		var enc zapcore.Encoder
		if cfg.JSON {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}
		cores = append(cores, zapcore.NewCore(enc, file, level))
		outCores = append(outCores, zapcore.NewCore(plainEncoder(), file, zapcore.DebugLevel))
	}
	if !cfg.Quiet {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level))
	}
	if len(cores) == 0 {
		Logger = zap.NewNop().Sugar()
	} else {
		Logger = zap.New(zapcore.NewTee(cores...)).Sugar()
	}
	if len(outCores) == 0 {
		Output = zap.NewNop().Sugar()
	} else {
		Output = zap.New(zapcore.NewTee(outCores...)).Sugar()
	}
	return nil
}

// plainEncoder writes only the message, like a log.Logger with no flags.
func plainEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
}

// ComponentLogger returns a named child of Logger.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Sync flushes both loggers.
func Sync() {
	_ = Logger.Sync()
	_ = Output.Sync()
}
