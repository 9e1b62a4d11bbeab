package logging

import (
	"os"
	"strings"

	"github.com/2beens/gymsessions/pkg"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	if params.SentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		}); err != nil {
			log.Errorf("sentry.Init: %s", err)
		} else {
			log.AddHook(NewSentryHook([]log.Level{
				log.PanicLevel,
				log.FatalLevel,
				log.ErrorLevel,
			}))
			log.Infoln("sentry set up successfully")
		}
	}

	log.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		log.SetOutput(os.Stdout)
		log.Println("writing logs only to STDOUT")
		return
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    50, // megabytes
		MaxBackups: 30,
		LocalTime:  false, // UTC
		Compress:   true,
	}

	if params.LogToStdout {
		log.Println("writing logs to file and STDOUT")
		log.SetOutput(pkg.NewCombinedWriter(os.Stdout, lumberJackLogger))
	} else {
		log.SetOutput(lumberJackLogger)
	}
}

func GetLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	case "info":
		return log.InfoLevel
	case "trace":
		return log.TraceLevel
	case "warn", "warning":
		return log.WarnLevel
	default:
		return log.TraceLevel
	}
}
