package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appconfig "github.com/hfinch/household-forecast/internal/config"
	"github.com/hfinch/household-forecast/internal/optimizer"
	"github.com/hfinch/household-forecast/internal/policy"
	"github.com/hfinch/household-forecast/internal/server"
	"github.com/hfinch/household-forecast/internal/simulation"
	"github.com/hfinch/household-forecast/pkg/constants"
	"github.com/hfinch/household-forecast/pkg/output"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig appconfig.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	optimize := flag.Bool("optimize", false, "search for the best strategy even when one is configured")
	listen := flag.String("listen", "", "serve the JSON API on this address instead of running once")
	flag.Parse()

	conf, err := appconfig.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *listen != "" {
		addr := *listen
		if addr == "true" {
			addr = constants.DefaultServerAddress
		}
		logger.Info("serving forecast API",
			zap.String("op", "main"),
			zap.String("address", addr),
		)
		if err := http.ListenAndServe(addr, server.NewHandler(logger, constants.DefaultMaxBodySizeBytes, version)); err != nil {
			logger.Fatal("server stopped",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	switch outputFormat {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
	default:
		logger.Fatal(fmt.Sprintf("invalid output format %s; must be one of: pretty, csv, json", outputFormat),
			zap.String("op", "main"),
		)
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	run, optResult, err := execute(logger, conf, *optimize)
	if err != nil {
		logger.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		if optResult != nil {
			output.PrettyOptimization(os.Stdout, optResult)
		} else {
			output.PrettyFormat(os.Stdout, run)
		}
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, run)
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(os.Stdout, run); err != nil {
			logger.Fatal("failed to encode result",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

// execute runs either a single simulation of the configured strategy or
// an optimizer search. A configured strategy becomes the optimizer
// baseline when -optimize is set.
func execute(logger *zap.Logger, conf *appconfig.Configuration, optimize bool) (*simulation.Result, *optimizer.Result, error) {
	if conf.Strategy != nil && !optimize {
		sim, err := simulation.NewSimulator(logger, conf)
		if err != nil {
			return nil, nil, err
		}
		run, err := sim.Run(policy.Strategy{
			HomeLoanPercent:    conf.Strategy.HomeLoanPercent,
			StudentLoanPercent: conf.Strategy.StudentLoanPercent,
		})
		if err != nil {
			return nil, nil, err
		}
		return run, nil, nil
	}

	runner, err := optimizer.NewRunner(logger, conf)
	if err != nil {
		return nil, nil, err
	}

	var result *optimizer.Result
	if conf.Strategy != nil {
		result, err = runner.RunWithBaseline(context.Background(), policy.Strategy{
			HomeLoanPercent:    conf.Strategy.HomeLoanPercent,
			StudentLoanPercent: conf.Strategy.StudentLoanPercent,
		})
	} else {
		result, err = runner.Run(context.Background())
	}
	if err != nil {
		return nil, nil, err
	}
	return result.Run, result, nil
}
