package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/elan-tools/elan2py/internal/config"
	"github.com/elan-tools/elan2py/internal/core"
	"github.com/elan-tools/elan2py/internal/demo"
	"github.com/elan-tools/elan2py/internal/history"
	"github.com/elan-tools/elan2py/internal/playground"
	"github.com/elan-tools/elan2py/internal/styles"
	"github.com/elan-tools/elan2py/internal/translate"
)

var BUILD_VERSION = "dev"

// sessionID ties together the history rows written by one invocation.
var sessionID = uuid.New().String()

var configFile = flag.String("config", "", "use a custom config file instead of the one in the data directory")
var noCache = flag.Bool("no-cache", false, "translate even when a cached result exists, and do not store one")
var playFlag = flag.Bool("play", false, "open the interactive playground (requires a terminal)")

var helpFlag bool
var versionFlag bool

func init() {
	// Register help flags: -h and --help
	flag.BoolVar(&helpFlag, "h", false, "display help information")
	flag.BoolVar(&helpFlag, "help", false, "display help information")

	// Register version flags: -v and --version
	flag.BoolVar(&versionFlag, "v", false, "display build version")
	flag.BoolVar(&versionFlag, "version", false, "display build version")

	// Register custom zstd sink for compressed logging
	if err := zap.RegisterSink("zstd", newCompressedSink); err != nil {
		panic(fmt.Sprintf("failed to register zstd sink: %v", err))
	}
}

func main() {
	flag.Parse()

	if versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if helpFlag {
		printUsage()
		return
	}

	// Usage errors happen before any file is touched
	if flag.NArg() > 2 {
		fmt.Println(styles.ERROR("Error: too many arguments."))
		fmt.Println()
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Println(styles.ERROR(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync() // Flush any buffered log entries
	}()

	logger.Info("-------- new elan2py run --------", zap.Any("args", os.Args))

	historyManager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		// History is bookkeeping, not the product; translate anyway
		logger.Warn("failed to initialize history manager", zap.Error(err))
		historyManager = nil
	}
	defer func() {
		if historyManager != nil {
			if err := historyManager.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close history manager: %v\n", err)
			}
		}
	}()

	translator := translate.NewTranslator(translate.Options{
		Indent:      cfg.Indent,
		TurtleSpeed: cfg.TurtleSpeed,
	})

	if err := run(translator, historyManager, cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		fmt.Println(styles.ERROR(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func configPath() string {
	if *configFile != "" {
		return *configFile
	}
	return core.ConfigFile()
}

func run(translator *translate.Translator, historyManager *history.Manager, cfg config.Config, logger *zap.Logger) error {
	// elan2py -play
	if *playFlag {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("the playground needs an interactive terminal")
		}
		return playground.Run(translator, logger)
	}

	// elan2py
	if flag.NArg() == 0 {
		return runDemo(translator)
	}

	// elan2py program.elan [output.py]
	inputPath := flag.Arg(0)
	outputPath := cfg.DefaultOutput
	if flag.NArg() == 2 {
		outputPath = flag.Arg(1)
	}

	return translateFile(translator, historyManager, cfg, logger, inputPath, outputPath)
}

// runDemo translates the embedded demonstration program and prints both
// sides; no filesystem input is involved.
func runDemo(translator *translate.Translator) error {
	source := demo.Program()

	target, err := translator.Translate(source)
	if err != nil {
		return err
	}

	fmt.Println(styles.HEADING("Demonstration Elan program:"))
	fmt.Println(styles.SOURCE(source))
	fmt.Println(styles.HEADING("Generated Python:"))
	fmt.Println(target)
	return nil
}

func translateFile(
	translator *translate.Translator,
	historyManager *history.Manager,
	cfg config.Config,
	logger *zap.Logger,
	inputPath string,
	outputPath string,
) error {
	if !strings.EqualFold(filepath.Ext(inputPath), ".elan") {
		fmt.Println(styles.WARNING(fmt.Sprintf("Warning: input file '%s' does not have a .elan extension.", inputPath)))
	}

	// Only the default output name is ever overwritten, no matter how it
	// was chosen; any other pre-existing output file is an error.
	if filepath.Base(outputPath) != filepath.Base(cfg.DefaultOutput) {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("output file '%s' already exists; choose a different name or remove it", outputPath)
		}
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cannot read input file '%s': %w", inputPath, err)
	}
	source := string(data)

	target, cached, err := translateCached(translator, historyManager, cfg, logger, source)
	if err != nil {
		recordRun(historyManager, logger, inputPath, outputPath, source, 0, err)
		return err
	}

	if err := os.WriteFile(outputPath, []byte(target), 0644); err != nil {
		writeErr := fmt.Errorf("cannot write output file '%s': %w", outputPath, err)
		recordRun(historyManager, logger, inputPath, outputPath, source, 0, writeErr)
		return writeErr
	}

	recordRun(historyManager, logger, inputPath, outputPath, source, len(target), nil)

	note := ""
	if cached {
		note = " (cached)"
	}
	fmt.Println(styles.SUCCESS(fmt.Sprintf("Successfully translated '%s' to '%s'%s", inputPath, outputPath, note)))
	fmt.Printf("Output size: %s\n", humanize.Bytes(uint64(len(target))))
	return nil
}

// translateCached consults the content-keyed cache before translating.
func translateCached(
	translator *translate.Translator,
	historyManager *history.Manager,
	cfg config.Config,
	logger *zap.Logger,
	source string,
) (string, bool, error) {
	useCache := cfg.Cache && !*noCache && historyManager != nil
	key := history.SourceKey(source, fmt.Sprintf("indent=%q;turtle_speed=%d", cfg.Indent, cfg.TurtleSpeed))

	if useCache {
		if target, found, err := historyManager.LookupCache(key); err != nil {
			logger.Warn("cache lookup failed", zap.Error(err))
		} else if found {
			logger.Debug("cache hit", zap.String("key", key))
			return target, true, nil
		}
	}

	target, err := translator.Translate(source)
	if err != nil {
		return "", false, err
	}

	if useCache {
		if err := historyManager.StoreCache(key, target); err != nil {
			logger.Warn("cache store failed", zap.Error(err))
		}
	}

	return target, false, nil
}

func recordRun(historyManager *history.Manager, logger *zap.Logger, inputPath, outputPath, source string, outputBytes int, runErr error) {
	if historyManager == nil {
		return
	}
	failure := ""
	if runErr != nil {
		failure = runErr.Error()
	}
	if _, err := historyManager.RecordTranslation(inputPath, outputPath, source, outputBytes, sessionID, failure); err != nil {
		logger.Warn("failed to record translation", zap.Error(err))
	}
}

func printUsage() {
	// Header
	fmt.Println(styles.HEADING("Usage:") + " elan2py [flags] <input.elan> [output.py]")
	fmt.Println("\nTranslates an Elan program to Python.")
	fmt.Println()

	fmt.Println(styles.HEADING("Arguments:"))
	fmt.Printf("  %-28s %s\n", "<input.elan>", "Elan source file to translate")
	fmt.Printf("  %-28s %s\n", "[output.py]", "output path; defaults to 'output.py'")
	fmt.Println()
	fmt.Println("Only the default output name is ever overwritten; any other output")
	fmt.Println("path that already exists is left untouched.")
	fmt.Println()

	// Flags
	fmt.Println(styles.HEADING("Options:"))

	// We want to group aliases like -h and -help together
	printed := make(map[string]bool)

	flag.VisitAll(func(f *flag.Flag) {
		if printed[f.Name] {
			return
		}

		// Identify aliases based on shared usage strings.
		aliases := []string{f.Name}
		flag.VisitAll(func(p *flag.Flag) {
			if p.Name == f.Name {
				return
			}
			if p.Usage == f.Usage {
				aliases = append(aliases, p.Name)
				printed[p.Name] = true
			}
		})
		printed[f.Name] = true

		// Separate short and long flags
		var shortFlags, longFlags []string
		for _, name := range aliases {
			if len(name) == 1 {
				shortFlags = append(shortFlags, "-"+name)
			} else {
				longFlags = append(longFlags, "-"+name)
			}
		}

		// Construct the flag string: short flags first, then long flags
		flagStr := ""
		if len(shortFlags) > 0 {
			flagStr = strings.Join(shortFlags, ", ")
		}
		if len(longFlags) > 0 {
			if flagStr != "" {
				flagStr += ", "
			}
			flagStr += strings.Join(longFlags, ", ")
		}

		// Check if the flag takes an argument
		argName, usage := flag.UnquoteUsage(f)
		if argName != "" {
			flagStr += " <" + argName + ">"
		}

		fmt.Printf("  %-28s %s\n", flagStr, usage)
	})

	fmt.Println()
	fmt.Println(styles.HEADING("Examples:"))
	fmt.Printf("  %-40s %s\n", "elan2py program.elan", "translate to output.py")
	fmt.Printf("  %-40s %s\n", "elan2py program.elan converted.py", "translate to converted.py")
	fmt.Printf("  %-40s %s\n", "elan2py", "print the built-in demonstration")
	fmt.Printf("  %-40s %s\n", "elan2py -play", "live translation playground")
}

func initializeLogger(cfg config.Config) (*zap.Logger, error) {
	logLevel, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if cfg.FreshLog {
		_ = core.CleanLogFiles()
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		"zstd://" + core.LogFile(),
	}
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}
