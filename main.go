package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"rv32sim/config"
	"rv32sim/dashboard"
	"rv32sim/loader"
	"rv32sim/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		tuiMode     = flag.Bool("tui", false, "Run with a live terminal dashboard instead of batch mode")
		configFile  = flag.String("config", "", "Path to a TOML config file (default: platform config dir)")
		maxInsns    = flag.Uint64("max-insns", 0, "Maximum instructions before halt (0: use config default)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")

		enableTrace = flag.Bool("trace", false, "Enable per-instruction execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")

		statsFile   = flag.String("stats-file", "", "Predictor statistics output file, '-' for stdout (default: from config)")
		statsFormat = flag.String("stats-format", "", "Predictor statistics format: json, csv, html (default: from config)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("rv32sim %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: missing ELF program argument")
		fmt.Fprintln(os.Stderr, "Usage: rv32sim [flags] <program.elf>")
		os.Exit(1)
	}
	elfPath := flag.Arg(0)

	cfg, err := loadConfig(*configFile, *verboseMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	machine := vm.NewVM()
	machine.MaxInstructions = cfg.Execution.MaxInstructions
	if *maxInsns > 0 {
		machine.MaxInstructions = *maxInsns
	}

	info, symbols, err := loader.LoadELF(machine, elfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}
	machine.EntryPoint = loader.FindEntryPoint(symbols, machine.EntryPoint)
	machine.Bootstrap()

	if *verboseMode {
		fmt.Printf("Loaded %s\n", elfPath)
		fmt.Printf("Text segment: 0x%08x - 0x%08x\n", info.TextStart, info.TextEnd)
		fmt.Printf("Entry point: 0x%08x\n", machine.EntryPoint)
		fmt.Printf("Symbols: %d\n", len(symbols))
	}

	if *enableTrace {
		tracePath := *traceFile
		if tracePath == "" {
			tracePath = filepath.Join(config.GetLogPath(), "trace.log")
		}
		traceWriter, err := os.Create(tracePath) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := traceWriter.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close trace file: %v\n", err)
			}
		}()
		machine.Trace = traceWriter

		if *verboseMode {
			fmt.Printf("Execution trace enabled: %s\n", tracePath)
		}
	}

	if *tuiMode {
		if err := dashboard.New(machine).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
			os.Exit(1)
		}
	} else {
		runErr := machine.Run()
		if runErr != nil && machine.State != vm.StateHalted {
			fmt.Fprintf(os.Stderr, "Execution fault: %v\n", runErr)
			os.Exit(1)
		}
	}

	if *verboseMode {
		fmt.Println(machine.DumpState())
	}

	if err := writeStatsReport(machine, cfg, *statsFile, *statsFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing statistics: %v\n", err)
		os.Exit(1)
	}

	os.Exit(int(machine.GetExitCode()))
}

func loadConfig(path string, verbose bool) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("Using config: %s\n", config.GetConfigPath())
	}
	return cfg, nil
}

func writeStatsReport(machine *vm.VM, cfg *config.Config, file, format string) error {
	if format == "" {
		format = cfg.Statistics.Format
	}
	if file == "" {
		file = cfg.Statistics.OutputFile
	}

	var out *os.File
	if file == "" || file == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(file) // #nosec G304 -- user-specified statistics output path
		if err != nil {
			return fmt.Errorf("create stats file: %w", err)
		}
		defer f.Close()
		out = f
	}

	report := machine.Predictors.Report()
	switch format {
	case "csv":
		return report.ExportCSV(out)
	case "html":
		return report.ExportHTML(out)
	default:
		return report.ExportJSON(out)
	}
}

func printHelp() {
	fmt.Println(`rv32sim - RV32IM instruction set simulator with branch predictor evaluation

Usage:
  rv32sim [flags] <program.elf>

Flags:`)
	flag.PrintDefaults()
	fmt.Println(`
The program argument must be a statically linked, 32-bit RISC-V ELF
executable. On completion rv32sim writes a branch predictor accuracy
report (NT, BTFNT, bimodal, gshare across table sizes 256/1024/4096/
16384) to the statistics file (stats.json unless configured otherwise)
and exits with the program's own exit code.`)
}
