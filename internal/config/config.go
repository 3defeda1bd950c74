package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Defaults for the fixed-size test protocol. All of these are threaded
// through as configuration, never as literals inside logic.
const (
	DefaultExpectedCount = 200
	DefaultGapUnits      = 5
	DefaultMaxPoints     = 500
	DefaultBaud          = 115200
	DefaultTXDeviceName  = "A72Aziz"
	DefaultAddr          = ":8080"

	DefaultReadTimeout      = 1 * time.Second
	DefaultSnapshotInterval = 100 * time.Millisecond
	DefaultRetryPause       = 100 * time.Millisecond
	DefaultJoinTimeout      = 2 * time.Second
)

// AnalyzeConfig holds configuration for the offline log analyzer.
type AnalyzeConfig struct {
	LogPaths      []string
	ExpectedCount int
	GapUnits      int
	TXDeviceName  string
	CSV           bool   // write <base>.csv next to each summary
	SQLitePath    string // optional sqlite export artifact, empty to disable
	PDFPath       string // optional PDF report artifact, empty to disable
	Debug         bool
}

// LiveConfig holds configuration for the live serial ingestion pipeline.
type LiveConfig struct {
	Port      string
	Baud      int
	MaxPoints int
	Addr      string
	MockMode  bool
	Debug     bool

	ReadTimeout      time.Duration
	SnapshotInterval time.Duration
	RetryPause       time.Duration
	JoinTimeout      time.Duration
}

// LoadAnalyze parses command line flags and environment variables for the
// offline analyzer. Flags take precedence over environment variables;
// positional arguments are the log file paths.
func LoadAnalyze() *AnalyzeConfig {
	cfg := &AnalyzeConfig{}

	cfg.ExpectedCount = getEnvInt("BLESCOPE_EXPECTED", DefaultExpectedCount)
	cfg.GapUnits = getEnvInt("BLESCOPE_GAP", DefaultGapUnits)
	cfg.TXDeviceName = getEnv("BLESCOPE_TX_DEVICE", DefaultTXDeviceName)

	flag.IntVar(&cfg.ExpectedCount, "expected", cfg.ExpectedCount, "Expected packet count per session")
	flag.IntVar(&cfg.GapUnits, "gap", cfg.GapUnits, "Index gap between sessions in the combined view")
	flag.StringVar(&cfg.TXDeviceName, "tx-device", cfg.TXDeviceName, "Sender device name column for record exports")
	flag.BoolVar(&cfg.CSV, "csv", false, "Write a <name>.csv record export per input file")
	flag.StringVar(&cfg.SQLitePath, "sqlite", "", "Path to a SQLite record export (empty to disable)")
	flag.StringVar(&cfg.PDFPath, "pdf", "", "Path to a PDF session report (empty to disable)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()
	cfg.LogPaths = flag.Args()

	return cfg
}

// LoadLive parses command line flags and environment variables for live
// mode. Flags take precedence over environment variables.
func LoadLive() *LiveConfig {
	cfg := &LiveConfig{
		ReadTimeout:      DefaultReadTimeout,
		SnapshotInterval: DefaultSnapshotInterval,
		RetryPause:       DefaultRetryPause,
		JoinTimeout:      DefaultJoinTimeout,
	}

	cfg.Port = getEnv("BLESCOPE_PORT", "")
	cfg.Baud = getEnvInt("BLESCOPE_BAUD", DefaultBaud)
	cfg.MaxPoints = getEnvInt("BLESCOPE_MAX_POINTS", DefaultMaxPoints)
	cfg.Addr = getEnv("BLESCOPE_ADDR", DefaultAddr)

	flag.StringVar(&cfg.Port, "port", cfg.Port, "Serial port (e.g., COM9 or /dev/ttyUSB0)")
	flag.IntVar(&cfg.Baud, "baud", cfg.Baud, "Baud rate")
	flag.IntVar(&cfg.MaxPoints, "max-points", cfg.MaxPoints, "Max number of points kept in the live buffer")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address for the live view")
	flag.BoolVar(&cfg.MockMode, "mock", false, "Run against a synthetic beacon stream (no hardware)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
