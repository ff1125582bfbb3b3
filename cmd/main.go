// pressle-logger reads the sensor board's serial stream, shows a live
// view of the last 200 samples and writes two CSV logs: telemetry while
// recording, events always.
//
// Usage:
//
//	pressle-logger [flags] [PORT [BAUD [CSV_PATH]]]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"pressle-logger/controller"
	"pressle-logger/services/ingest"
	"pressle-logger/ui"
	"pressle-logger/utils"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	port        string
	baud        int
	csvPath     string
	logFile     string
	logLevel    string
	headless    bool
	simulate    bool
	fsync       bool
	metricsAddr string
	listPorts   bool
}

func run(args []string) error {
	// ── CLI flags ────────────────────────────────────────────────────
	var opts options
	flagSet := newFlagSet(&opts)
	flagSet.SetOutput(os.Stderr)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.listPorts {
		ports, err := ingest.ListPorts()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	// ── Config ───────────────────────────────────────────────────────
	cfg, err := loadConfig(flagSet, opts)
	if err != nil {
		return err
	}

	// ── Logger ───────────────────────────────────────────────────────
	level, err := utils.ParseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := utils.InitLogger(level, opts.logFile, cfg.Display.Headless)
	defer logger.Close()

	utils.L().Info("Pressle logger  GOMAXPROCS=%d  PID=%d", runtime.GOMAXPROCS(0), os.Getpid())

	// ── Metrics ──────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	metrics := utils.NewMetrics(reg)
	if cfg.Metrics.ListenAddr != "" {
		srv := serveMetrics(cfg.Metrics.ListenAddr, reg)
		defer srv.Close()
	}

	// ── Transport ────────────────────────────────────────────────────
	transport, err := openTransport(cfg)
	if err != nil {
		return err
	}
	defer transport.Close()

	// ── Sinks ────────────────────────────────────────────────────────
	csvPath := cfg.Storage.CSVPath
	if csvPath == "" {
		csvPath = utils.DefaultCSVPath(cfg.Storage.SessionPrefix, time.Now())
	}
	state := controller.NewRecordingStateMachine(metrics)
	sinks, err := controller.OpenDualStreamLogger(csvPath, cfg.Storage.Fsync, state, metrics)
	if err != nil {
		return err
	}
	defer sinks.Close()

	session := controller.NewSession(transport, state, sinks, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Drive ────────────────────────────────────────────────────────
	tick := cfg.Display.TickInterval()
	if cfg.Display.Headless {
		intents := make(chan controller.Intent, 8)
		go controller.ReadIntents(ctx, os.Stdin, intents)
		err = controller.RunHeadless(ctx, session, intents, tick)
	} else {
		err = runLiveView(ctx, session, tick)
	}

	session.LogStats()
	telemetryRows, eventRows := sinks.Rows()
	fmt.Printf("\n✓ Pressle logger finished. %d telemetry rows in %s, %d events in %s\n",
		telemetryRows, sinks.TelemetryPath(), eventRows, sinks.EventsPath())
	return err
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("pressle-logger", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to logger.yaml (optional)")
	flagSet.StringVarP(&opts.port, "port", "p", "", "serial device, e.g. /dev/cu.usbmodem101")
	flagSet.IntVarP(&opts.baud, "baud", "b", 115200, "serial baud rate")
	flagSet.StringVarP(&opts.csvPath, "csv", "o", "", "telemetry CSV path (default pushup_data_<timestamp>.csv)")
	flagSet.StringVar(&opts.logFile, "log", "", "optional log file path")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flagSet.BoolVar(&opts.headless, "headless", false, "no live display; read commands from stdin")
	flagSet.BoolVar(&opts.simulate, "simulate", false, "use a simulated device instead of a serial port")
	flagSet.BoolVar(&opts.fsync, "fsync", true, "fsync every CSV row")
	flagSet.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flagSet.BoolVar(&opts.listPorts, "list-ports", false, "list serial ports and exit")
	return flagSet
}

// loadConfig layers the YAML file, then flags that were set, then the
// positional PORT [BAUD [CSV_PATH]] arguments.
func loadConfig(flagSet *pflag.FlagSet, opts options) (*utils.Config, error) {
	cfg := utils.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = utils.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if flagSet.Changed("port") {
		cfg.Serial.Port = opts.port
	}
	if flagSet.Changed("baud") {
		cfg.Serial.BaudRate = opts.baud
	}
	if flagSet.Changed("csv") {
		cfg.Storage.CSVPath = opts.csvPath
	}
	if flagSet.Changed("headless") {
		cfg.Display.Headless = opts.headless
	}
	if flagSet.Changed("simulate") {
		cfg.Simulation.Enabled = opts.simulate
	}
	if flagSet.Changed("fsync") {
		cfg.Storage.Fsync = opts.fsync
	}
	if flagSet.Changed("metrics-addr") {
		cfg.Metrics.ListenAddr = opts.metricsAddr
	}

	pos := flagSet.Args()
	if len(pos) > 3 {
		return nil, fmt.Errorf("unexpected argument: %s", pos[3])
	}
	if len(pos) > 0 {
		cfg.Serial.Port = pos[0]
	}
	if len(pos) > 1 {
		baud, err := strconv.Atoi(pos[1])
		if err != nil {
			return nil, fmt.Errorf("invalid baud rate %q: %w", pos[1], err)
		}
		cfg.Serial.BaudRate = baud
	}
	if len(pos) > 2 {
		cfg.Storage.CSVPath = pos[2]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openTransport(cfg *utils.Config) (io.ReadWriteCloser, error) {
	if cfg.Simulation.Enabled {
		return ingest.NewSimulatedDevice(cfg.Simulation, cfg.Serial.ReadTimeout()), nil
	}
	return ingest.OpenSerial(cfg.Serial)
}

func runLiveView(ctx context.Context, session *controller.Session, tick time.Duration) error {
	program := tea.NewProgram(ui.NewModel(session, tick), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && ctx.Err() == nil {
		return err
	}
	if m, ok := final.(ui.Model); ok {
		return m.Err()
	}
	return nil
}

func newMetricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	srv := &http.Server{Addr: addr, Handler: newMetricsRouter(reg), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.L().Error("metrics server: %v", err)
		}
	}()
	utils.L().Info("metrics on http://%s/metrics", addr)
	return srv
}
