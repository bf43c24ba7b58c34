package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qrgen/qrgen/api"
	"github.com/qrgen/qrgen/cli"
	"github.com/qrgen/qrgen/config"
	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/generator"
	"github.com/qrgen/qrgen/output"
	"github.com/qrgen/qrgen/payload"
	"github.com/qrgen/qrgen/store"
)

// globalFlags are shared by every command. Zero values (and -1 for border)
// leave the configured value in place.
type globalFlags struct {
	configPath string
	dir        string
	size       int
	border     int
	level      string
	engine     string
	terminal   bool
	noHistory  bool
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "qrgen.yaml", "Path to config file")
	pf.StringVarP(&f.dir, "dir", "d", "", "Output directory (default qr_codes)")
	pf.IntVarP(&f.size, "size", "s", 0, "Module size in pixels (5, 10, 15 or 20 in the form)")
	pf.IntVar(&f.border, "border", -1, "Quiet zone width in modules")
	pf.StringVarP(&f.level, "level", "l", "", "Error correction level: L, M, Q or H")
	pf.StringVar(&f.engine, "encoder", "", "Encoding engine: skip2 or boombuler")
	pf.BoolVarP(&f.terminal, "terminal", "t", false, "Also print the code to the terminal")
	pf.BoolVar(&f.noHistory, "no-history", false, "Do not record generations in the history database")
}

// app is the wired set of components a command runs against.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	opts    encoder.Options
	service *generator.Service
	history *store.HistoryStore
}

// setup loads config, applies flag overrides and builds the generator
// service. Logs go to stderr so stdout carries only user-facing lines.
func setup(f *globalFlags) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.dir != "" {
		cfg.OutputDir = f.dir
	}
	if f.size != 0 {
		cfg.ModuleSize = f.size
	}
	if f.border >= 0 {
		cfg.Border = f.border
	}
	if f.level != "" {
		cfg.Level = f.level
	}
	if f.engine != "" {
		cfg.Engine = f.engine
	}
	if f.noHistory {
		cfg.HistoryEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	enc, err := encoder.New(cfg.Engine)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:  cfg,
		log:  log,
		opts: opts,
		service: &generator.Service{
			Encoder:  enc,
			Writer:   output.NewWriter(cfg.OutputDir),
			Notifier: generator.NewWebhookSender(cfg.WebhookURL, cfg.WebhookTimeout.Duration, log),
			Log:      log,
		},
	}

	if cfg.HistoryEnabled {
		if err := cfg.EnsureDataDir(); err != nil {
			log.Warn("history disabled", "error", err)
			return a, nil
		}
		hs, err := store.Open(cfg.HistoryPath())
		if err != nil {
			// Generation still works without history.
			log.Warn("history disabled", "error", err)
			return a, nil
		}
		a.history = hs
		a.service.History = hs
	}
	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Error("close history", "error", err)
		}
	}
}

// runInteractive shows the menu. The closing pause only happens on a real
// console, where the window would otherwise vanish.
func runInteractive(cmd *cobra.Command, f *globalFlags) error {
	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.Close()

	it := &cli.Interactive{
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Service: a.service,
		Options: a.opts,
		Pause:   isTerminal(cmd.InOrStdin()),
	}
	return it.Run(cmd.Context())
}

// isTerminal reports whether r is a console.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runSingle writes one image and prints the outcome lines.
func runSingle(cmd *cobra.Command, f *globalFlags, kind payload.Kind, content, filename string) error {
	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	res, err := a.service.Generate(cmd.Context(), generator.Request{
		Kind:     kind,
		Content:  content,
		Filename: filename,
		Options:  a.opts,
	})
	if err != nil {
		cli.PrintFailure(out, err)
		return errReported
	}
	cli.PrintGenerated(out, res)
	if f.terminal {
		fmt.Fprintln(out)
		encoder.PrintTerminal(out, res.Content, a.opts.Level, a.opts.Border)
	}
	return nil
}

// runBuilt builds a typed payload and writes it. Input errors are reported
// like generation failures.
func runBuilt(cmd *cobra.Command, f *globalFlags, kind payload.Kind, fields payload.Fields, filename string) error {
	content, err := payload.Build(kind, fields)
	if err != nil {
		cli.PrintFailure(cmd.OutOrStdout(), err)
		return errReported
	}
	return runSingle(cmd, f, kind, content, filename)
}

// runBatch generates one image per non-empty line of path, or of stdin
// when path is "-".
func runBatch(cmd *cobra.Command, f *globalFlags, path string) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ File not found: %s\n", path)
				return errReported
			}
			return err
		}
		defer file.Close()
		r = file
	}

	lines, err := generator.ReadLines(r)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "✗ No items entered")
		return errReported
	}

	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.service.Batch(cmd.Context(), lines, a.opts)
	cli.PrintBatch(cmd.OutOrStdout(), report)
	if report.Succeeded() == 0 {
		return errReported
	}
	return nil
}

// runServe starts the form server and blocks until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, f *globalFlags, listen string) error {
	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.Close()

	if listen == "" {
		listen = a.cfg.Listen
	}

	apiSrv := &api.Server{
		Service:   a.service,
		Defaults:  a.opts,
		Log:       a.log,
		Version:   version,
		StartTime: time.Now(),
	}
	if a.history != nil {
		apiSrv.History = a.history
	}

	srv := &http.Server{
		Addr:         listen,
		Handler:      api.NewRouter(apiSrv),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", "addr", srv.Addr, "output_dir", a.cfg.OutputDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "QR Code Generator running at http://%s/\n", listen)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	case <-quit:
	}

	a.log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("HTTP server shutdown error", "error", err)
	}

	a.log.Info("goodbye")
	return nil
}

// runStatus queries the status endpoint of a running form server.
func runStatus(cmd *cobra.Command, addr string) error {
	resp, err := http.Get(addr + "/status")
	if err != nil {
		return fmt.Errorf("failed to reach server at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return nil
}

// runHistory lists recent generations, or those matching query.
func runHistory(cmd *cobra.Command, f *globalFlags, query string, limit, offset int) error {
	a, err := setup(f)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.history == nil {
		return errors.New("history is disabled")
	}

	var gens []store.Generation
	if query != "" {
		gens, err = a.history.SearchGenerations(query, limit)
	} else {
		gens, err = a.history.ListGenerations(limit, offset)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(gens) == 0 {
		fmt.Fprintln(out, "No QR codes recorded")
		return nil
	}
	for _, g := range gens {
		ts := time.Unix(g.CreatedAt, 0).Format("2006-01-02 15:04:05")
		fmt.Fprintf(out, "%s  %-5s  %s -> %s\n", ts, g.Kind, g.Path, g.Content)
	}
	return nil
}

// runDecode prints the text stored in a QR image.
func runDecode(cmd *cobra.Command, path string) error {
	text, err := encoder.DecodeFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// --- payload commands --------------------------------------------------------

func urlCommand(f *globalFlags) *cobra.Command {
	var filename string
	cmd := &cobra.Command{
		Use:   "url [address]",
		Short: "Generate a QR code for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilt(cmd, f, payload.KindURL, payload.Fields{URL: args[0]}, filename)
		},
	}
	cmd.Flags().StringVarP(&filename, "output", "o", "", "File name (default timestamp)")
	return cmd
}

func emailCommand(f *globalFlags) *cobra.Command {
	var filename string
	var fields payload.Fields
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Generate a mailto: QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilt(cmd, f, payload.KindEmail, fields, filename)
		},
	}
	cmd.Flags().StringVar(&fields.To, "to", "", "Recipient address")
	cmd.Flags().StringVar(&fields.CC, "cc", "", "CC address")
	cmd.Flags().StringVar(&fields.Subject, "subject", "", "Subject line")
	cmd.Flags().StringVar(&fields.Body, "body", "", "Message body")
	cmd.Flags().StringVarP(&filename, "output", "o", "", "File name (default timestamp)")
	return cmd
}

func phoneCommand(f *globalFlags) *cobra.Command {
	var filename string
	cmd := &cobra.Command{
		Use:   "phone [number]",
		Short: "Generate a tel: QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilt(cmd, f, payload.KindPhone, payload.Fields{Number: args[0]}, filename)
		},
	}
	cmd.Flags().StringVarP(&filename, "output", "o", "", "File name (default timestamp)")
	return cmd
}

func smsCommand(f *globalFlags) *cobra.Command {
	var filename, body string
	cmd := &cobra.Command{
		Use:   "sms [number]",
		Short: "Generate an sms: QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilt(cmd, f, payload.KindSMS, payload.Fields{Number: args[0], Body: body}, filename)
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "Message text")
	cmd.Flags().StringVarP(&filename, "output", "o", "", "File name (default timestamp)")
	return cmd
}

func wifiCommand(f *globalFlags) *cobra.Command {
	var filename string
	var fields payload.Fields
	cmd := &cobra.Command{
		Use:   "wifi",
		Short: "Generate a WiFi network QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilt(cmd, f, payload.KindWiFi, fields, filename)
		},
	}
	cmd.Flags().StringVar(&fields.SSID, "ssid", "", "Network name")
	cmd.Flags().StringVar(&fields.Password, "password", "", "Network password")
	cmd.Flags().StringVar(&fields.Encryption, "encryption", "WPA", "WPA, WEP or nopass")
	cmd.Flags().StringVarP(&filename, "output", "o", "", "File name (default timestamp)")
	return cmd
}

func geoCommand(f *globalFlags) *cobra.Command {
	var filename string
	cmd := &cobra.Command{
		Use:   "geo [latitude] [longitude]",
		Short: "Generate a geo: location QR code",
		Example: "  qrgen geo 39.9042 116.4074\n" +
			"  qrgen geo -- -33.8688 151.2093",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilt(cmd, f, payload.KindGeo, payload.Fields{Latitude: args[0], Longitude: args[1]}, filename)
		},
	}
	cmd.Flags().StringVarP(&filename, "output", "o", "", "File name (default timestamp)")
	return cmd
}
