package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/humed/photoqueue/internal/app"
	"github.com/humed/photoqueue/internal/auth"
	"github.com/humed/photoqueue/internal/logger"
	"github.com/humed/photoqueue/pkg/sheets"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

// showStartupBanner displays the PhotoQueue logo, optionally followed
// by a shutter countdown
func showStartupBanner(skipCountdown bool) {
	width := 62
	border := ""
	for i := 0; i < width; i++ {
		border += "═"
	}

	logo := []string{
		"   ____  _           _         ___                            ",
		"  |  _ \\| |__   ___ | |_ ___  / _ \\ _   _  ___ _   _  ___    ",
		"  | |_) | '_ \\ / _ \\| __/ _ \\| | | | | | |/ _ \\ | | |/ _ \\   ",
		"  |  __/| | | | (_) | || (_) | |_| | |_| |  __/ |_| |  __/   ",
		"  |_|   |_| |_|\\___/ \\__\\___/ \\__\\_\\\\__,_|\\___|\\__,_|\\___|   ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		for len(line) < width {
			line += " "
		}
		if len(line) > width {
			line = line[:width]
		}
		fmt.Printf("  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n", cyan, border, reset)

	if skipCountdown {
		fmt.Print("\n")
		return
	}

	// Shutter countdown: 3.. 2.. 1.. flash
	frames := []string{
		"                      [ ● ]  3                      ",
		"                      [ ● ]  2                      ",
		"                      [ ● ]  1                      ",
		"                      [ ◎ ]  *click*                ",
	}
	for i, frame := range frames {
		color := yellow
		if i == len(frames)-1 {
			color = bold + green
		}
		fmt.Printf("%s  %s%s%s\r", clearLine, color, frame, reset)
		time.Sleep(350 * time.Millisecond)
	}
	fmt.Printf("%s\n", clearLine)
}

var (
	version = "dev"
)

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	current := appLog.GetLevel()
	var next string

	switch current.String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sd%s      - Open dashboard in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "photoqueue.db", "SQLite database path")
	adminPw := flag.String("adminpw", "", "Operator password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	sheetsURL := flag.String("sheets-url", "", "Spreadsheet exporter endpoint URL (export disabled if not set)")
	superAdmin := flag.String("superadmin", "", "Identifier to seed as super admin when none are configured")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip shutter countdown")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `PhotoQueue - Walk-in Photobooth Queue System

Usage:
  photoqueue [options]

Options:
  -port int        HTTP server port (default 8080)
  -db string       SQLite database path (default "photoqueue.db")
  -adminpw str     Operator password (auto-generated if not set)
  -loglevel str    Log level: debug, info, warn, error (default "info")
  -sheets-url str  Spreadsheet exporter endpoint URL
  -superadmin str  Identifier to seed as super admin when none exist
  -noanimate       Show logo only, skip shutter countdown
  -nokeyboard      Disable keyboard shortcuts
  -version         Show version and exit
  -help            Show this help message

Keyboard Shortcuts (when enabled):
  d                Open dashboard in browser
  h                Toggle HTTP request logging
  l                Cycle log level (debug → info → warn → error)
  q                Quit server
  ?                Show keyboard help

Examples:
  photoqueue                               # Run on port 8080 with photoqueue.db
  photoqueue -port 8081                    # Run on port 8081
  photoqueue -db /data/event.db            # Use custom database path
  photoqueue -adminpw secret123            # Use specific operator password
  photoqueue -superadmin kepala-sekolah    # Seed the first super admin
  photoqueue -sheets-url https://sheets.example.com/exec

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("photoqueue %s\n", version)
		os.Exit(0)
	}

	showStartupBanner(*noAnimate)

	// Create logger with specified level
	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	// Setup operator authentication. Role resolution goes through the
	// membership store, which is bound to the config service in app.New.
	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	membership := app.NewMembershipStore()
	adminAuth := auth.New(password, membership)

	// Spreadsheet exporter client. With no URL configured every export
	// attempt fails fast and is logged, nothing else breaks.
	sheetsClient := sheets.NewHTTPClient(*sheetsURL, appLog)

	a, err := app.New(appLog, *dbPath, sheetsClient, adminAuth, membership)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	// Seed the first super admin so the configuration API is reachable
	if *superAdmin != "" {
		seedSuperAdmin(a, appLog, *superAdmin)
	}

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Operator password", "password", password)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	dashboardURL := fmt.Sprintf("http://localhost:%d/dashboard", *port)

	// Print keyboard shortcuts and start listener (unless disabled)
	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(dashboardURL, appLog)
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	if err := <-serverErr; err != nil {
		log.Fatal(err)
	}
}

// seedSuperAdmin adds the identifier to the super admin set if the set
// is still empty. An already populated set is left alone.
func seedSuperAdmin(a *app.App, appLog *logger.SlogLogger, identifier string) {
	ctx := context.Background()

	existing, err := a.Config().GetSuperAdmins(ctx)
	if err != nil {
		appLog.Warn("Failed to read super admins during seeding", "error", err)
		return
	}
	if len(existing) > 0 {
		appLog.Info("Super admins already configured, skipping seed")
		return
	}

	if err := a.Config().SetSuperAdmins(ctx, identifier, []string{identifier}); err != nil {
		appLog.Warn("Failed to seed super admin", "error", err)
		return
	}
	appLog.Info("Seeded super admin", "identifier", identifier)
}
