package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/icon-mosaic/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.WithError(err).Fatal("icon-mosaic failed")
	}
}

func run(args []string) error {
	// Handle --version and --help before touching the environment
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			printVersion(os.Stdout)
			return nil
		case "--help", "-h", "help":
			printHelp(os.Stdout)
			return nil
		}
	}

	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "generate":
		opts, err := parseGenerateFlags(args, cfg, os.Stderr)
		if err != nil {
			return err
		}
		return runGenerate(ctx, opts, os.Stdout)
	case "serve":
		return runServe(ctx, args, cfg)
	default:
		printHelp(os.Stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runServe(ctx context.Context, args []string, cfg *config) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	assets := fs.String("assets", cfg.AssetsDir, "icon directory to load at startup (default $"+envAssets+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("icon-mosaic MCP server starting")

	srv := server.New(Version)
	if *assets != "" {
		dir, err := expandPath(*assets)
		if err != nil {
			return err
		}
		if _, err := srv.LoadLibrary(ctx, dir); err != nil {
			return fmt.Errorf("loading assets: %w", err)
		}
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "icon-mosaic %s\n", Version)
	fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "icon-mosaic - turn images into mosaics of icons")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  icon-mosaic [serve] [-assets DIR]")
	fmt.Fprintln(w, "  icon-mosaic generate -assets DIR -input FILE -output FILE [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'icon-mosaic generate -h' for the generate options.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  "+envLogLevel+"=debug    Log level (default info)")
	fmt.Fprintln(w, "  "+envAssets+"=DIR        Default icon directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "serve communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it as a stdio server in your MCP client.")
}
