package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/spot-tools-mcp/internal/config"
	"github.com/ironsheep/spot-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "spot-tools-mcp - MCP server for spot pixel enumeration and measurement")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: spot-tools-mcp [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintln(out, "  SPOT_MCP_LOG_LEVEL=debug     Enable debug logging")
	fmt.Fprintln(out, "  SPOT_MCP_CONFIG=<path>       Configuration file (overridden by --config)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(out, "Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	var (
		showVersion bool
		configPath  string
		writeConfig string
	)
	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&showVersion, "v", false, "Print version information (shorthand)")
	flag.StringVar(&configPath, "config", os.Getenv("SPOT_MCP_CONFIG"), "YAML configuration file")
	flag.StringVar(&writeConfig, "write-config", "", "Write the default configuration to this path and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("spot-tools-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if writeConfig != "" {
		if err := config.CreateDefaultConfigFile(writeConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote default configuration to %s\n", writeConfig)
		return
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	debug := os.Getenv("SPOT_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Spot MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		if configPath != "" {
			log.Printf("Using config %s", configPath)
		}
	}

	server.Version = Version
	srv := server.New(cfg)
	srv.SetDebug(debug)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
