package main

import (
	"fmt"
	"os"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/config"
)

const (
	cmdLookup  = "lookup"
	cmdSearch  = "search"
	cmdCredits = "credits"
)

// options is the parsed command line.
type options struct {
	cfg        config.Config
	configPath string
	command    string
	download   bool
	args       []string
}

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs(args []string) (options, error) {
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return options{}, initConfigFile()
		}
	}

	opts := options{command: cmdLookup}

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--config requires a path argument")
			}
			opts.configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(opts.configPath)
	if err != nil {
		return options{}, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.configPath == "" {
		opts.configPath = config.FindConfigFile()
	}

	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		next := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires an argument", arg)
			}
			i++
			return args[i], nil
		}

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--download", "-d":
			opts.download = true

		case "--quality", "-q":
			v, err := next()
			if err != nil {
				return options{}, err
			}
			cfg.QualityTier = v

		case "--output", "-o":
			v, err := next()
			if err != nil {
				return options{}, err
			}
			cfg.OutputDir = config.ExpandHome(v)

		case "--limit", "-l":
			v, err := next()
			if err != nil {
				return options{}, err
			}
			var limit int
			if _, err := fmt.Sscanf(v, "%d", &limit); err != nil {
				return options{}, fmt.Errorf("invalid search limit: %s", v)
			}
			cfg.SearchLimit = limit

		case "--lyrics":
			cfg.EmbedLyrics = true

		case "--config", "-c":
			i++

		default:
			if len(arg) > 1 && arg[0] == '-' {
				return options{}, fmt.Errorf("unknown flag: %s", arg)
			}
			positional = append(positional, arg)
		}
	}

	if len(positional) > 0 && (positional[0] == cmdSearch || positional[0] == cmdCredits) {
		opts.command = positional[0]
		positional = positional[1:]
	}

	switch opts.command {
	case cmdSearch:
		if len(positional) < 2 {
			return options{}, fmt.Errorf("usage: qobuz search <track|album|playlist|artist|label> <query>")
		}
	case cmdCredits:
		if len(positional) != 1 {
			return options{}, fmt.Errorf("usage: qobuz credits <track-id>")
		}
	default:
		if len(positional) != 1 {
			return options{}, fmt.Errorf("expected exactly one Qobuz URL, got %d arguments", len(positional))
		}
	}

	opts.cfg = cfg
	opts.args = positional
	return opts, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nEdit it to add your Qobuz credentials. Available options:")
	fmt.Println("  username, password: Qobuz account email and password")
	fmt.Println("  user_id, auth_token: use a saved token instead of a password")
	fmt.Println("  quality_tier: minimum, low, medium, high, lossless, hifi")
	fmt.Println("  quality_format: album quality label, e.g. \"{sample_rate}kHz {bit_depth}bit\"")
	fmt.Println("  parallel_jobs: 1-10 (number of parallel downloads)")
	fmt.Println("  embed_lyrics, embed_cover: true/false")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("qobuz - Look up and download music from Qobuz")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  qobuz [options] <qobuz_url>              Show a track, album, playlist, artist or label")
	fmt.Println("  qobuz [options] -d <qobuz_url>           Download it")
	fmt.Println("  qobuz [options] search <type> <query>    Search the catalog")
	fmt.Println("  qobuz [options] credits <track_id>       Show track credits")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -d, --download             Download the tracks behind the URL")
	fmt.Println("  -q, --quality <tier>       minimum, low, medium, high, lossless, hifi (default: hifi)")
	fmt.Println("  -o, --output <dir>         Output directory (default: ~/Music/Qobuz)")
	fmt.Println("  -l, --limit <n>            Number of search results (default: 10)")
	fmt.Println("      --lyrics               Embed lyrics from LRCLib")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./qobuz.yaml")
	fmt.Println("  ~/.config/orpheusdl-qobuz/config.yaml")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  qobuz https://open.qobuz.com/album/0060254735180")
	fmt.Println("  qobuz -d -q lossless https://open.qobuz.com/track/52151405")
	fmt.Println("  qobuz search album \"kind of blue\"")
	fmt.Println("  qobuz credits 52151405")
}
