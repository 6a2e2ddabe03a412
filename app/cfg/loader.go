package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/leads.db" description:"Path to the SQLite database file"`

	// Application configuration
	CampaignsDir      string `long:"campaigns-dir" env:"CAMPAIGNS_DIR" default:"./campaigns" description:"Directory containing campaign configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for scraping and analysis"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	ProbeTimeout      int    `long:"probe-timeout" env:"PROBE_TIMEOUT" default:"15" description:"Website probe timeout in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Collaborator credentials
	SerpAPIKey    string `long:"serpapi-key" env:"SERPAPI_KEY" description:"SerpAPI key for Google Maps scraping"`
	GHLAPIKey     string `long:"ghl-api-key" env:"GHL_API_KEY" description:"GoHighLevel API key"`
	GHLLocationID string `long:"ghl-location-id" env:"GHL_LOCATION_ID" description:"GoHighLevel location ID"`
	GHLWorkflowID string `long:"ghl-workflow-id" env:"GHL_WORKFLOW_ID" description:"GoHighLevel workflow to trigger after export (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Lead Radar/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"America/Argentina/Buenos_Aires" description:"Timezone for timestamps"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		CampaignsDir:      raw.CampaignsDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		ProbeTimeout:      raw.ProbeTimeout,
		APIAccessKey:      raw.APIAccessKey,
		SerpAPIKey:        raw.SerpAPIKey,
		GHLAPIKey:         raw.GHLAPIKey,
		GHLLocationID:     raw.GHLLocationID,
		GHLWorkflowID:     raw.GHLWorkflowID,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
