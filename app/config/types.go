package config

// Campaign is one scraping campaign preset loaded from a YAML file in the
// campaigns directory. Name is derived from the filename and is the cache
// key; it never comes from the file itself.
type Campaign struct {
	Name     string           `yaml:"-"`
	City     string           `yaml:"city"`
	Province string           `yaml:"province"`
	Keywords []string         `yaml:"keywords"`
	Settings CampaignSettings `yaml:"settings"`
}

type CampaignSettings struct {
	Enabled         bool `yaml:"enabled"`
	LimitPerKeyword int  `yaml:"limit_per_keyword"`
	ScrapeInterval  int  `yaml:"scrape_interval"` // seconds
	AutoAnalyze     bool `yaml:"auto_analyze"`
}
