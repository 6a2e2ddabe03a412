package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amerello/lead-radar/app/scraper"
)

type CampaignCache struct {
	campaignsDir string
	cache        map[string]*Campaign
	mu           sync.RWMutex
}

func NewCampaignCache(campaignsDir string) *CampaignCache {
	return &CampaignCache{
		campaignsDir: campaignsDir,
		cache:        make(map[string]*Campaign),
	}
}

func (cc *CampaignCache) Run() error {
	if _, err := os.Stat(cc.campaignsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.campaignsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive campaign name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		campaignName := strings.TrimSuffix(fileName, ".yml")

		campaign, err := cc.LoadCampaign(campaignName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Campaign loaded", "campaign", campaignName, "city", campaign.City, "enabled", campaign.Settings.Enabled, "keywords", len(campaign.Keywords))
	}

	return nil
}

func (cc *CampaignCache) LoadCampaign(campaignName string) (*Campaign, error) {
	campaignFile := cc.getCampaignFilePath(campaignName)
	campaign, err := cc.parseCampaign(campaignFile)
	if err != nil {
		return nil, err
	}

	campaign.Name = campaignName

	if err := cc.validateCampaign(campaign); err != nil {
		return nil, fmt.Errorf("invalid campaign %s: %w", campaignFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[campaign.Name] = campaign

	return campaign, nil
}

func (cc *CampaignCache) GetCampaign(campaignName string) (*Campaign, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	campaign, ok := cc.cache[campaignName]
	if !ok {
		return nil, fmt.Errorf("campaign with name '%s' not found", campaignName)
	}
	return campaign, nil
}

func (cc *CampaignCache) GetCampaigns() map[string]*Campaign {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	campaignsCopy := make(map[string]*Campaign, len(cc.cache))
	for k, v := range cc.cache {
		campaignsCopy[k] = v
	}
	return campaignsCopy
}

func (cc *CampaignCache) GetEnabledCampaigns() map[string]*Campaign {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledCampaigns := make(map[string]*Campaign)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledCampaigns[k] = v
		}
	}
	return enabledCampaigns
}

func (cc *CampaignCache) GetCampaignCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *CampaignCache) parseCampaign(campaignFile string) (*Campaign, error) {
	data, err := os.ReadFile(campaignFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var campaign Campaign
	if err := yaml.Unmarshal(data, &campaign); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if campaign.Settings.LimitPerKeyword == 0 {
		campaign.Settings.LimitPerKeyword = 20
	}
	if campaign.Settings.ScrapeInterval == 0 {
		campaign.Settings.ScrapeInterval = 86400
	}
	if len(campaign.Keywords) == 0 {
		campaign.Keywords = scraper.RealEstateKeywords
	}
	if campaign.Province == "" {
		if city, ok := scraper.LookupCity(campaign.City); ok {
			campaign.Province = city.Province
		}
	}

	return &campaign, nil
}

func (cc *CampaignCache) validateCampaign(campaign *Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is nil")
	}

	if campaign.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if campaign.City == "" {
		return fmt.Errorf("campaign city is required")
	}

	nonNegativeFields := map[string]int{
		"limit per keyword": campaign.Settings.LimitPerKeyword,
		"scrape interval":   campaign.Settings.ScrapeInterval,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, keyword := range campaign.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("keyword at index %d is empty", i)
		}
	}

	return nil
}

// GetScrapeInterval returns the scrape interval as time.Duration
func (s *CampaignSettings) GetScrapeInterval() time.Duration {
	if s.ScrapeInterval <= 0 {
		return 86400 * time.Second
	}
	return time.Duration(s.ScrapeInterval) * time.Second
}

func (cc *CampaignCache) getCampaignFilePath(campaignName string) string {
	return filepath.Join(cc.campaignsDir, campaignName+".yml")
}
