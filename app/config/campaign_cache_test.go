package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCampaignFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadValidCampaign(t *testing.T) {
	tempDir := t.TempDir()

	content := `
city: "Rosario"
keywords:
  - "inmobiliaria"
  - "propiedades"

settings:
  enabled: true
  limit_per_keyword: 30
  scrape_interval: 3600
  auto_analyze: true
`
	writeCampaignFile(t, tempDir, "rosario.yml", content)

	cache := NewCampaignCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	campaign, err := cache.GetCampaign("rosario")
	if err != nil {
		t.Fatal(err)
	}

	if campaign.Name != "rosario" {
		t.Errorf("Expected name 'rosario', got '%s'", campaign.Name)
	}
	if campaign.City != "Rosario" {
		t.Errorf("Expected city 'Rosario', got '%s'", campaign.City)
	}
	if campaign.Province != "Santa Fe" {
		t.Errorf("Expected province 'Santa Fe' from the city table, got '%s'", campaign.Province)
	}
	if len(campaign.Keywords) != 2 {
		t.Errorf("Expected 2 keywords, got %d", len(campaign.Keywords))
	}
	if campaign.Settings.LimitPerKeyword != 30 {
		t.Errorf("Expected limit 30, got %d", campaign.Settings.LimitPerKeyword)
	}
	if campaign.Settings.GetScrapeInterval() != 3600*time.Second {
		t.Errorf("Expected scrape interval 3600s, got %v", campaign.Settings.GetScrapeInterval())
	}
	if !campaign.Settings.AutoAnalyze {
		t.Error("Expected auto_analyze to be enabled")
	}
}

func TestLoadCampaignWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
city: "Mendoza"

settings:
  enabled: true
`
	writeCampaignFile(t, tempDir, "mendoza.yml", content)

	cache := NewCampaignCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	campaign, err := cache.GetCampaign("mendoza")
	if err != nil {
		t.Fatal(err)
	}

	if campaign.Settings.LimitPerKeyword != 20 {
		t.Errorf("Expected default limit 20, got %d", campaign.Settings.LimitPerKeyword)
	}
	if campaign.Settings.GetScrapeInterval() != 86400*time.Second {
		t.Errorf("Expected default scrape interval 86400s, got %v", campaign.Settings.GetScrapeInterval())
	}
	if len(campaign.Keywords) == 0 {
		t.Error("Expected default keyword list to be applied")
	}
	if campaign.Settings.AutoAnalyze {
		t.Error("Expected auto_analyze to default to disabled")
	}
}

func TestInvalidCampaign(t *testing.T) {
	tempDir := t.TempDir()

	// Missing city
	content := `
settings:
  enabled: true
`
	writeCampaignFile(t, tempDir, "invalid.yml", content)

	cache := NewCampaignCache(tempDir)
	if err := cache.Run(); err == nil {
		t.Error("Expected error for invalid campaign")
	}
}

func TestEmptyDirectory(t *testing.T) {
	tempDir := t.TempDir()

	cache := NewCampaignCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if cache.GetCampaignCount() != 0 {
		t.Errorf("Expected 0 campaigns from empty directory, got %d", cache.GetCampaignCount())
	}
}

func TestGetEnabledCampaigns(t *testing.T) {
	tempDir := t.TempDir()

	writeCampaignFile(t, tempDir, "on.yml", "city: \"Rosario\"\nsettings:\n  enabled: true\n")
	writeCampaignFile(t, tempDir, "off.yml", "city: \"Salta\"\nsettings:\n  enabled: false\n")

	cache := NewCampaignCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if cache.GetCampaignCount() != 2 {
		t.Fatalf("Expected 2 campaigns, got %d", cache.GetCampaignCount())
	}

	enabled := cache.GetEnabledCampaigns()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled campaign, got %d", len(enabled))
	}
	if _, ok := enabled["on"]; !ok {
		t.Error("Expected campaign 'on' to be enabled")
	}
}
