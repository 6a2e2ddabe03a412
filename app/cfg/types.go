package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	CampaignsDir      string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	ProbeTimeout      int
	APIAccessKey      string

	// Collaborator credentials
	SerpAPIKey    string
	GHLAPIKey     string
	GHLLocationID string
	GHLWorkflowID string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
