package wizard

import (
	"strings"

	"github.com/specfuzzer/specfuzzer/internal/config"
	"github.com/specfuzzer/specfuzzer/internal/tui/common"
)

func textField(label, placeholder, hint, value string, validate func(string) error) *common.TextInput {
	in := common.NewTextInput(label, placeholder, hint)
	in.Input.SetValue(value)
	in.Validate = validate
	return &in
}

// NewServicePage collects the analysis service settings.
func NewServicePage(base *config.Config) Page {
	backend := textField("Analysis service URL", config.DefaultBackendURL, "(required)",
		base.BackendURL, config.ValidateHTTPURL)
	target := textField("Target base URL", "https://api.example.com", "(optional, the API under test)",
		base.TargetBaseURL, config.ValidateOptionalHTTPURL)

	return &formPage{
		title:   "Analysis Service",
		heading: "Where specs are sent for analysis",
		fields:  []field{backend, target},
		apply: func(cfg *config.Config) {
			cfg.BackendURL = strings.TrimSpace(backend.Value())
			cfg.TargetBaseURL = strings.TrimSpace(target.Value())
		},
	}
}

// NewFrontEndPage collects dashboard, intake and logging settings.
func NewFrontEndPage(base *config.Config) Page {
	addr := textField("Dashboard address", config.DefaultDashboardAddr, "(host:port)",
		base.Dashboard.Addr, config.ValidateHostPort)
	startDir := textField("File picker start directory", "", "(optional, defaults to the working directory)",
		base.Intake.StartDir, config.ValidateOptionalDir)
	exclusive := NewToggle("Exclusive uploads",
		"Reject new files while a request is in flight instead of letting the last response win",
		base.Intake.ExclusiveUploads)
	level := textField("Log level", "info", "(debug, info, warn, error)",
		base.LogLevel, config.ValidateLogLevel)
	logFile := textField("Log file", "", "(optional, the terminal UI does not log without one)",
		base.LogFile, nil)

	return &formPage{
		title:   "Front Ends",
		heading: "Dashboard, file intake and logging",
		fields:  []field{addr, startDir, exclusive, level, logFile},
		apply: func(cfg *config.Config) {
			cfg.Dashboard.Addr = strings.TrimSpace(addr.Value())
			cfg.Intake.StartDir = strings.TrimSpace(startDir.Value())
			cfg.Intake.ExclusiveUploads = exclusive.Enabled
			cfg.LogLevel = strings.TrimSpace(level.Value())
			cfg.LogFile = strings.TrimSpace(logFile.Value())
		},
	}
}
