package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"vaultpnl/internal/config"
	"vaultpnl/pkg/confkit"
	"vaultpnl/pkg/source"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Redis: %s", presence(cfg.RedisEnabled())),
		fmt.Sprintf("Default range: %d days", cfg.DefaultRangeDays),
		fmt.Sprintf("Metrics cache (ttl/bucket/window): %ds / %ds / %dd",
			cfg.Metrics.TTL, cfg.Metrics.Bucket, cfg.Metrics.WindowDays),
		fmt.Sprintf("Embed cache: %ds", cfg.EmbedCacheSeconds),
		sectionLine("Source config", cfg.Source),
	}
	if cfg.Source.Value != nil {
		lines = append(lines, providerLines(cfg.Source.Value)...)
	}
	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func providerLines(cfg *source.Config) []string {
	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		p := cfg.Providers[name]
		if p == nil {
			continue
		}
		var roles []string
		if name == cfg.Default {
			roles = append(roles, "default")
		}
		if name == cfg.Series {
			roles = append(roles, "series")
		}
		line := fmt.Sprintf("Provider %s: type=%s", name, p.Type)
		if len(roles) > 0 {
			line += " (" + strings.Join(roles, ", ") + ")"
		}
		if p.DSN != "" {
			line += " dsn=" + presence(true)
		}
		lines = append(lines, line)
	}
	return lines
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
