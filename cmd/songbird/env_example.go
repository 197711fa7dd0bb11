package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type envSection struct {
	title string
	flags []string
}

var envSections = []envSection{
	{"YouTube", []string{"youtube-proxy", "youtube-request-timeout", "youtube-requests-per-second"}},
	{"Spotify (optional, enables track links)", []string{"spotify-client-id", "spotify-client-secret"}},
	{"HTTP Server", []string{"server-host", "server-port", "flood-limit-per-minute"}},
	{"Track Cache", []string{
		"cache-size", "cache-false-positive-rate",
		"cache-redis-addr", "cache-redis-password", "cache-redis-db", "cache-ttl",
	}},
	{"Localization", []string{"language"}},
	{"Logging", []string{"log-level", "log-format", "log-file"}},
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# songbird Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: " + envPrefix + "_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n\n")

	for _, section := range envSections {
		generateSection(&content, cmd, section)
	}

	return content.String()
}

func generateSection(content *strings.Builder, cmd *cobra.Command, section envSection) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	fmt.Fprintf(content, "# %s\n", section.title)
	content.WriteString("# -----------------------------------------------------------------------------\n")

	for _, name := range section.flags {
		f := cmd.Root().PersistentFlags().Lookup(name)
		if f == nil {
			continue
		}
		fmt.Fprintf(content, "# %s (--%s)\n", f.Usage, name)
		fmt.Fprintf(content, "%s=%s\n", flagToEnvVar(name), getDefaultValueString(cmd, name))
	}
	content.WriteString("\n")
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.Root().PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}
