package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/store"
	"github.com/spf13/cobra"
)

// Version is the release string. Builds overwrite it via:
//
//	go build -ldflags "-X github.com/derickschaefer/streamify/cmd.Version=v0.3.1"
var Version = "v0.3.0"

// BuildTime is optionally injected alongside Version:
//
//	-ldflags "-X github.com/derickschaefer/streamify/cmd.BuildTime=2026-10-19T12:00:00Z"
var BuildTime = ""

// versionInfo is the structured payload for --format json output.
type versionInfo struct {
	Version     string   `json:"version"`
	GoVersion   string   `json:"go_version"`
	GOOS        string   `json:"goos"`
	GOARCH      string   `json:"goarch"`
	StoreSchema int      `json:"store_schema"`
	Ranges      []string `json:"ranges"`
	BuildTime   string   `json:"build_time,omitempty"`
}

func currentVersion() versionInfo {
	ranges := make([]string, len(model.Ranges))
	for i, r := range model.Ranges {
		ranges[i] = string(r)
	}
	return versionInfo{
		Version:     Version,
		GoVersion:   runtime.Version(),
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		StoreSchema: store.SchemaVersion,
		Ranges:      ranges,
		BuildTime:   BuildTime,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the streamify version and build information",
	Long: `Print the streamify version, the snapshot store schema it reads and
writes, and build metadata. Plain text by default; --format json or jsonl
for structured output.`,
	Example: `  streamify version
  streamify version --format json | jq .store_schema`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersion()
		out := cmd.OutOrStdout()

		switch globalFlags.Format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case "jsonl":
			return json.NewEncoder(out).Encode(info)
		default:
			fmt.Fprintf(out, "streamify %s\n", info.Version)
			fmt.Fprintf(out, "go        %s\n", info.GoVersion)
			fmt.Fprintf(out, "os        %s/%s\n", info.GOOS, info.GOARCH)
			fmt.Fprintf(out, "store     schema v%d\n", info.StoreSchema)
			if info.BuildTime != "" {
				fmt.Fprintf(out, "built     %s\n", info.BuildTime)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
