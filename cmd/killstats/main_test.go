package main

import (
	"errors"
	"flag"
	"testing"

	"github.com/solfarin/killstats/pkg/cache"
	"github.com/solfarin/killstats/pkg/config"
)

// TestRunStatsCommand tests kills/losses command flag parsing.
func TestRunStatsCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCmd   statsCommand
		wantError bool
	}{
		{
			name: "default flags",
			args: []string{},
			wantCmd: statsCommand{
				format:     "table",
				configPath: "/test/config.yaml",
			},
			wantError: false,
		},
		{
			name: "corporation override",
			args: []string{"-corp", "98626718"},
			wantCmd: statsCommand{
				corp:       98626718,
				format:     "table",
				configPath: "/test/config.yaml",
			},
			wantError: false,
		},
		{
			name: "explicit period",
			args: []string{"-year", "2026", "-month", "1"},
			wantCmd: statsCommand{
				year:       2026,
				month:      1,
				format:     "table",
				configPath: "/test/config.yaml",
			},
			wantError: false,
		},
		{
			name: "filter flags",
			args: []string{"-solo", "-wspace"},
			wantCmd: statsCommand{
				solo:       true,
				wspace:     true,
				format:     "table",
				configPath: "/test/config.yaml",
			},
			wantError: false,
		},
		{
			name: "markdown to directory",
			args: []string{"-format", "markdown", "-output", "./reports", "-top", "10"},
			wantCmd: statsCommand{
				top:        10,
				format:     "markdown",
				output:     "./reports",
				configPath: "/test/config.yaml",
			},
			wantError: false,
		},
		{
			name: "combined flags",
			args: []string{
				"-corp", "98626718",
				"-year", "2026",
				"-month", "12",
				"-solo",
				"-format", "json",
				"-no-progress",
				"-compact",
			},
			wantCmd: statsCommand{
				corp:       98626718,
				year:       2026,
				month:      12,
				solo:       true,
				format:     "json",
				noProgress: true,
				compact:    true,
				configPath: "/test/config.yaml",
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Parse flags
			fs := flag.NewFlagSet("kills", flag.ContinueOnError)
			corp := fs.Int64("corp", 0, "corporation ID")
			year := fs.Int("year", 0, "year")
			month := fs.Int("month", 0, "month")
			solo := fs.Bool("solo", false, "only solo records")
			wspace := fs.Bool("wspace", false, "only wormhole-space records")
			top := fs.Int("top", 0, "top N")
			format := fs.String("format", "table", "output format")
			output := fs.String("output", "", "report directory")
			save := fs.Bool("save", false, "use configured report directory")
			noProgress := fs.Bool("no-progress", false, "disable progress bar")
			compact := fs.Bool("compact", false, "compact output")

			err := fs.Parse(tt.args)
			if tt.wantError && err == nil {
				t.Fatal("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantError {
				return
			}

			// Create command
			got := &statsCommand{
				kind:       kindKills,
				corp:       *corp,
				year:       *year,
				month:      *month,
				solo:       *solo,
				wspace:     *wspace,
				top:        *top,
				format:     *format,
				output:     *output,
				save:       *save,
				noProgress: *noProgress,
				compact:    *compact,
				configPath: "/test/config.yaml",
			}

			// Verify fields
			if got.corp != tt.wantCmd.corp {
				t.Errorf("corp = %d, want %d", got.corp, tt.wantCmd.corp)
			}
			if got.year != tt.wantCmd.year {
				t.Errorf("year = %d, want %d", got.year, tt.wantCmd.year)
			}
			if got.month != tt.wantCmd.month {
				t.Errorf("month = %d, want %d", got.month, tt.wantCmd.month)
			}
			if got.solo != tt.wantCmd.solo {
				t.Errorf("solo = %v, want %v", got.solo, tt.wantCmd.solo)
			}
			if got.wspace != tt.wantCmd.wspace {
				t.Errorf("wspace = %v, want %v", got.wspace, tt.wantCmd.wspace)
			}
			if got.top != tt.wantCmd.top {
				t.Errorf("top = %d, want %d", got.top, tt.wantCmd.top)
			}
			if got.format != tt.wantCmd.format {
				t.Errorf("format = %q, want %q", got.format, tt.wantCmd.format)
			}
			if got.output != tt.wantCmd.output {
				t.Errorf("output = %q, want %q", got.output, tt.wantCmd.output)
			}
			if got.noProgress != tt.wantCmd.noProgress {
				t.Errorf("noProgress = %v, want %v", got.noProgress, tt.wantCmd.noProgress)
			}
			if got.compact != tt.wantCmd.compact {
				t.Errorf("compact = %v, want %v", got.compact, tt.wantCmd.compact)
			}
		})
	}
}

// TestStatsCommand_Initialize tests input validation before any
// network activity.
func TestStatsCommand_Initialize(t *testing.T) {
	tests := []struct {
		name    string
		cmd     statsCommand
		wantErr error
		want    cache.Partition
	}{
		{
			name: "valid kills query",
			cmd:  statsCommand{kind: kindKills, corp: 98626718, year: 2026, month: 1},
			want: cache.Partition{
				CorporationID: 98626718, Year: 2026, Month: 1, Kind: cache.KindKills,
			},
		},
		{
			name: "valid losses query with filters",
			cmd:  statsCommand{kind: kindLosses, corp: 98626718, year: 2026, month: 12, solo: true, wspace: true},
			want: cache.Partition{
				CorporationID: 98626718, Year: 2026, Month: 12, Kind: cache.KindLosses,
				Solo: true, Wspace: true,
			},
		},
		{
			name:    "missing corporation",
			cmd:     statsCommand{kind: kindKills, year: 2026, month: 1},
			wantErr: config.ErrInvalidCorporation,
		},
		{
			name:    "negative corporation",
			cmd:     statsCommand{kind: kindKills, corp: -5, year: 2026, month: 1},
			wantErr: config.ErrInvalidCorporation,
		},
		{
			name:    "year before the killboard existed",
			cmd:     statsCommand{kind: kindKills, corp: 98626718, year: 1999, month: 1},
			wantErr: config.ErrInvalidPeriod,
		},
		{
			name:    "month out of range",
			cmd:     statsCommand{kind: kindKills, corp: 98626718, year: 2026, month: 13},
			wantErr: config.ErrInvalidPeriod,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, query, err := tt.cmd.initialize()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("initialize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("initialize() unexpected error: %v", err)
			}
			if query.Partition() != tt.want {
				t.Errorf("partition = %+v, want %+v", query.Partition(), tt.want)
			}
		})
	}
}
