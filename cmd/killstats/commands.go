package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	bolt "go.etcd.io/bbolt"

	"github.com/solfarin/killstats/pkg/cache"
	"github.com/solfarin/killstats/pkg/config"
	"github.com/solfarin/killstats/pkg/esi"
	"github.com/solfarin/killstats/pkg/fetcher"
	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
	"github.com/solfarin/killstats/pkg/report"
	"github.com/solfarin/killstats/pkg/shipnames"
	"github.com/solfarin/killstats/pkg/stats"
	"github.com/solfarin/killstats/pkg/zkill"
)

const (
	kindKills  = "kills"
	kindLosses = "losses"
)

// statsCommand fetches one corporation-month and renders the ranked
// kill or loss report.
type statsCommand struct {
	kind       string
	corp       int64
	year       int
	month      int
	solo       bool
	wspace     bool
	top        int
	format     string
	output     string
	save       bool
	noProgress bool
	compact    bool
	configPath string
}

// Execute runs the kills or losses command.
func (c *statsCommand) Execute() error {
	// Load configuration and validate inputs before any network call.
	cfg, query, err := c.initialize()
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(c.format)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	db, err := openDB(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close cache database", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fetch the record stream, reconciling against the cache.
	records, err := c.fetchRecords(ctx, cfg, query, db, log)
	if err != nil {
		return err
	}

	// Resolve participant names.
	names, err := c.resolveNames(ctx, cfg, db, records, log)
	if err != nil {
		return err
	}

	// Aggregate and render.
	return c.renderReport(cfg, query, records, names, format, log)
}

// initialize loads configuration and validates the query.
func (c *statsCommand) initialize() (*config.Config, zkill.Query, error) {
	var cfg *config.Config
	var err error
	if c.configPath != "" {
		cfg, err = config.LoadPath(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, zkill.Query{}, fmt.Errorf("failed to load config: %w", err)
	}

	corp := c.corp
	if corp == 0 {
		corp = cfg.Tracking.CorporationID
	}
	if corp <= 0 {
		return nil, zkill.Query{}, config.ErrInvalidCorporation
	}
	if c.year < 2003 || c.month < 1 || c.month > 12 {
		return nil, zkill.Query{}, config.ErrInvalidPeriod
	}

	kind := cache.KindKills
	if c.kind == kindLosses {
		kind = cache.KindLosses
	}

	query := zkill.Query{
		CorporationID: corp,
		Year:          c.year,
		Month:         c.month,
		Kind:          kind,
		Solo:          c.solo,
		Wspace:        c.wspace,
	}

	return cfg, query, nil
}

// fetchRecords runs the paginated fetch for the query.
func (c *statsCommand) fetchRecords(ctx context.Context, cfg *config.Config, query zkill.Query, db *bolt.DB, log logger.Logger) ([]killmail.Killmail, error) {
	listClient, err := zkill.New(zkill.Config{
		BaseURL:       cfg.Endpoints.ZKillBase,
		UserAgent:     cfg.Endpoints.UserAgent,
		Timeout:       cfg.Fetch.RequestTimeout,
		RetryAttempts: cfg.Fetch.RetryAttempts,
		RetryBackoff:  cfg.Fetch.RetryBackoff,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize list client: %w", err)
	}

	detailClient, err := esi.NewDetailClient(esi.Config{
		BaseURL:       cfg.Endpoints.ESIBase,
		UserAgent:     cfg.Endpoints.UserAgent,
		DetailTimeout: cfg.Fetch.RequestTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize detail client: %w", err)
	}

	fetchCfg := fetcher.Config{
		PageDelay:    cfg.Fetch.PageDelay,
		DetailDelay:  cfg.Fetch.DetailDelay,
		DetailJitter: cfg.Fetch.DetailJitter,
	}

	var bar *progressbar.ProgressBar
	if !c.noProgress {
		bar = progressbar.Default(-1, fmt.Sprintf("fetching %s", c.kind))
		fetchCfg.OnProgress = func(p fetcher.Progress) {
			bar.Describe(fmt.Sprintf("page %d: %d cached, %d fetched, %d skipped",
				p.Page, p.Hits, p.Fetched, p.Skipped))
			_ = bar.Add(p.Summaries)
		}
	}

	f := fetcher.New(fetchCfg, listClient, detailClient, cache.NewBoltStore(db), log)

	records, err := f.Fetch(ctx, query)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	return records, nil
}

// resolveNames resolves display names for the record stream's
// corporation participants. Resolution failures degrade to synthesized
// names downstream, so only storage errors surface.
func (c *statsCommand) resolveNames(ctx context.Context, cfg *config.Config, db *bolt.DB, records []killmail.Killmail, log logger.Logger) (map[int64]string, error) {
	nameCache, err := esi.NewBoltNameCache(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize name cache: %w", err)
	}

	resolver, err := esi.NewResolver(esi.Config{
		BaseURL:     cfg.Endpoints.ESIBase,
		UserAgent:   cfg.Endpoints.UserAgent,
		NameTimeout: cfg.Fetch.NameTimeout,
		BatchSize:   cfg.Fetch.NameBatchSize,
	}, nameCache, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize name resolver: %w", err)
	}

	corp := c.corp
	if corp == 0 {
		corp = cfg.Tracking.CorporationID
	}

	ids := participantIDs(records, corp, c.kind)
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	names, err := resolver.ResolveNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve names: %w", err)
	}

	return names, nil
}

// participantIDs collects the character IDs the report will display.
func participantIDs(records []killmail.Killmail, corp int64, kind string) []int64 {
	seen := make(map[int64]bool)
	var ids []int64

	for _, km := range records {
		if kind == kindLosses {
			v := km.Victim
			if v.CorporationID == corp && v.CharacterID > 0 && !seen[v.CharacterID] {
				seen[v.CharacterID] = true
				ids = append(ids, v.CharacterID)
			}
			continue
		}

		for _, a := range km.Attackers {
			if a.CorporationID == corp && a.CharacterID > 0 && !seen[a.CharacterID] {
				seen[a.CharacterID] = true
				ids = append(ids, a.CharacterID)
			}
		}
	}

	return ids
}

// renderReport aggregates the record stream and writes the report.
func (c *statsCommand) renderReport(cfg *config.Config, query zkill.Query, records []killmail.Killmail, names map[int64]string, format report.Format, log logger.Logger) error {
	corp := query.CorporationID

	statsCfg := stats.Config{
		CorporationID:   corp,
		EscapePodTypeID: cfg.Tracking.EscapePodTypeID,
		Names:           names,
		ShipName:        shipnames.Default(),
	}

	formatter := report.New(report.Config{
		Format:  format,
		Compact: c.compact,
	})

	var render func(io.Writer) error

	if c.kind == kindLosses {
		ls := stats.NewLossStats(statsCfg, log)
		for _, km := range records {
			ls.ProcessRecord(km)
		}

		r := report.LossReport{
			Partition:    query.Partition(),
			Summary:      ls.Summary(),
			Participants: ls.RankParticipants(stats.RankByLosses, c.top),
			Ships:        ls.RankShips(c.top),
		}
		render = func(w io.Writer) error { return formatter.FormatLosses(w, r) }
	} else {
		ks := stats.NewKillStats(statsCfg, log)
		for _, km := range records {
			ks.ProcessRecord(km)
		}

		r := report.KillReport{
			Partition:    query.Partition(),
			Summary:      ks.Summary(),
			Participants: ks.RankParticipants(stats.RankByKills, c.top),
			Ships:        ks.RankShips(c.top),
		}
		render = func(w io.Writer) error { return formatter.FormatKills(w, r) }
	}

	dir := c.output
	if dir == "" && c.save {
		dir = cfg.Storage.ReportDir
	}
	if dir == "" {
		return render(os.Stdout)
	}

	path, err := report.WriteReport(dir, query.Partition(), format, render)
	if err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", path)
	return nil
}

// openDB opens the shared cache database, creating its directory if
// needed. Killmail partitions and the name cache share one file.
func openDB(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return bolt.Open(path, 0o600, nil)
}
