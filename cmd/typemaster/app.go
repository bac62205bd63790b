package main

import (
	"fmt"
	"io"

	"github.com/verte-zerg/typemaster/internal/ai"
	"github.com/verte-zerg/typemaster/internal/catalog"
	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/gating"
	"github.com/verte-zerg/typemaster/internal/logger"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/sound"
	"github.com/verte-zerg/typemaster/internal/store"
)

// app holds the collaborators every command shares.
type app struct {
	settings config.Settings
	log      *logger.Logger
	store    *store.Store
	keys     store.Keys
	catalog  *catalog.Catalog
	policy   *gating.Policy
	progress *progress.Store
	recorder *session.Recorder
	prefs    *sound.Prefs
	creds    *ai.Credentials
	client   *ai.Client
}

func openApp() (*app, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := fileCfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logger.New(settings.LogLevel, settings.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	cat, diags, err := loadCatalog(settings.CurriculumDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load curriculum: %w", err)
	}
	for _, d := range diags {
		log.Warn("curriculum entry dropped", "diagnostic", d.String())
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	keys := store.NewKeys(settings.SiteName)
	prog := progress.New(st, progress.Options{
		Keys:         keys,
		FirstChapter: cat.FirstChapterID(),
		Log:          log,
	})
	return &app{
		settings: settings,
		log:      log,
		store:    st,
		keys:     keys,
		catalog:  cat,
		policy:   gating.New(cat),
		progress: prog,
		recorder: session.NewRecorder(prog, st, log),
		prefs:    sound.NewPrefs(st, keys.Muted, log),
		creds:    ai.NewCredentials(st, keys.OpenAIKey),
		client: ai.NewClient(ai.ClientConfig{
			Endpoint: settings.AIEndpoint,
			Timeout:  settings.AITimeout,
		}, log),
	}, nil
}

func loadCatalog(dir string) (*catalog.Catalog, []catalog.Diagnostic, error) {
	if dir == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(dir)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	a.log.Sync()
}

func (a *app) generator() *ai.Generator {
	return ai.NewGenerator(a.client, a.creds, ai.GenerationConfig{
		Model:            a.settings.AIModel,
		Temperature:      a.settings.AITemperature,
		QuizMaxTokens:    a.settings.QuizMaxTokens,
		ExplainMaxTokens: a.settings.ExplainMaxTokens,
	})
}

func (a *app) sessionOptions(w io.Writer) session.Options {
	return session.Options{
		Sound: sound.NewBell(w, a.prefs),
		Log:   a.log,
	}
}
