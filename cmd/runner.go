package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/auth"
	"github.com/desertthunder/echoplay/internal/gateway"
	"github.com/desertthunder/echoplay/internal/library"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/services"
	"github.com/desertthunder/echoplay/internal/shared"
	"github.com/desertthunder/echoplay/internal/tasks"
)

// noticeBuffer bounds the notices a single command can queue before they are printed.
const noticeBuffer = 32

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, gateway and store are opened on first use so commands like `setup config`
// run without a database.
type Runner struct {
	configPath  string
	config      *shared.Config
	db          *sql.DB
	ownsDB      bool
	gateway     gateway.Gateway
	searcher    services.Searcher
	auth        *auth.Service
	store       *library.Store
	engine      *tasks.Engine
	notices     chan library.Notice
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
	clipboard   func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	ConfigPath  string
	Config      *shared.Config
	DB          *sql.DB
	Gateway     gateway.Gateway
	Searcher    services.Searcher
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
	Clipboard   func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	return &Runner{
		configPath:  opts.ConfigPath,
		config:      opts.Config,
		db:          opts.DB,
		gateway:     opts.Gateway,
		searcher:    opts.Searcher,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
		clipboard:   opts.Clipboard,
		notices:     make(chan library.Notice, noticeBuffer),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, playCommand, likedCommand, recentCommand,
		playlistCommand, shareCommand, exportCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config. A missing file falls back to the defaults.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}
	if r.config == nil {
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	r.logger.SetLevel(r.config.Logging.LogLevel())
	return ctx, nil
}

// After closes the database if a command opened it.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db, r.ownsDB = nil, false
	return err
}

func (r *Runner) loadConfig() (*shared.Config, error) {
	if r.configPath == "" {
		return shared.DefaultConfig(), nil
	}
	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
			return shared.DefaultConfig(), nil
		}
		return nil, err
	}
	return config, nil
}

// cfg returns the loaded configuration, or the defaults when Before has not run.
func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := shared.OpenDatabase(r.cfg().Database)
	if err != nil {
		return nil, err
	}
	r.db, r.ownsDB = db, true
	return db, nil
}

// newGateway builds the gateway selected by store.mode.
func (r *Runner) newGateway(db *sql.DB) gateway.Gateway {
	store := r.cfg().Store
	opts := gateway.Options{SoftPlaylistWrites: store.SoftPlaylistWrites, Logger: r.logger}
	if store.Mode == shared.StoreModeRemote {
		return gateway.NewRemote(services.NewAPIService(store.RemoteURL, r.httpClient), opts)
	}
	return gateway.NewLocal(db, opts)
}

// init wires the auth service, gateway, store and task engine.
func (r *Runner) init() error {
	if r.store != nil {
		return nil
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	if r.auth == nil {
		r.auth = auth.NewService(db, r.logger)
	}
	if r.gateway == nil {
		r.gateway = r.newGateway(db)
	}
	r.store = library.New(r.gateway,
		library.WithRecentLimit(r.cfg().Store.RecentLimit),
		library.WithLogger(r.logger),
		library.WithNotices(r.notices),
	)
	r.engine = tasks.NewEngine(r.store)
	return nil
}

func (r *Runner) search() services.Searcher {
	if r.searcher == nil {
		r.searcher = services.NewYouTubeService(r.cfg().Credentials.YouTube,
			services.WithHTTPClient(r.httpClient),
			services.WithLogger(r.logger),
		)
	}
	return r.searcher
}

// session restores the signed-in user and loads their library.
func (r *Runner) session(ctx context.Context) (*models.User, error) {
	if err := r.init(); err != nil {
		return nil, err
	}
	user, err := r.auth.Restore(ctx)
	if err != nil {
		return nil, err
	}

	result, err := r.engine.Load(ctx, nil, user)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		r.logger.Warn("library partially loaded", "error", err)
	}
	r.drainNotices()
	return user, nil
}

// mutate runs fn against a loaded session, then saves the liked and recent lists and prints
// the notices fn produced.
func (r *Runner) mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, err := r.session(ctx); err != nil {
		return err
	}

	err := fn(ctx)
	r.printNotices()
	if err != nil {
		return err
	}
	return r.engine.Persist(ctx, nil)
}

func (r *Runner) printNotices() {
	for {
		select {
		case n := <-r.notices:
			switch n.Level {
			case library.NoticeSuccess:
				r.writePlain("✓ %s\n", n.Message)
			case library.NoticeError:
				r.writePlain("✗ %s\n", n.Message)
			default:
				r.writePlain("• %s\n", n.Message)
			}
		default:
			return
		}
	}
}

func (r *Runner) drainNotices() {
	for {
		select {
		case <-r.notices:
		default:
			return
		}
	}
}

// resolveTrack finds videoID in the loaded library, falling back to the top search result for query.
func (r *Runner) resolveTrack(ctx context.Context, query string) (models.Track, error) {
	if query == "" {
		return models.Track{}, fmt.Errorf("%w: a video id or search query is required", shared.ErrMissingArgument)
	}

	if r.store != nil {
		st := r.store.Snapshot()
		for _, list := range [][]models.Track{st.Liked, st.Recent} {
			if i := models.IndexOf(list, query); i >= 0 {
				return list[i], nil
			}
		}
		for _, p := range st.Playlists {
			if i := models.IndexOf(p.Songs, query); i >= 0 {
				return p.Songs[i], nil
			}
		}
	}

	results, err := r.search().Search(ctx, query)
	if err != nil {
		return models.Track{}, err
	}
	if len(results) == 0 {
		return models.Track{}, fmt.Errorf("%w: no results for %q", shared.ErrSearchFailed, query)
	}
	return results[0], nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeTracks(tracks []models.Track) {
	if len(tracks) == 0 {
		r.writePlain("(no songs)\n")
		return
	}
	for i, t := range tracks {
		r.writePlain("%3d. %s - %s [%s]  %s\n", i+1, t.Artist, t.Title, shared.FormatDuration(t.Duration), t.VideoID)
	}
}
