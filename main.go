// Package main provides the entry point for the repoherd CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/repoherd/internal/logger"
	"github.com/sgaunet/repoherd/internal/security"
	"github.com/sgaunet/repoherd/internal/ui"
	"github.com/sgaunet/repoherd/pkg/batch"
	"github.com/sgaunet/repoherd/pkg/config"
	"github.com/sgaunet/repoherd/pkg/git"
	"github.com/sgaunet/repoherd/pkg/platform"
	"github.com/sgaunet/repoherd/pkg/report"
	"github.com/sgaunet/repoherd/pkg/roster"
	"github.com/spf13/cobra"
)

const (
	envGitHubToken = "GITHUB_TOKEN"
	envGitLabToken = "GITLAB_TOKEN"

	exitFailure = 1
	exitConfig  = 2
)

var (
	errTokenMissing    = errors.New("no platform token in the environment")
	errStudentsMissing = errors.New("no students file: pass --students or set students_file in the config")
	errTitleRequired   = errors.New("issue title is required")
	errIssueFileEmpty  = errors.New("issue file has no title line")
)

var (
	logLevel     string
	configPath   string
	studentsPath string
	log          *bullets.Logger
)

var (
	setupPublic     bool
	updateRole      string
	updateIssueFile string
	cloneWorkdir    string
	openTitle       string
	openBody        string
	openBodyFile    string
	closeTitle      string
)

var rootCmd = &cobra.Command{
	Use:   "repoherd",
	Short: "Bulk repository administration for course organizations",
	Long: `repoherd administers the repositories of a whole course at once: one
repository per team and assignment, created on GitHub or GitLab, with the
team members granted access. Batch commands fan out over every target,
retry transient platform errors, and report per-target outcomes instead of
stopping at the first failure.

Tokens are read from GITHUB_TOKEN or GITLAB_TOKEN, never from the
configuration file.`,
}

var setupCmd = &cobra.Command{
	Use:   "setup <assignment> [assignment...]",
	Short: "Create repositories and grant the teams access",
	Long: `setup creates one repository per team and assignment and adds every
team member with push access. Repositories that already exist are reused, so
running setup again after a partial failure only touches what is missing.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCommand(runSetup),
}

var updateCmd = &cobra.Command{
	Use:   "update <assignment> [assignment...]",
	Short: "Re-ensure team membership on existing repositories",
	Long: `update re-asserts every team member's access on the target
repositories, picking up roster changes. With --issue-file, repositories
whose update failed get an issue opened from the file so the team knows to
contact the course staff.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCommand(runUpdate),
}

var cloneCmd = &cobra.Command{
	Use:   "clone <assignment> [assignment...]",
	Short: "Clone every target repository for grading",
	Long: `clone fetches each target repository into <workdir>/<team>/<repo>.
Targets already on disk are skipped, so an interrupted run can be resumed by
running it again.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCommand(runClone),
}

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Open or close issues across the target repositories",
}

var issuesOpenCmd = &cobra.Command{
	Use:   "open <assignment> [assignment...]",
	Short: "Open the same issue in every target repository",
	Long: `open creates one issue per target repository. The title and body come
from --title and --body, or from --body-file whose first line is the title
and the rest the body. Running the command twice opens the issue twice.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCommand(runIssuesOpen),
}

var issuesCloseCmd = &cobra.Command{
	Use:   "close <assignment> [assignment...]",
	Short: "Close matching open issues in every target repository",
	Long: `close closes every open issue whose title matches --title. The match
is an anchored regular expression covering the whole title, so closing
"Reminder" leaves "Reminder: lab 2" open.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCommand(runIssuesClose),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the repositories of the course organization",
	Args:  cobra.NoArgs,
	Run:   runCommand(runList),
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check credentials and organization access before a batch",
	Args:  cobra.NoArgs,
	Run:   runCommand(runVerify),
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or update the configuration interactively",
	Args:  cobra.NoArgs,
	Run:   runCommand(runConfig),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info",
		"Set log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the configuration file (default ~/.config/repoherd/config.yml)")
	rootCmd.PersistentFlags().StringVarP(&studentsPath, "students", "s", "",
		"Path to the students file (overrides the configured one)")

	setupCmd.Flags().BoolVar(&setupPublic, "public", false,
		"Create repositories as public instead of private")

	updateCmd.Flags().StringVar(&updateRole, "role", "push",
		"Permission to grant the members (push, pull)")
	updateCmd.Flags().StringVar(&updateIssueFile, "issue-file", "",
		"Open this issue (first line title, rest body) in repositories whose update failed")

	cloneCmd.Flags().StringVarP(&cloneWorkdir, "workdir", "w", "",
		"Directory to clone into (overrides the configured one)")

	issuesOpenCmd.Flags().StringVar(&openTitle, "title", "", "Issue title")
	issuesOpenCmd.Flags().StringVar(&openBody, "body", "", "Issue body")
	issuesOpenCmd.Flags().StringVar(&openBodyFile, "body-file", "",
		"Read the issue from a file: first line title, rest body")

	issuesCloseCmd.Flags().StringVar(&closeTitle, "title", "",
		"Title to close, matched as an anchored regular expression")

	issuesCmd.AddCommand(issuesOpenCmd, issuesCloseCmd)
	rootCmd.AddCommand(setupCmd, updateCmd, cloneCmd, issuesCmd, listCmd, verifyCmd, configCmd)
}

func main() {
	// Optional .env so tokens can live next to the course material.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
}

// runCommand wraps a command helper with logger setup, error printing and
// exit-code mapping. Error messages are sanitized on the way out so a
// platform error echoing a credential never reaches the terminal.
func runCommand(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		log = logger.NewLogger(logLevel)
		if err := fn(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", security.SanitizeError(err))
			os.Exit(exitCodeFor(err))
		}
	}
}

// exitError carries an explicit exit code through the command helpers.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// configErr marks err as an operator mistake, exiting with status 2 so
// scripts can tell misconfiguration apart from platform failures.
func configErr(err error) error {
	return &exitError{code: exitConfig, err: err}
}

// exitCodeFor maps a command error onto the process exit code.
func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if roster.IsConfigError(err) {
		return exitConfig
	}
	return exitFailure
}

// session bundles what every command needs once the configuration is loaded
// and the platform client is built.
type session struct {
	cfg      *config.Config
	kind     platform.Kind
	token    security.SecureToken
	provider platform.Provider
}

func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log.Debug("Configuration loaded successfully")

	kind, err := platform.ParseKind(cfg.Platform)
	if err != nil {
		return nil, configErr(err)
	}

	token, err := tokenFromEnv(kind)
	if err != nil {
		return nil, err
	}

	provider, err := platform.NewProvider(kind, cfg, token, log)
	if err != nil {
		return nil, err
	}
	log.Infof("Platform: %s, organization: %s", provider.PlatformName(), cfg.Org)
	security.DebugAuth(log, provider.PlatformName(), token)

	return &session{cfg: cfg, kind: kind, token: token, provider: provider}, nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return nil, configErr(err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, configErr(err)
	}
	return cfg, nil
}

// tokenFromEnv reads the platform token from the environment. Tokens never
// come from the config file and travel through the process as a SecureToken.
func tokenFromEnv(kind platform.Kind) (security.SecureToken, error) {
	name := envGitHubToken
	if kind == platform.KindGitLab {
		name = envGitLabToken
	}
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return security.SecureToken{}, configErr(fmt.Errorf("%w: set %s", errTokenMissing, name))
	}
	return security.NewSecureToken(raw), nil
}

// resolveTargets loads the roster and crosses it with the assignments given
// on the command line.
func resolveTargets(cfg *config.Config, assignments []string) ([]roster.Target, error) {
	path := studentsPath
	if path == "" {
		path = cfg.StudentsFile
	}
	if path == "" {
		return nil, configErr(errStudentsMissing)
	}

	teams, err := roster.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug(fmt.Sprintf("Roster loaded: %d team(s) from %s", len(teams), path))

	return roster.Resolve(teams, assignments, cfg.Template)
}

// signalContext returns a context canceled on SIGINT/SIGTERM, so an
// interrupted batch records what finished and skips the rest.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runBatch executes op over the targets with a live progress display and
// renders the report to stdout. In debug mode the progress display is
// dropped so its updating line does not fight the log output.
func runBatch(ctx context.Context, s *session, op batch.Operation, targets []roster.Target) *batch.Report {
	opts := batch.Options{
		Concurrency:   s.cfg.Defaults.Concurrency,
		Attempts:      s.cfg.Defaults.Attempts,
		BaseBackoff:   s.cfg.Defaults.BaseBackoff.Std(),
		Cooldown:      s.cfg.Defaults.Cooldown.Std(),
		DispatchDelay: s.cfg.Defaults.DispatchDelay.Std(),
	}

	var progress *ui.BatchProgress
	if logLevel != "debug" {
		progress = ui.NewBatchProgress(os.Stderr)
		opts.OnResult = progress.Observe
	}

	runner := batch.NewRunner(s.provider, opts)
	runner.SetLogger(log)

	if progress != nil {
		progress.Begin(op.Name(), len(targets))
	}
	rep := runner.Run(ctx, op, targets)
	if progress != nil {
		progress.Finish()
	}

	report.Render(os.Stdout, rep)
	return rep
}

// exitForReport ends the process when the batch did not fully succeed.
func exitForReport(rep *batch.Report) {
	if code := report.Summarize(rep).Classify().ExitCode(); code != 0 {
		os.Exit(code)
	}
}

func runSetup(_ *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	targets, err := resolveTargets(s.cfg, args)
	if err != nil {
		return err
	}

	private := s.cfg.Defaults.PrivateRepos()
	if setupPublic {
		private = false
	}

	ctx, cancel := signalContext()
	defer cancel()

	rep := runBatch(ctx, s, batch.Setup{Private: private}, targets)
	exitForReport(rep)
	return nil
}

func runUpdate(_ *cobra.Command, args []string) error {
	role, err := platform.ParseRole(updateRole)
	if err != nil {
		return configErr(err)
	}

	var title, body string
	if updateIssueFile != "" {
		if title, body, err = readIssueFile(updateIssueFile); err != nil {
			return err
		}
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	targets, err := resolveTargets(s.cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rep := runBatch(ctx, s, batch.UpdateMembers{Role: role}, targets)

	if updateIssueFile != "" {
		if failed := failedTargets(rep); len(failed) > 0 {
			log.Warnf("Opening %q on %d repository(ies) that failed to update", title, len(failed))
			runBatch(ctx, s, batch.OpenIssue{Title: title, Body: body}, failed)
		}
	}

	exitForReport(rep)
	return nil
}

// failedTargets collects the targets that failed in the run, in report order.
func failedTargets(rep *batch.Report) []roster.Target {
	failures := rep.Failures()
	targets := make([]roster.Target, 0, len(failures))
	for _, res := range failures {
		targets = append(targets, res.Target)
	}
	return targets
}

func runClone(_ *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	targets, err := resolveTargets(s.cfg, args)
	if err != nil {
		return err
	}

	workdir := cloneWorkdir
	if workdir == "" {
		workdir = s.cfg.Workdir
	}
	if workdir == "" {
		workdir = "."
	}

	cloner := git.NewCloner(s.kind.CloneUsername(), s.token)
	cloner.SetLogger(log)

	ctx, cancel := signalContext()
	defer cancel()

	rep := runBatch(ctx, s, batch.CloneTarget{Cloner: cloner, Workdir: workdir}, targets)
	exitForReport(rep)
	return nil
}

func runIssuesOpen(_ *cobra.Command, args []string) error {
	title, body := openTitle, openBody
	if openBodyFile != "" {
		var err error
		if title, body, err = readIssueFile(openBodyFile); err != nil {
			return err
		}
	}
	if title == "" {
		return configErr(errTitleRequired)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	targets, err := resolveTargets(s.cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rep := runBatch(ctx, s, batch.OpenIssue{Title: title, Body: body}, targets)
	exitForReport(rep)
	return nil
}

func runIssuesClose(_ *cobra.Command, args []string) error {
	if closeTitle == "" {
		return configErr(errTitleRequired)
	}
	pattern, err := platform.CompileTitlePattern(closeTitle)
	if err != nil {
		return configErr(err)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	targets, err := resolveTargets(s.cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rep := runBatch(ctx, s, batch.CloseIssues{Pattern: pattern}, targets)
	exitForReport(rep)
	return nil
}

// readIssueFile parses an issue file: the first line is the title, the rest
// is the body.
func readIssueFile(path string) (title, body string, err error) {
	// #nosec G304 - Reading an operator-chosen issue file is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", configErr(fmt.Errorf("failed to read issue file: %w", err))
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	title, body, _ = strings.Cut(content, "\n")
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", configErr(fmt.Errorf("%w: %s", errIssueFileEmpty, path))
	}
	return title, strings.TrimSpace(body), nil
}

func runList(_ *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	count := 0
	for repo, err := range s.provider.ListRepos(ctx) {
		if err != nil {
			return fmt.Errorf("failed to list repositories: %w", err)
		}
		fmt.Println(repo.FullName)
		count++
	}
	log.Infof("%d repository(ies) in %s", count, s.cfg.Org)
	return nil
}

func runVerify(_ *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := s.provider.Verify(ctx); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	log.Info("Settings verified: credentials and organization access are good")
	return nil
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	// An unreadable or invalid existing config is not fatal here; the
	// wizard starts from scratch and overwrites it.
	existing, err := config.LoadFrom(path)
	if err != nil {
		existing = nil
	}

	cfg, err := ui.ConfigWizard(existing)
	if err != nil {
		return fmt.Errorf("configuration wizard failed: %w", err)
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	log.Infof("Configuration written to %s", path)
	return nil
}
