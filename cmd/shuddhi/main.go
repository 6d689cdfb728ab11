package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/coolbeans/shuddhi/pkg/candidate"
	"github.com/coolbeans/shuddhi/pkg/fallback"
	"github.com/coolbeans/shuddhi/pkg/lookup"
	"github.com/coolbeans/shuddhi/pkg/override"
	"github.com/coolbeans/shuddhi/pkg/publish"
	"github.com/coolbeans/shuddhi/pkg/roster"
	"github.com/coolbeans/shuddhi/pkg/sanitize"
	"github.com/coolbeans/shuddhi/pkg/translate"
	"github.com/coolbeans/shuddhi/pkg/translit"
	"github.com/coolbeans/shuddhi/pkg/websearch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// errReported marks errors whose message was already printed by the
// command itself. main still exits 1 but must not print again.
var errReported = errors.New("reported")

func main() {
	rootCmd := &cobra.Command{
		Use:   "shuddhi",
		Short: "Hindi facility-roster cleaner",
		Long: `Shuddhi cleans bilingual health-facility rosters.

It rewrites the Hindi name column of a lab_name,hindi_name CSV in place:
  - Strips Latin noise and normalizes punctuation and doubled place names
  - Applies curated per-facility overrides from YAML rules
  - Resolves missing Hindi names through translation, transliteration
    and web-search fallbacks
  - Publishes the cleaned roster to GitHub or S3

Every in-place pass writes through a staging file and renames it over
the original, so a failed run never corrupts the roster.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(sanitizeCmd())
	rootCmd.AddCommand(overrideCmd())
	rootCmd.AddCommand(lookupCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(publishCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// rosterArg enforces the single-path contract shared by the pass
// commands: wrong argument count prints the usage line on stdout, a
// missing path prints "File not found"; both return errReported so main
// exits 1 without printing anything further.
func rosterArg(command string, args []string) (string, error) {
	if len(args) != 1 {
		fmt.Printf("Usage: shuddhi %s /absolute/path/to/file.csv\n", command)
		return "", errReported
	}

	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("File not found: %s\n", path)
		return "", errReported
	}
	return path, nil
}

func passLogger(verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func sanitizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize [file.csv]",
		Short: "Strip Latin noise from the Hindi name column",
		Long: `Sanitize the hindi_name column of a roster file in place.

Each row's Hindi text loses its Latin spans (with the separators they
absorb), gets its commas and whitespace normalized, and has doubled
place names like अलीगढ़अलीगढ़ folded. Ragged rows with unquoted commas
are reconciled into the text column before cleaning.

Examples:
  shuddhi sanitize roster.csv
  shuddhi sanitize --two-columns roster.csv
  shuddhi sanitize --linewise mangled.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			twoColumns, _ := cmd.Flags().GetBool("two-columns")
			linewise, _ := cmd.Flags().GetBool("linewise")
			verbose, _ := cmd.Flags().GetBool("verbose")

			path, err := rosterArg("sanitize", args)
			if err != nil {
				return err
			}

			if linewise {
				if err := roster.SanitizeLines(path, sanitize.Clean); err != nil {
					return fmt.Errorf("failed to sanitize %s: %w", path, err)
				}
				return nil
			}

			if twoColumns {
				if err := roster.EnforceTwoColumns(path); err != nil {
					return fmt.Errorf("failed to rewrite %s: %w", path, err)
				}
			}

			pass := &roster.Pass{
				Name:      "sanitize",
				Transform: func(_, text string) string { return sanitize.Clean(text) },
				Logger:    passLogger(verbose),
			}
			if _, err := pass.Run(path); err != nil {
				return fmt.Errorf("sanitize pass failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Bool("two-columns", false, "Rewrite to the canonical two-column layout before sanitizing")
	cmd.Flags().Bool("linewise", false, "Line-oriented fallback for files too mangled for the CSV parser")
	cmd.Flags().BoolP("verbose", "v", false, "Log pass progress at debug level")

	return cmd
}

func overrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override [file.csv]",
		Short: "Apply curated Hindi name overrides by lab name",
		Long: `Replace hindi_name values for rows whose lab_name matches an
override rule. Exact rules are tried first, then anchored
case-insensitive patterns in rule order. Rows with no matching rule are
untouched. Prints the number of rows actually changed.

Rules come from the built-in table unless --rules points at a YAML rule
file or a directory of them.

Examples:
  shuddhi override roster.csv
  shuddhi override --rules overrides.yaml roster.csv
  shuddhi override --rules rules/ roster.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rulesPath, _ := cmd.Flags().GetString("rules")
			verbose, _ := cmd.Flags().GetBool("verbose")

			path, err := rosterArg("override", args)
			if err != nil {
				return err
			}

			resolver, err := buildResolver(rulesPath)
			if err != nil {
				return err
			}

			pass := &roster.Pass{
				Name: "override",
				Transform: func(key, text string) string {
					if value, ok := resolver.Resolve(key); ok {
						return value
					}
					return text
				},
				Logger: passLogger(verbose),
			}
			report, err := pass.Run(path)
			if err != nil {
				return fmt.Errorf("override pass failed: %w", err)
			}

			fmt.Printf("Updated %d rows\n", report.Changed)
			return nil
		},
	}

	cmd.Flags().String("rules", "", "YAML rule file or directory (built-in rules when empty)")
	cmd.Flags().BoolP("verbose", "v", false, "Log pass progress at debug level")

	return cmd
}

func buildResolver(rulesPath string) (*override.Resolver, error) {
	if rulesPath == "" {
		return override.NewResolver(override.DefaultRules())
	}

	info, err := os.Stat(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules at %s: %w", rulesPath, err)
	}

	registry := override.NewRegistry()
	if info.IsDir() {
		err = registry.LoadDirectory(rulesPath)
	} else {
		err = registry.LoadFile(rulesPath)
	}
	if err != nil {
		return nil, err
	}
	return registry.Resolver()
}

// lookupResult is the JSON shape of a resolution for --json output.
type lookupResult struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Source   string   `json:"source"`
	Attempts []string `json:"attempts,omitempty"`
}

func lookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [name]",
		Short: "Resolve an English name to Hindi through the fallback chain",
		Long: `Resolve a name to Hindi. Person names go through translation, then
transliteration. Facility names try the roster directory first, then a
web search scored for official-looking Devanagari names, then
translation. Both chains fall back to the name unchanged, so lookup
always produces a value.

Translation uses the free web endpoint unless --llm is set, which
switches to the OpenAI chat API (requires OPENAI_API_KEY).

Examples:
  shuddhi lookup --kind person "Ramesh Kumar"
  shuddhi lookup --kind facility --roster roster.csv "CHC Haraiya"
  shuddhi lookup --kind facility --json "District Hospital Basti"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			rosterPath, _ := cmd.Flags().GetString("roster")
			asJSON, _ := cmd.Flags().GetBool("json")
			useLLM, _ := cmd.Flags().GetBool("llm")

			name := args[0]
			ctx := cmd.Context()

			deps := lookup.Deps{
				Transliterator: translit.NewClient(translit.DefaultConfig()),
				Searcher:       websearch.NewClient(websearch.DefaultConfig()),
			}

			if useLLM {
				translator, err := translate.NewLLMTranslator(translate.LLMConfig{
					APIKey: os.Getenv("OPENAI_API_KEY"),
				})
				if err != nil {
					return fmt.Errorf("failed to configure LLM translator: %w", err)
				}
				deps.Translator = translator
			} else {
				deps.Translator = translate.NewClient(translate.DefaultConfig())
			}

			if rosterPath != "" {
				directory, err := roster.LoadDirectory(rosterPath)
				if err != nil {
					return fmt.Errorf("failed to load roster %s: %w", rosterPath, err)
				}
				deps.Directory = directory
			}

			resolver := lookup.NewResolver(deps)

			var (
				res        fallback.Resolution
				resolveErr error
			)
			switch kind {
			case "person":
				res, resolveErr = resolver.Person(ctx, name)
			case "facility":
				res, resolveErr = resolver.Facility(ctx, name)
			default:
				return fmt.Errorf("invalid kind: %s (use person or facility)", kind)
			}
			if resolveErr != nil {
				return fmt.Errorf("lookup failed: %w", resolveErr)
			}

			if asJSON {
				out := lookupResult{Name: name, Value: res.Value, Source: res.Source}
				for _, attempt := range res.Attempts {
					out.Attempts = append(out.Attempts, fmt.Sprintf("%s: %v", attempt.Step, attempt.Err))
				}
				return printJSON(out)
			}

			fmt.Println(res.Value)
			return nil
		},
	}

	cmd.Flags().StringP("kind", "k", "facility", "What the name names (person, facility)")
	cmd.Flags().String("roster", "", "Roster CSV consulted before any remote service")
	cmd.Flags().Bool("json", false, "Print the resolution with its source and failed attempts as JSON")
	cmd.Flags().Bool("llm", false, "Translate with the OpenAI chat API instead of the web endpoint")

	return cmd
}

// scoredCandidate is the JSON shape of a scored candidate for --json
// output.
type scoredCandidate struct {
	Text          string `json:"text"`
	Start         int    `json:"start"`
	Score         int    `json:"score"`
	Institutional bool   `json:"institutional"`
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract scored Devanagari name candidates from text",
		Long: `Scan text for Devanagari runs and score them as facility-name
candidates. By default prints the best surviving candidate; --all prints
every candidate that scored zero or better, with its score. Pass "-" to
read the text from stdin.

Examples:
  shuddhi extract "District Hospital जिला अस्पताल बस्ती Basti"
  shuddhi extract --all --json "..."
  curl -s https://example.org/page | shuddhi extract --all -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showAll, _ := cmd.Flags().GetBool("all")
			asJSON, _ := cmd.Flags().GetBool("json")

			text := args[0]
			if text == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			if showAll {
				scored := candidate.ScoreAll(candidate.Extract(text))
				if asJSON {
					out := make([]scoredCandidate, len(scored))
					for i, s := range scored {
						out[i] = scoredCandidate{
							Text:          s.Text,
							Start:         s.Start,
							Score:         s.Score,
							Institutional: s.Institutional,
						}
					}
					return printJSON(out)
				}
				for _, s := range scored {
					fmt.Printf("%3d  %s\n", s.Score, s.Text)
				}
				return nil
			}

			best, ok := candidate.PickBest(text)
			if !ok {
				return fmt.Errorf("no usable Devanagari candidate in input")
			}
			if asJSON {
				return printJSON(scoredCandidate{
					Text:          best.Text,
					Start:         best.Start,
					Score:         best.Score,
					Institutional: best.Institutional,
				})
			}
			fmt.Println(best.Text)
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Print every surviving candidate with its score")
	cmd.Flags().Bool("json", false, "JSON output")

	return cmd
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [file]",
		Short: "Push a roster file to a remote content store",
		Long: `Publish a local file to a content store.

The github store commits through the repository contents API and needs
GITHUB_TOKEN plus --repo owner/name. The s3 store reads SHUDDHI_S3_*
from the environment; --bucket overrides the bucket. --dry-run swaps in
an in-memory store, which still reads and validates the local file.

Examples:
  shuddhi publish --store github --repo health/rosters --path data/roster.csv roster.csv
  shuddhi publish --store s3 --bucket rosters roster.csv
  shuddhi publish --dry-run roster.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeName, _ := cmd.Flags().GetString("store")
			repo, _ := cmd.Flags().GetString("repo")
			remotePath, _ := cmd.Flags().GetString("path")
			branch, _ := cmd.Flags().GetString("branch")
			message, _ := cmd.Flags().GetString("message")
			bucket, _ := cmd.Flags().GetString("bucket")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			localPath := args[0]
			if _, err := os.Stat(localPath); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", localPath)
			}

			if remotePath == "" {
				remotePath = filepath.Base(localPath)
			}

			ctx := cmd.Context()

			var store publish.ContentStore
			switch {
			case dryRun:
				store = publish.NewMemoryStore()
			case storeName == "github":
				owner, name, ok := strings.Cut(repo, "/")
				if !ok || owner == "" || name == "" {
					return fmt.Errorf("--repo must be owner/name")
				}
				githubStore, err := publish.NewGitHubStore(publish.GitHubConfig{
					Token:  os.Getenv("GITHUB_TOKEN"),
					Owner:  owner,
					Repo:   name,
					Branch: branch,
				})
				if err != nil {
					return fmt.Errorf("failed to configure GitHub store: %w", err)
				}
				store = githubStore
			case storeName == "s3":
				cfg := publish.S3ConfigFromEnv()
				if bucket != "" {
					cfg.Bucket = bucket
				}
				if cfg.Bucket == "" {
					return fmt.Errorf("s3 bucket required: set --bucket or SHUDDHI_S3_BUCKET")
				}
				s3Store, err := publish.NewS3Store(ctx, cfg)
				if err != nil {
					return fmt.Errorf("failed to configure S3 store: %w", err)
				}
				store = s3Store
			default:
				return fmt.Errorf("unknown store: %s (use github or s3)", storeName)
			}

			if err := publish.PublishFile(ctx, store, localPath, remotePath, message); err != nil {
				return fmt.Errorf("publish failed: %w", err)
			}

			if dryRun {
				fmt.Printf("Dry run: %s would publish as %s\n", localPath, remotePath)
			} else {
				fmt.Printf("Published %s as %s\n", localPath, remotePath)
			}
			return nil
		},
	}

	cmd.Flags().String("store", "github", "Content store backend (github, s3)")
	cmd.Flags().String("repo", "", "GitHub repository as owner/name")
	cmd.Flags().String("path", "", "Remote path (defaults to the local file name)")
	cmd.Flags().String("branch", "", "GitHub branch (default main)")
	cmd.Flags().StringP("message", "m", "Update roster", "Commit message / object metadata")
	cmd.Flags().String("bucket", "", "S3 bucket (overrides SHUDDHI_S3_BUCKET)")
	cmd.Flags().Bool("dry-run", false, "Publish to an in-memory store instead of the backend")

	return cmd
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
