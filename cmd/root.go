// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package cmd provides the root command for the pipevet CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pipevet/pipevet"
	"github.com/pipevet/pipevet/config"
	"github.com/pipevet/pipevet/fetch"
)

// NewRootCmd creates the root command for the pipevet CLI.
func NewRootCmd() *cobra.Command {
	var (
		level      string
		ver        bool
		list       bool
		explain    bool
		resolve    bool
		from       string
		policy     = config.DefaultFetchPolicy // VarP does not allow you to set a default value
		s          string
		dir        string
		configPath string
		gc         bool
	)

	var cfg *config.Config // cfg is not set via CLI flag

	// closure initializer
	loadConfig := func(cmd *cobra.Command) error {
		switch {
		case cmd.Flags().Changed("config"):
			f, err := os.Open(configPath)
			if err != nil {
				return fmt.Errorf("failed to open config file: %w", err)
			}
			defer f.Close()
			cfg, err = config.LoadConfig(f)
			if err != nil {
				return fmt.Errorf("failed to load config file: %w", err)
			}
		case os.Getenv("PIPEVET_CONFIG") != "":
			f, err := os.Open(os.Getenv("PIPEVET_CONFIG"))
			if err != nil {
				return fmt.Errorf("failed to open config file: %w", err)
			}
			defer f.Close()
			cfg, err = config.LoadConfig(f)
			if err != nil {
				return fmt.Errorf("failed to load config file: %w", err)
			}
		default:
			var err error
			cfg, err = config.LoadDefaultConfig()
			if err != nil {
				return err
			}
		}

		// default < cfg < flags
		if !cmd.Flags().Changed("fetch-policy") && cfg.FetchPolicy != policy {
			if err := policy.Set(cfg.FetchPolicy.String()); err != nil {
				return err
			}
		}

		return nil
	}

	root := &cobra.Command{
		Use:   "pipevet",
		Short: "Vet CI pipeline documents without running them",
		Example: `
pipevet

pipevet -f ../deploy.yaml --explain

pipevet -f "pkg:github/pipevet/pipevet@main#testdata/deploy.yaml" --resolve
`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if dir != "" {
				if err := os.Chdir(dir); err != nil {
					return err
				}
			}

			return loadConfig(cmd)
		},
		ValidArgsFunction: func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			svc, err := fetch.NewFetcherService(
				fetch.WithClient(&http.Client{
					Timeout: 500 * time.Millisecond,
				}),
			)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			// if we are a sub-command, load the cfg as PersistentPreRun isnt run
			// when performing tab completions on sub-commands
			if cmd.Parent() != nil {
				if err := loadConfig(cmd); err != nil {
					return nil, cobra.ShellCompDirectiveError
				}
			}

			uri, err := fetch.Parse(from)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			p, err := pipevet.Fetch(cmd.Context(), svc, uri)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			names := make([]string, 0, len(p.Jobs))
			for _, name := range p.Jobs.OrderedJobNames() {
				names = append(names, strings.Join([]string{name, p.Jobs[name].Name}, "\t"))
			}

			return names, cobra.ShellCompDirectiveNoFileComp
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger := log.FromContext(cmd.Context())
			logger.SetLevel(l)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			if ver && len(args) == 0 {
				bi, ok := debug.ReadBuildInfo()
				if !ok {
					return fmt.Errorf("version information not available")
				}
				switch bi.Main.Path {
				case "github.com/pipevet/pipevet":
					fmt.Fprintln(os.Stdout, bi.Main.Version)
				default:
					for _, dep := range bi.Deps {
						if dep.Path == "github.com/pipevet/pipevet" {
							fmt.Fprintln(os.Stdout, dep.Version)
							break
						}
					}
				}
				return nil
			}

			// fix fish needing "'pkg:...'" for tab completion
			from = strings.Trim(from, `"`)
			from = strings.Trim(from, `'`)

			fs := afero.NewOsFs()

			createDir := true
			if !cmd.Flags().Changed("store") {
				localStorePath := ".pipevet/store"
				if fi, err := fs.Stat(localStorePath); err == nil && fi.IsDir() {
					s = localStorePath
					createDir = false
				}
			}

			s = filepath.Clean(os.ExpandEnv(s))
			if s == "." {
				s = ".pipevet/store"
			}

			if createDir {
				if err := fs.MkdirAll(s, 0o744); err != nil {
					return err
				}
			}

			store, err := fetch.NewStore(afero.NewBasePathFs(fs, s))
			if err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}

			svc, err := fetch.NewFetcherService(
				fetch.WithStorage(store),
				fetch.WithFetchPolicy(policy),
			)
			if err != nil {
				return fmt.Errorf("failed to initialize fetcher service: %w", err)
			}

			uri, err := fetch.Parse(from)
			if err != nil {
				return fmt.Errorf("failed to parse %q: %w", from, err)
			}

			p, err := pipevet.Fetch(ctx, svc, uri)
			if err != nil {
				return fmt.Errorf("failed to fetch %q: %w", uri, err)
			}

			if list {
				t, err := pipevet.NewStepList(p, args...)
				if err != nil {
					return err
				}

				fmt.Fprintln(os.Stdout, "Pipeline steps:")
				fmt.Fprintln(os.Stdout, t)

				return nil
			}

			if explain {
				md, err := pipevet.Explain(p, args...)
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, md)
				return nil
			}

			findings := pipevet.Lint(p)

			if resolve {
				resolver, err := pipevet.NewRefResolver(cfg, &http.Client{Timeout: 30 * time.Second})
				if err != nil {
					return err
				}
				findings = append(findings, pipevet.ResolveActions(ctx, resolver, p)...)
			}

			for _, f := range findings {
				switch f.Severity {
				case pipevet.SeverityError:
					logger.Error(f.Message, "rule", f.Rule, "at", f.Path)
				case pipevet.SeverityWarning:
					logger.Warn(f.Message, "rule", f.Rule, "at", f.Path)
				default:
					logger.Info(f.Message, "rule", f.Rule, "at", f.Path)
				}
			}

			if gc {
				if err := store.GC(); err != nil {
					return err
				}
			}

			if pipevet.HasErrors(findings) {
				return fmt.Errorf("%q failed lint", uri)
			}

			fmt.Fprintln(os.Stdout, Green.Render("valid"), FaintStyle.Render(fmt.Sprintf("(%d findings)", len(findings))))

			return nil
		},
	}

	root.AddCommand(NewServeCmd())

	root.Flags().StringVarP(&level, "log-level", "l", "info", "Set log level")
	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{log.DebugLevel.String(), log.InfoLevel.String(), log.WarnLevel.String(), log.ErrorLevel.String(), log.FatalLevel.String()}, cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().BoolVarP(&ver, "version", "V", false, "Print version number and exit")
	root.Flags().BoolVar(&list, "list", false, "Print list of pipeline steps and exit")
	root.Flags().BoolVar(&explain, "explain", false, "Print explanation of the pipeline and exit")
	root.Flags().BoolVar(&resolve, "resolve", false, "Verify remote action references against their host")
	root.Flags().StringVarP(&from, "from", "f", "file:"+fetch.DefaultFileName, "Read location as pipeline definition")
	root.Flags().StringVarP(&dir, "directory", "C", "", "Change to directory before doing anything")
	_ = root.MarkFlagDirname("directory")
	root.Flags().StringVarP(&configPath, "config", "", "${HOME}/.pipevet/config.yaml", "Path to pipevet config file") // mirrors config.DefaultDirectory
	_ = root.MarkFlagFilename("config", "yaml", "yml")
	root.Flags().VarP(&policy, "fetch-policy", "p", fmt.Sprintf(`Set fetch policy ("%s")`, strings.Join(config.AvailablePolicies(), `", "`)))
	_ = root.RegisterFlagCompletionFunc("fetch-policy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.AvailablePolicies(), cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().StringVarP(&s, "store", "s", "${HOME}/.pipevet/store", "Set storage directory")
	_ = root.MarkFlagDirname("store")
	root.Flags().BoolVar(&gc, "gc", false, "Perform garbage collection on the store")

	return root
}

// Main executes the root command for the pipevet CLI.
//
// It returns 0 on success, 1 on failure and logs any errors.
func Main() int {
	cli := NewRootCmd()

	ctx := context.Background()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer cancel()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})

	logger.SetStyles(DefaultStyles())

	ctx = log.WithContext(ctx, logger)
	cmd, err := cli.ExecuteContextC(ctx)
	if err != nil {
		if errors.Is(cmd.Context().Err(), context.Canceled) {
			logger.Error("interrupted")
		}

		logger.Error(err)
	}
	return ParseExitCode(err)
}

// ParseExitCode calculates the exit code from a given error
//
// 0 - the error was nil
// 1 - there was some error
func ParseExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
