package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/onrik/logrus/filename"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/three-water666/open-mcp-servers-market/catalog"
	"github.com/three-water666/open-mcp-servers-market/db"
	"github.com/three-water666/open-mcp-servers-market/domain"
	"github.com/three-water666/open-mcp-servers-market/pipeline"
	"github.com/three-water666/open-mcp-servers-market/source"
)

var (
	DBFile    = "mcpmarket.bolt"
	OutputDir = "."
	Quiet     bool
	Verbose   bool

	AwesomeFile  = "awesome-mcp-servers.md"
	OfficialFile = "modelcontextprotocol-servers.md"
	AwesomeURL   string
	OfficialURL  string

	TopLimit   = catalog.DefaultTopLimit
	TopAsJSON  bool
	SkipEnrich bool

	WatchSchedule = "0 6 * * *"
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Quiet, "quiet", "q", false, "Activate quiet log output")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Activate verbose log output")
	rootCmd.PersistentFlags().StringVarP(&DBFile, "db", "b", DBFile, "Path to BoltDB catalog file")

	for _, cmd := range []*cobra.Command{runCmd, convertCmd, watchCmd} {
		cmd.Flags().StringVarP(&OutputDir, "output", "o", OutputDir, "Directory to write JSON artifacts to")
		cmd.Flags().StringVarP(&AwesomeFile, "awesome-file", "", AwesomeFile, "Path to the local community listing markdown")
		cmd.Flags().StringVarP(&OfficialFile, "official-file", "", OfficialFile, "Path to the local first-party listing markdown")
		cmd.Flags().StringVarP(&AwesomeURL, "awesome-url", "", AwesomeURL, "Fetch the community listing over HTTP instead of from disk")
		cmd.Flags().StringVarP(&OfficialURL, "official-url", "", OfficialURL, "Fetch the first-party listing over HTTP instead of from disk")
	}
	for _, cmd := range []*cobra.Command{runCmd, watchCmd} {
		cmd.Flags().BoolVarP(&SkipEnrich, "skip-enrich", "", SkipEnrich, "Skip star-count enrichment even when a token is available")
		cmd.Flags().IntVarP(&TopLimit, "limit", "n", TopLimit, "Ranked subset size")
	}

	watchCmd.Flags().StringVarP(&WatchSchedule, "schedule", "s", WatchSchedule, "Cron schedule for repeated pipeline runs")

	topCmd.Flags().IntVarP(&TopLimit, "limit", "n", TopLimit, "Ranked subset size")
	topCmd.Flags().BoolVarP(&TopAsJSON, "json", "j", TopAsJSON, "Emit JSON instead of a table")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	doConfig()

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mcpmarket",
	Short: "MCP server catalog builder",
	Long:  "Extracts MCP server listings from their markdown sources, enriches them with GitHub star counts, and maintains a merged ranked catalog",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info("See -h/--help for usage information")
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long:  "Fetch both source documents, extract and enrich servers, merge, persist, and write ranked artifacts",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := db.WithClient(db.NewBoltConfig(DBFile), func(dbClient db.Client) error {
			return pipeline.Run(dbClient, pipelineConfig())
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Extract and write per-source artifacts without the network",
	Long:  "Parse the source documents and write per-source JSON artifacts; no enrichment, no catalog persistence",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg := pipelineConfig()
		cfg.SkipEnrich = true
		if err := pipeline.Run(nil, cfg); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the highest-starred servers from the stored catalog",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := db.WithClient(db.NewBoltConfig(DBFile), func(dbClient db.Client) error {
			cat, err := dbClient.Catalog()
			if err != nil {
				return err
			}
			top := catalog.Top(cat, TopLimit)

			if TopAsJSON {
				j, err := json.MarshalIndent(top, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(j))
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "Name", "Stars", "Category", "Source", "URL"})
			table.SetBorder(false)
			for i, s := range top {
				table.Append([]string{
					strconv.Itoa(i + 1),
					s.Name,
					strconv.Itoa(*s.StarCount),
					s.Category,
					s.Source,
					s.URL,
				})
			}
			table.Render()
			return nil
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Stored catalog statistics",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := db.WithClient(db.NewBoltConfig(DBFile), func(dbClient db.Client) error {
			n, err := dbClient.ServersLen()
			if err != nil {
				return fmt.Errorf("getting servers count: %s", err)
			}
			log.WithField("servers", n).Info("count")

			lastRun, err := dbClient.Meta(db.MetaLastRun)
			if err == db.ErrKeyNotFound {
				log.Info("No pipeline run recorded yet")
				return nil
			} else if err != nil {
				return err
			}
			log.WithField("last-run", string(lastRun)).Info("timestamp")
			return nil
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Lookup one stored server by identity key",
	Long:  "Lookup one stored server by its normalized identity key (lower-cased URL)",
	Args:  cobra.MinimumNArgs(1),
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := db.WithClient(db.NewBoltConfig(DBFile), func(dbClient db.Client) error {
			s, err := dbClient.Server(args[0])
			if err != nil {
				return fmt.Errorf("getting server %q: %s", args[0], err)
			}
			j, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling server to JSON: %s", err)
			}
			fmt.Println(string(j))
			return nil
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Dump the stored catalog as JSON",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := db.WithClient(db.NewBoltConfig(DBFile), func(dbClient db.Client) error {
			servers := []*domain.Server{}
			if err := dbClient.EachServer(func(s *domain.Server) {
				servers = append(servers, s)
			}); err != nil {
				return err
			}
			j, err := json.MarshalIndent(servers, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(j))
			return nil
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on a cron schedule",
	Long:  "Keep running, re-executing the full batch pipeline on the supplied cron schedule until interrupted",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		runOnce := func() {
			if err := db.WithClient(db.NewBoltConfig(DBFile), func(dbClient db.Client) error {
				return pipeline.Run(dbClient, pipelineConfig())
			}); err != nil {
				log.Errorf("Scheduled run failed: %s", err)
			}
		}

		c := cron.New()
		if _, err := c.AddFunc(WatchSchedule, runOnce); err != nil {
			log.Fatalf("main: invalid schedule %q: %s", WatchSchedule, err)
		}
		log.WithField("schedule", WatchSchedule).Info("Watch mode started")
		runOnce()
		c.Start()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		s := <-sigCh
		log.WithField("sig", s).Info("Received signal, shutting down watch mode..")
		c.Stop()
	},
}

func pipelineConfig() *pipeline.Config {
	cfg := pipeline.NewConfig()
	cfg.OutputDir = OutputDir
	cfg.TopLimit = TopLimit
	cfg.SkipEnrich = SkipEnrich
	cfg.GitHubToken = githubToken()

	if AwesomeURL != "" {
		cfg.Awesome = source.NewHTTP("awesome", AwesomeURL)
	} else {
		cfg.Awesome = source.NewLocalFile("awesome", AwesomeFile)
	}
	if OfficialURL != "" {
		cfg.Official = source.NewHTTP("official", OfficialURL)
	} else {
		cfg.Official = source.NewLocalFile("official", OfficialFile)
	}
	return cfg
}

// githubToken resolves the optional API credential from the environment,
// with .env support for local development.
func githubToken() string {
	godotenv.Load()
	return os.Getenv("GITHUB_TOKEN")
}

func initLogging() {
	level := log.InfoLevel
	if Verbose {
		log.AddHook(filename.NewHook())
		level = log.DebugLevel
	}
	if Quiet {
		level = log.ErrorLevel
	}
	log.SetLevel(level)
}
