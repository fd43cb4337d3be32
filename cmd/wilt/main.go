// Command wilt runs the task triage server and a few offline helpers
// that read the same data directory.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"wilt/internal/config"
	"wilt/internal/decay"
	"wilt/internal/insight"
	"wilt/internal/microtask"
	"wilt/internal/ops"
	"wilt/internal/prioritize"
	"wilt/internal/server"
	"wilt/internal/stats"
	"wilt/internal/store"
	"wilt/internal/task"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "wilt",
		Short:         "Task triage: decay scoring, day scheduling and insights",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "wilt.yml", "path to config file")

	root.AddCommand(
		newServeCmd(&cfgPath),
		newScheduleCmd(&cfgPath),
		newDecayCmd(&cfgPath),
		newInsightsCmd(&cfgPath),
		newMicrotasksCmd(&cfgPath),
		newStatsCmd(&cfgPath),
		newBackupCmd(&cfgPath),
		newRestoreCmd(),
	)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openRepo(cfg *config.Config) (*store.FileRepo, error) {
	repo, err := store.NewFileRepo(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}
	return repo, nil
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}

			var scorer prioritize.Scorer = prioritize.Heuristic{}
			if cfg.AI.APIKey != "" {
				scorer = &prioritize.Client{
					BaseURL: cfg.AI.BaseURL,
					APIKey:  cfg.AI.APIKey,
					Model:   cfg.AI.Model,
				}
			}

			handler := server.NewHandler(server.Options{
				Tasks:          repo,
				Scorer:         scorer,
				Policy:         cfg.Schedule,
				AllowedOrigins: cfg.CORS.AllowedOrigins,
				Logger:         log.Default(),
			})

			log.Printf("wilt listening on %s", cfg.Listen)
			return http.ListenAndServe(cfg.Listen, handler)
		},
	}
}

func newScheduleCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Print today's proposed time blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			tasks, err := repo.List()
			if err != nil {
				return err
			}

			pending := make([]task.Task, 0, len(tasks))
			for _, t := range tasks {
				if !t.IsCompleted() {
					pending = append(pending, t)
				}
			}
			slots, err := cfg.Schedule.Generate(pending, time.Now())
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Println("nothing to schedule")
				return nil
			}

			for _, s := range slots {
				window := fmt.Sprintf("%s - %s",
					s.StartTime.Format("15:04"), s.EndTime.Format("15:04"))
				if s.IsBreak {
					fmt.Printf("%s  (break)\n", window)
					continue
				}
				fmt.Printf("%s  %s [%s, %d min]\n", window,
					s.Task.Title, s.Task.Category, s.Task.EstimatedMinutes)
			}
			if more := cfg.Schedule.Overflow(len(pending)); more > 0 {
				fmt.Printf("+%d more tasks scheduled\n", more)
			}
			return nil
		},
	}
}

func newDecayCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "decay",
		Short: "Show how urgent each task has become",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			tasks, err := repo.List()
			if err != nil {
				return err
			}

			now := time.Now()
			for _, t := range tasks {
				info, err := decay.Classify(t, now)
				if err != nil {
					return err
				}
				fmt.Printf("%-9s %.2f  %s - %s\n",
					info.Level, info.UrgencyScore, t.Title, info.Message)
			}
			return nil
		},
	}
}

func newInsightsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show behavioral insights from the task history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			tasks, err := repo.List()
			if err != nil {
				return err
			}

			insights := insight.Synthesize(tasks, time.Now())
			if len(insights) == 0 {
				fmt.Println("not enough history yet")
				return nil
			}
			for _, in := range insights {
				fmt.Printf("[%s] %s: %s\n", in.Kind, in.Title, in.Message)
			}
			return nil
		},
	}
}

func newMicrotasksCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "microtasks",
		Short: "Suggest tiny starter tasks for work you keep putting off",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			tasks, err := repo.List()
			if err != nil {
				return err
			}

			avoided := microtask.Avoided(tasks, time.Now())
			if len(avoided) == 0 {
				fmt.Println("nothing is being avoided, nice")
				return nil
			}
			fmt.Printf("%d avoided task(s)\n", len(avoided))
			for _, s := range microtask.Suggest(avoided) {
				fmt.Printf("  (%d min) %s\n", s.EstimatedMinutes, s.Title)
			}
			return nil
		},
	}
}

func newStatsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard roll-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			tasks, err := repo.List()
			if err != nil {
				return err
			}

			s := stats.Summarize(tasks)
			fmt.Printf("completion rate: %d%% (%d of %d)\n",
				s.CompletionRate, s.CompletedTasks, s.TotalTasks)
			fmt.Printf("in progress:     %d (%d pending)\n",
				s.InProgressTasks, s.PendingTasks)
			fmt.Printf("time remaining:  %.1fh estimated\n", s.HoursRemaining)
			fmt.Printf("high priority:   %d urgent tasks\n", s.HighPriorityCount)
			return nil
		},
	}
}

func newBackupCmd(cfgPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "wilt-"+ts+".tar.gz")
			}
			if err := ops.Backup(cfg.DataDir, out); err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var archive, target string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			return ops.Restore(archive, target)
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}
