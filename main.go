package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"food-pick/api"
	"food-pick/bot"
	"food-pick/catalog"
	"food-pick/services"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "food-pick",
	Short: "Menu recommendations by situation and weather",
	Long: `food-pick serves a catalog of dishes and recommends up to three of them
for a dining situation and the current weather, over HTTP and Telegram.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (environment variables override it)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, recommendCmd)
	addRecommendFlags(recommendCmd)
}

func addRecommendFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("situation", "", "alone, date, family or group")
	f.String("weather", "", "hot, cold, rainy, snowy, spring or autumn")
	f.StringSlice("categories", nil, "comma-separated categories, e.g. KOREAN,JAPANESE")
	f.Int("max-spicy", 5, "maximum spicy level (0-5)")
	f.Bool("diet", false, "only diet-friendly dishes")
	f.Bool("avoid-liquid", false, "skip soups and saucy dishes")
	f.String("price", "", "UNDER_10K, UNDER_20K, UNDER_30K, OVER_30K or a budget in won")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when a token is configured, the Telegram bot",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Insert catalog menus that are not stored yet",
	Long: `Insert catalog menus that are not stored yet, matched by name.

Without a file the built-in catalog is used.

Examples:
  food-pick seed
  food-pick seed ./menus.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print recommendations as JSON",
	Long: `Print up to three recommended menus as JSON.

Examples:
  food-pick recommend --situation date --weather cold
  food-pick recommend --weather hot --categories KOREAN,JAPANESE --avoid-liquid`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	menus := services.NewMenuService(a.store, a.log)

	var wg sync.WaitGroup
	if a.cfg.Telegram.Token != "" {
		b, err := bot.New(a.cfg, menus, a.log)
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Start(ctx)
		}()
		a.log.Info("telegram bot started")
	} else {
		a.log.Info("telegram token not set, bot disabled")
	}

	srv := api.NewServer(a.cfg.HTTP.Addr, api.RouterConfig{
		MenuHandler: api.NewMenuHandler(menus, a.log),
		Log:         a.log,
	})
	err = srv.Run(ctx, a.cfg.HTTP.ShutdownTimeout)
	stop()
	wg.Wait()
	return err
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.exec == nil {
		a.log.Info("store driver has no SQL migrations", "driver", a.cfg.Store.Driver)
		return nil
	}
	if a.cfg.AutoMigrate {
		// already applied while opening the store
		return nil
	}
	return applyMigrations(ctx, a.exec, a.log)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	items := catalog.Default()
	if len(args) == 1 {
		if items, err = catalog.LoadFile(args[0]); err != nil {
			return err
		}
	}
	n, err := catalog.Seed(ctx, a.store, items, a.log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d menus created\n", n)
	return nil
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	raw, err := rawCriteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	criteria, err := services.CriteriaFromStrings(raw)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := services.NewMenuService(a.store, a.log).Recommend(ctx, criteria)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(api.NewMenuResponses(items), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// rawCriteriaFromFlags leaves optional filters unset unless their flag was
// given explicitly.
func rawCriteriaFromFlags(cmd *cobra.Command) (services.RawCriteria, error) {
	f := cmd.Flags()
	var raw services.RawCriteria
	var err error

	if raw.Situation, err = f.GetString("situation"); err != nil {
		return raw, err
	}
	if raw.Weather, err = f.GetString("weather"); err != nil {
		return raw, err
	}
	if raw.PriceRange, err = f.GetString("price"); err != nil {
		return raw, err
	}
	cats, err := f.GetStringSlice("categories")
	if err != nil {
		return raw, err
	}
	for _, c := range cats {
		if c = strings.TrimSpace(c); c != "" {
			raw.Categories = append(raw.Categories, c)
		}
	}

	if f.Changed("max-spicy") {
		v, err := f.GetInt("max-spicy")
		if err != nil {
			return raw, err
		}
		if v < 0 || v > 5 {
			return raw, fmt.Errorf("--max-spicy must be between 0 and 5, got %d", v)
		}
		raw.MaxSpicy = &v
	}
	if f.Changed("diet") {
		v, err := f.GetBool("diet")
		if err != nil {
			return raw, err
		}
		raw.DietFriendly = &v
	}
	if f.Changed("avoid-liquid") {
		v, err := f.GetBool("avoid-liquid")
		if err != nil {
			return raw, err
		}
		raw.AvoidLiquid = &v
	}
	return raw, nil
}
