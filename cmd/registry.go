package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doongjohn/wirechan/logging"
	"github.com/doongjohn/wirechan/registry"
)

var (
	registryListen string
	registryRedis  string
	registryConfig string
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Run a peer registry",
	Long:  `Serve /announce and /scrape so hubs and peers can find each other. Peers are held in memory unless a redis address is given.`,
	RunE:  runRegistry,
}

func init() {
	registryCmd.Flags().StringVarP(&registryListen, "listen", "l", "", "Address to listen on")
	registryCmd.Flags().StringVar(&registryRedis, "redis", "", "Redis address for persistent peer storage")
	registryCmd.Flags().StringVarP(&registryConfig, "config", "c", "", "Path to a TOML config file")

	rootCmd.AddCommand(registryCmd)
}

func runRegistry(cmd *cobra.Command, args []string) error {
	logger := logging.InitLogger("wirechan-registry")

	cfg := DefaultRegistryConfig()
	if registryConfig != "" {
		var err error
		cfg, err = loadRegistryConfig(registryConfig)
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("listen") {
		cfg.Listen = registryListen
	}
	if cmd.Flags().Changed("redis") {
		cfg.RedisAddr = registryRedis
	}

	var store registry.Storage
	backend := "memory"
	if cfg.RedisAddr != "" {
		store = registry.NewRedisStorage(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		backend = "redis"
	} else {
		store = registry.NewMemoryStorage()
	}
	defer store.Close()

	reg := registry.NewRegistry(cfg.Listen, store, logger)

	PrintLogoSmall()
	PrintHeader("REGISTRY")

	PrintSection("Storage")
	PrintStatus("Backend", backend, Cyan)
	if cfg.RedisAddr != "" {
		PrintKeyValue("Redis", cfg.RedisAddr)
	}

	PrintSection("Network")
	PrintKeyValue("Listen", cfg.Listen)

	PrintDivider()
	PrintInfo("Waiting for announces...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		PrintInfo("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		reg.Shutdown(ctx)
		os.Exit(0)
	}()

	return reg.Start()
}
