package cmd

import (
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doongjohn/wirechan/hubserver"
	"github.com/doongjohn/wirechan/logging"
	"github.com/doongjohn/wirechan/p2p"
)

var (
	hubListen   string
	hubNetwork  string
	hubRegistry string
	hubConsole  bool
	hubConfig   string
)

var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Run a relay hub",
	Long:  `Accept peers for a network id and relay every data message to all other connected peers.`,
	RunE:  runHub,
}

func init() {
	hubCmd.Flags().StringVarP(&hubListen, "listen", "l", "", "Address to listen on")
	hubCmd.Flags().StringVarP(&hubNetwork, "network", "n", "", "Network id (40 hex chars or a name)")
	hubCmd.Flags().StringVarP(&hubRegistry, "registry", "r", "", "Registry URL to announce to")
	hubCmd.Flags().BoolVar(&hubConsole, "console", false, "Mirror relayed payloads to stdout")
	hubCmd.Flags().StringVarP(&hubConfig, "config", "c", "", "Path to a TOML config file")

	rootCmd.AddCommand(hubCmd)
}

func runHub(cmd *cobra.Command, args []string) error {
	logger := logging.InitLogger("wirechan-hub")

	cfg := DefaultHubConfig()
	if hubConfig != "" {
		var err error
		cfg, err = loadHubConfig(hubConfig)
		if err != nil {
			return err
		}
	}

	// explicit flags win over the config file
	if cmd.Flags().Changed("listen") {
		cfg.Listen = hubListen
	}
	if cmd.Flags().Changed("network") {
		cfg.Network = networkID(hubNetwork)
	}
	if cmd.Flags().Changed("registry") {
		cfg.Registry = hubRegistry
	}
	if cmd.Flags().Changed("console") {
		cfg.Console = hubConsole
	}

	var sinks []p2p.Peer
	if cfg.Console {
		sinks = append(sinks, p2p.NewConsolePeer(os.Stdout, "hub"))
	}

	server := hubserver.NewHubServer(hubserver.HubServerOpts{
		TCPTransportOpts: p2p.TCPTransportOpts{
			ListenAddr: cfg.Listen,
			Handshake:  p2p.DefaultHandshakeFunc,
			Decoder:    &p2p.BinaryDecoder{},
			Network:    cfg.Network,
		},
		RegistryURL:      cfg.Registry,
		AnnounceInterval: cfg.AnnounceInterval,
		Sinks:            sinks,
		Logger:           logger,
	})

	PrintLogoSmall()
	PrintHeader("HUB")

	PrintSection("Network")
	PrintKeyValueHighlight("Network", hex.EncodeToString(cfg.Network[:]))
	PrintKeyValue("Listen", cfg.Listen)
	if cfg.Registry != "" {
		PrintKeyValue("Registry", cfg.Registry)
	}
	PrintStatus("Mode", "relay", Cyan)

	PrintDivider()
	PrintInfo("Relaying, waiting for peers...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		PrintInfo("Shutting down...")
		server.Stop()
		os.Exit(0)
	}()

	return server.Start()
}
