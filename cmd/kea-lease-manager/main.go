package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thanhtantran/kea-lease-manager/internal/config"
	"github.com/thanhtantran/kea-lease-manager/internal/keaconf"
	"github.com/thanhtantran/kea-lease-manager/internal/lease"
	"github.com/thanhtantran/kea-lease-manager/internal/monitor"
	"github.com/thanhtantran/kea-lease-manager/internal/reservation"
	"github.com/thanhtantran/kea-lease-manager/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "kea-lease-manager",
	Short: "Web UI and API over the Kea DHCP4 lease file",
	RunE:  runServe,
}

var leasesCmd = &cobra.Command{
	Use:   "leases",
	Short: "Print the deduplicated active lease snapshot",
	RunE:  runLeases,
}

var subnetsCmd = &cobra.Command{
	Use:   "subnets",
	Short: "Print the subnet topology from the Kea config",
	RunE:  runSubnets,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "kea-lease-manager.ini", "Path to INI configuration file")
	leasesCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output JSON instead of a table")
	subnetsCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output JSON instead of a table")

	rootCmd.AddCommand(leasesCmd, subnetsCmd)
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies the log level. A missing
// INI file just means defaults plus environment overrides.
func loadConfig() *config.Config {
	cfg, err := config.New(configFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg
}

func setupLogging(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	logrus.Infof("Starting Kea DHCP Lease Manager %s", version)
	logrus.Infof("Reading lease file: %s", cfg.LeaseFile)
	logrus.Infof("Reading Kea config: %s", cfg.KeaConfigFile)

	rec := lease.NewReconciler(lease.NewSource(cfg.LeaseFile))
	ext := keaconf.NewExtractor(cfg.KeaConfigFile)
	builder := reservation.NewBuilder(cfg.KeaConfigFile)

	var mon *monitor.Monitor
	if cfg.Watch {
		mon = monitor.New(cfg)
		if err := mon.Start(); err != nil {
			logrus.Warnf("File watcher disabled: %v", err)
			mon = nil
		} else {
			defer mon.Stop()
		}
	}

	webServer := web.NewServer(cfg, rec, ext, builder, mon)
	go func() {
		logrus.Infof("Starting HTTP server on %s", cfg.HTTPListen)
		if err := webServer.Start(); err != nil {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logrus.Info("Shutting down...")
	return nil
}

func runLeases(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	leases, err := lease.NewReconciler(lease.NewSource(cfg.LeaseFile)).Active()
	if err != nil {
		return err
	}

	if jsonOutput {
		out, err := json.MarshalIndent(map[string]interface{}{"leases": leases}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "IP\tMAC\tHOSTNAME\tEXPIRES\tSUBNET")
	for _, l := range leases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.IP, l.MAC, l.Hostname, l.Expire, l.SubnetID)
	}
	return w.Flush()
}

func runSubnets(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	subnets := keaconf.NewExtractor(cfg.KeaConfigFile).Subnets()

	if jsonOutput {
		out, err := json.MarshalIndent(map[string]interface{}{"subnets": subnets}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	ids := make([]string, 0, len(subnets))
	for id := range subnets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Printf("ID %s: %s\n", id, subnets[id])
	}
	return nil
}
