package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"aichannel/pkg/config"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the aichannel system service",
	Long: `Install and control aichannel as a system service.

Examples:
  # Install as system service (requires sudo/admin privileges)
  sudo aichannel -c /etc/aichannel/config.yaml service install

  # Control the service
  sudo aichannel service start
  sudo aichannel service stop
  sudo aichannel service status

  # Uninstall the service
  sudo aichannel service uninstall`,
}

func init() {
	actions := []struct {
		use   string
		short string
		run   func() error
	}{
		{"install", "Install aichannel as a system service", InstallService},
		{"uninstall", "Uninstall the aichannel service", UninstallService},
		{"start", "Start the aichannel service", StartService},
		{"stop", "Stop the aichannel service", StopService},
		{"restart", "Restart the aichannel service", RestartService},
		{"status", "Check the aichannel service status", StatusService},
	}

	for _, a := range actions {
		run := a.run
		use := a.use
		serviceCmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: a.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := run(); err != nil {
					if use != "status" {
						fmt.Fprintln(os.Stderr, "Note: managing system services requires administrator privileges.")
					}
					return err
				}
				return nil
			},
		})
	}
}

// BotService implements service.Interface for the bot.
type BotService struct {
	app    *fx.App
	logger service.Logger
}

// NewBotService creates a new bot service.
func NewBotService() *BotService {
	return &BotService{}
}

// Start implements service.Interface.Start
func (s *BotService) Start(svc service.Service) error {
	if s.logger != nil {
		_ = s.logger.Info("Starting aichannel service")
	}

	s.app = fx.New(appOptions(serviceConfigPath(), "service")...)
	if err := s.app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.app.Start(ctx)
}

// Stop implements service.Interface.Stop
func (s *BotService) Stop(svc service.Service) error {
	if s.logger != nil {
		_ = s.logger.Info("Stopping aichannel service")
	}

	if s.app == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.app.Stop(ctx); err != nil {
		if s.logger != nil {
			_ = s.logger.Errorf("Error stopping service: %v", err)
		}
		return err
	}
	return nil
}

// serviceConfigPath resolves the config path from the flag, then the env var.
func serviceConfigPath() string {
	if p := strings.TrimSpace(configPath); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(config.ConfigPathEnv))
}

// ServiceConfig returns the service configuration.
func ServiceConfig() *service.Config {
	args := []string{"run"}
	if p := serviceConfigPath(); p != "" {
		args = append([]string{"-c", p}, args...)
	}

	return &service.Config{
		Name:        "aichannel",
		DisplayName: "aichannel Discord AI bot",
		Description: "Relays a Discord channel to an AI chat completion API",
		Arguments:   args,
	}
}

// runningUnderServiceManager reports whether a service manager launched us.
func runningUnderServiceManager() bool {
	return os.Getenv("INVOCATION_ID") != "" || // systemd
		os.Getenv("_") == "/bin/launchd" || // launchd
		!service.Interactive()
}

func newService() (service.Service, *BotService, error) {
	prg := NewBotService()
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("creating service: %w", err)
	}
	return s, prg, nil
}

// InstallService installs the bot as a system service.
func InstallService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Install(); err != nil {
		return fmt.Errorf("installing service: %w", err)
	}

	fmt.Println("Service installed successfully!")
	fmt.Println("Use 'aichannel service start' to start the service")
	return nil
}

// UninstallService uninstalls the service.
func UninstallService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Uninstall(); err != nil {
		return fmt.Errorf("uninstalling service: %w", err)
	}

	fmt.Println("Service uninstalled successfully!")
	return nil
}

// StartService starts the service.
func StartService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}

	fmt.Println("Service started successfully!")
	return nil
}

// StopService stops the service.
func StopService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Stop(); err != nil {
		return fmt.Errorf("stopping service: %w", err)
	}

	fmt.Println("Service stopped successfully!")
	return nil
}

// RestartService restarts the service.
func RestartService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Restart(); err != nil {
		return fmt.Errorf("restarting service: %w", err)
	}

	fmt.Println("Service restarted successfully!")
	return nil
}

// StatusService prints the service status.
func StatusService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}

	st, err := s.Status()
	if err != nil {
		return fmt.Errorf("getting service status: %w", err)
	}

	fmt.Printf("Service Status: %s\n", statusString(st))
	return nil
}

func statusString(st service.Status) string {
	switch st {
	case service.StatusRunning:
		return "Running"
	case service.StatusStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// RunService runs under the service manager.
func RunService() error {
	s, prg, err := newService()
	if err != nil {
		return err
	}

	logger, err := s.Logger(nil)
	if err != nil {
		return fmt.Errorf("creating service logger: %w", err)
	}
	prg.logger = logger

	if err := s.Run(); err != nil {
		_ = logger.Error(err)
		return err
	}
	return nil
}
