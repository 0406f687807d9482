package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/internal/common/config"
	"github.com/amoylab/openai-mcp/internal/core"
	"github.com/amoylab/openai-mcp/pkg/helper"
	"github.com/amoylab/openai-mcp/pkg/utils"
	"github.com/amoylab/openai-mcp/pkg/version"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigFile = "openai-mcp.yaml"

var (
	configPath string
	pidFile    string
	parentIPC  bool

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of " + cnst.CommandName,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", cnst.CommandName, version.Get())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	stdioCmd = &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd.Context())
		},
	}

	lambdaCmd = &cobra.Command{
		Use:   "lambda",
		Short: "Serve MCP as an AWS Lambda function URL handler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLambda(cmd.Context())
		},
	}

	testCmd = &cobra.Command{
		Use:   "test",
		Short: "Test configuration and credentials",
		Long:  "Load the configuration and, in file mode, the credentials file, then report problems without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig()
			if err != nil {
				return err
			}
			if err := checkCredentials(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration file %s test is successful\n", cfgPath)
			return nil
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop a running " + cnst.CommandName + " server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			pm := utils.NewPIDManager(resolvePIDPath(cfg))
			if err := pm.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent SIGTERM to process in %s\n", pm.GetPIDFile())
			return nil
		},
	}

	rootCmd = &cobra.Command{
		Use:   cnst.CommandName,
		Short: "MCP server exposing OpenAI models as a tool",
		Long:  "openai-mcp answers MCP JSON-RPC requests and forwards query_openai tool calls to the OpenAI API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", "", "path to configuration file, like /etc/openai-mcp/openai-mcp.yaml")
	rootCmd.PersistentFlags().StringVar(&pidFile, "pid", "", "path to PID file")
	serveCmd.Flags().BoolVar(&parentIPC, "parent-ipc", false, "read control messages from a parent process on stdin")
	rootCmd.Flags().BoolVar(&parentIPC, "parent-ipc", false, "read control messages from a parent process on stdin")

	rootCmd.AddCommand(versionCmd, serveCmd, stdioCmd, lambdaCmd, testCmd, stopCmd)
}

// loadConfig loads the YAML configuration, falling back to defaults when no
// file was requested and none is found
func loadConfig() (*config.Config, string, error) {
	name := configPath
	if name == "" {
		name = defaultConfigFile
	}
	cfg, cfgPath, err := config.LoadConfig(name)
	if err != nil {
		if configPath == "" && errors.Is(err, os.ErrNotExist) {
			return config.Default(), "(defaults)", nil
		}
		return nil, cfgPath, fmt.Errorf("failed to load configuration %s: %w", cfgPath, err)
	}
	return cfg, cfgPath, nil
}

func resolvePIDPath(cfg *config.Config) string {
	if pidFile != "" {
		return helper.GetPIDPath(pidFile)
	}
	if cfg.PID != "" {
		return helper.GetPIDPath(cfg.PID)
	}
	return helper.GetPIDPath(cnst.AppName + ".pid")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()
	a.logger.Info("starting "+cnst.AppName,
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	if err := a.session.Initialize(ctx); err != nil {
		a.logger.Error("failed to initialize session", zap.Error(err))
		return err
	}

	pm := utils.NewPIDManager(resolvePIDPath(cfg))
	if err := pm.WritePID(); err != nil {
		a.logger.Warn("failed to write PID file", zap.String("path", pm.GetPIDFile()), zap.Error(err))
	} else {
		defer func() {
			if err := pm.RemovePID(); err != nil {
				a.logger.Warn("failed to remove PID file", zap.Error(err))
			}
		}()
	}

	srv := core.NewServer(a.logger, cfg, a.dispatcher, a.gate, a.metrics)
	errCh := srv.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var parentCh <-chan string
	if parentIPC {
		parentCh = core.WatchParent(ctx, a.logger, os.Stdin)
	}

	select {
	case sig := <-quit:
		a.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case reason, ok := <-parentCh:
		if ok {
			a.logger.Info("shutting down", zap.String("reason", reason))
		}
	case err, ok := <-errCh:
		if ok && err != nil {
			return err
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		a.logger.Error("failed to shutdown server", zap.Error(err))
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

func runStdio(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Logger.Output = "stderr"

	a, err := newApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.Initialize(ctx); err != nil {
		a.logger.Error("failed to initialize session", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return core.NewStdioTransport(a.logger, a.dispatcher, os.Stdout).Serve(ctx, os.Stdin)
}

func runLambda(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	// the session initializes on the first invocation
	srv := core.NewServer(a.logger, cfg, a.dispatcher, a.gate, a.metrics)
	lambda.Start(core.NewLambdaAdapter(a.logger, srv.Handler()).Handle)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
