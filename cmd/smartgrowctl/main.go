// Command smartgrowctl exercises the planner, assistant and suggestion
// engine from the terminal. Each invocation starts from the seed tasks;
// nothing is written back.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Tarynjenifer/smartgrow-ai/internal/config"
	"github.com/Tarynjenifer/smartgrow-ai/internal/content"
	"github.com/Tarynjenifer/smartgrow-ai/internal/serverapp"
)

type app struct {
	cfgPath string
	verbose bool
	output  string

	cfg     *config.Config
	content *content.Content
	logger  *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "smartgrowctl",
		Short:         "Inspect the SmartGrow planner, assistant and crop suggestions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", config.DefaultPath, "path to the YAML config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "output format: table, yaml or json")

	root.AddCommand(
		newTasksCmd(a),
		newAskCmd(a),
		newSuggestCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) init(stderr io.Writer) error {
	switch a.output {
	case "table", "yaml", "json":
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := zapcore.WarnLevel
	if a.verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	a.logger = zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(stderr), level))

	c, err := serverapp.LoadContent(cfg)
	if err != nil {
		return err
	}
	a.content = c
	a.logger.Debug("content loaded",
		zap.Int("seed_tasks", len(c.SeedTasks)),
		zap.Int("chat_rules", len(c.Chat.Rules)),
	)
	return nil
}
