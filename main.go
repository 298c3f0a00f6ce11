package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fraccalc/config"
	"fraccalc/core/interpreter"
	"fraccalc/core/realtime"
	"fraccalc/logger"
	"fraccalc/ui"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fraccalc",
		Short: "Калькулятор дробей с фиксированной точкой (три знака после точки)",
		Example: strings.TrimSpace(`
  fraccalc --addr :9090 --no-browser
  fraccalc console --data-file ./calc.json`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "путь к TOML файлу (по умолчанию ~/.fraccalc/config.toml)")
	pf.String("data-file", "", "файл истории и переменных")
	pf.String("log-level", "", "уровень логирования: debug, info, warn, error")

	root.Flags().String("addr", "", "адрес HTTP сервера")
	root.Flags().Bool("no-browser", false, "не открывать браузер при запуске")

	web := &cobra.Command{
		Use:   "web",
		Short: "HTTP API и WebSocket (режим по умолчанию)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(cmd)
		},
	}
	web.Flags().AddFlagSet(root.Flags())
	root.AddCommand(web)

	root.AddCommand(&cobra.Command{
		Use:   "console",
		Short: "Интерактивная консоль",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			interp, err := newInterpreter(cfg)
			if err != nil {
				return err
			}
			return ui.NewConsoleInterface(interp, os.Stdin, os.Stdout).Run()
		},
	})

	return root
}

// loadConfig - файл и окружение, затем явно заданные флаги
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	cmd.Flags().Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Addr = fl.Value.String()
		case "data-file":
			cfg.DataFile = fl.Value.String()
		case "log-level":
			cfg.LogLevel = fl.Value.String()
		case "no-browser":
			cfg.OpenBrowser = fl.Value.String() != "true"
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Setup(cfg.LogLevel)
	return cfg, nil
}

func newInterpreter(cfg *config.Config) (*interpreter.Interpreter, error) {
	return interpreter.NewInterpreter(interpreter.Options{
		DataFile:     cfg.DataFile,
		HistoryLimit: cfg.HistoryLimit,
	})
}

func runWeb(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Logger()

	interp, err := newInterpreter(cfg)
	if err != nil {
		return err
	}

	rt := realtime.NewServer(interp, realtime.Options{
		Secret:   cfg.JWTSecret,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	web := ui.NewWebInterface(interp, rt, cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	calcURL := localURL(cfg.Addr)
	if cfg.OpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := open.Run(calcURL); err != nil {
				log.Warn().Err(err).Msg("не удалось открыть браузер")
			}
		}()
	}

	log.Info().Str("url", calcURL).Str("data_file", cfg.DataFile).Msg("калькулятор запущен, Ctrl+C для выхода")
	return web.Start(ctx, cfg.Addr)
}

// localURL - адрес для браузера по адресу прослушивания
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
