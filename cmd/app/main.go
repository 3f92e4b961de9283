package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"profile/config"
	"profile/internal/command"
	"profile/internal/log"
	"profile/utils/path"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	_ "profile/cmd/docs"
)

var (
	rootPath = path.RootPath()
	Version  string
	envPath  string
	yamlPath string
	conf     *config.Configuration
	logger   *zap.Logger
)

func init() {
	pflag.StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	pflag.StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")

	cobra.OnInitialize(func() {
		if envPath != "" && yamlPath != "" {
			fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
		}
		initConfig()
	})
}

// @title        profile API
// @version      1.0
// @description  用戶資料服務：讀取走 redis 投影，寫入交給 processor
// @host         localhost:3000
// @basePath     /
// @securityDefinitions.apikey UserID
// @in   header
// @name X-User-ID
// @description 由 gateway 帶入的用戶 uuid
func main() {
	rootCmd := &cobra.Command{
		Use: "app",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if conf == nil {
				return fmt.Errorf("config is nil! Check config/initConfig logic")
			}
			// 初始化 logger，子命令共用
			var err error
			logger, err = log.NewLogger(conf)
			if err != nil {
				return fmt.Errorf("init logger failed: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		Run: func(cmd *cobra.Command, args []string) {
			app, cleanup, err := wireApp(conf, logger)
			if err != nil {
				panic(err)
			}
			defer cleanup()

			logger.Info("start app ...")
			if err := app.Run(); err != nil {
				panic(err)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("shutdown app ...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := app.Stop(ctx); err != nil {
				panic(err)
			}
		},
	}
	rootCmd.Version = Version
	// 旗標交給 cobra 解析，子命令也能使用 --env/--config
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)

	command.Register(rootCmd, func() (*command.Command, func(), error) {
		return wireCommand(conf, logger)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	switch {
	case envPath != "":
		fmt.Println("load .env config:", envPath)
	case yamlPath != "":
		fmt.Println("load yaml config:", yamlPath)
	default:
		fmt.Println("No configuration file specified, using environment variables only.")
	}

	loaded, err := config.Load(config.Source{
		RootPath: rootPath,
		EnvFile:  envPath,
		YamlFile: yamlPath,
		OnChange: func(changed *config.Configuration) {
			fmt.Println("config file changed, reloaded")
			*conf = *changed
		},
	})
	if err != nil {
		panic(err)
	}
	conf = loaded
}
