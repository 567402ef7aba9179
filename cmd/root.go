package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/constants"
)

func Start() {
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str(constants.KEY_APP_NAME, constants.APP_STOREFRONT).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	var configName string
	rootCmd := &cobra.Command{
		Use:   constants.APP_STOREFRONT,
		Short: "Storefront backend serving catalog, cart and checkout views",
	}
	rootCmd.PersistentFlags().
		StringVar(&configName, "config", constants.APP_STOREFRONT, "name of the config file under ./env")
	commands := []*cobra.Command{
		{
			Use:   "serve",
			Short: "Run storefront server",
			Run: func(cmd *cobra.Command, args []string) {
				runStorefrontServer(cmd.Context(), configName)
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
