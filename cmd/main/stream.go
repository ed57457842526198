package main

import (
	"fmt"

	"easykaiko/src/factories"
	"easykaiko/src/kaiko"
	"easykaiko/src/models"
	"easykaiko/src/serializers"

	"github.com/spf13/cobra"
)

var (
	streamCmdAggregate string
	streamCmdGateway   string
	streamCmdCount     int
)

var streamCmd = &cobra.Command{
	Use:   "stream <ohlcv|vwap|trades> <exchange> <instrument_class> <code>",
	Short: "Print realtime messages as JSON lines",
	Long:  "Subscribe to a realtime stream and print each message as one JSON line until interrupted or --count is reached",
	Args:  cobra.ExactArgs(4),
	RunE:  streamMain,
}

func streamMain(cmd *cobra.Command, args []string) error {
	apiKey, err := apiKeyFromEnv()
	if err != nil {
		return err
	}

	client := kaiko.NewClient(apiKey, kaiko.WithGateway(streamCmdGateway), kaiko.WithLogger(cliLogger()))
	criteria := models.MInstrumentCriteria{Exchange: args[1], InstrumentClass: args[2], Code: args[3]}

	messages, err := client.Subscribe(cmd.Context(), models.MStreamType(args[0]), criteria, streamCmdAggregate)
	if err != nil {
		return err
	}

	serializer := serializers.NewJSONSerializer()
	printed := 0
	for msg, err := range messages {
		if err != nil {
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		}
		line, err := serializer.Marshal(msg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(line)); err != nil {
			return err
		}
		printed++
		if streamCmdCount > 0 && printed >= streamCmdCount {
			break
		}
	}
	return nil
}

func init() {
	streamCmd.Flags().StringVarP(&streamCmdAggregate, "aggregate", "a", "", "aggregation window for ohlcv and vwap (default 1m)")
	streamCmd.Flags().StringVar(&streamCmdGateway, "gateway", factories.DefaultGateway, "streaming gateway host:port")
	streamCmd.Flags().IntVarP(&streamCmdCount, "count", "n", 0, "stop after this many messages (0 streams until interrupted)")

	rootCmd.AddCommand(streamCmd)
}
