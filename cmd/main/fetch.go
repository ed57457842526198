package main

import (
	"encoding/json"
	"fmt"
	"time"

	"easykaiko/src/kaiko"
	"easykaiko/src/models"
	"easykaiko/src/rest"
	"easykaiko/src/serializers"

	"github.com/spf13/cobra"
)

var (
	fetchCmdStart, fetchCmdEnd     string
	fetchCmdInterval, fetchCmdSort string
	fetchCmdRegion                 string
	fetchCmdPageSize               int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <ohlcv|vwap|trades> <exchange> <instrument_class> <code>",
	Short: "Fetch historical data across all pages",
	Long:  "Fetch every page of a historical query and print the records as a JSON array",
	Args:  cobra.ExactArgs(4),
	RunE:  fetchMain,
}

func fetchMain(cmd *cobra.Command, args []string) error {
	apiKey, err := apiKeyFromEnv()
	if err != nil {
		return err
	}

	params := rest.QueryParams{
		Interval: fetchCmdInterval,
		Sort:     fetchCmdSort,
		PageSize: fetchCmdPageSize,
	}
	if params.StartTime, err = parseTime("start-time", fetchCmdStart); err != nil {
		return err
	}
	if params.EndTime, err = parseTime("end-time", fetchCmdEnd); err != nil {
		return err
	}

	client := kaiko.NewClient(apiKey, kaiko.WithRegion(fetchCmdRegion), kaiko.WithLogger(cliLogger()))
	exchange, class, code := args[1], args[2], args[3]

	ctx := cmd.Context()
	var get func() ([]json.RawMessage, error)
	switch models.MStreamType(args[0]) {
	case models.StreamTypeOHLCV:
		get = func() ([]json.RawMessage, error) { return client.GetOHLCV(ctx, exchange, class, code, params) }
	case models.StreamTypeVWAP:
		get = func() ([]json.RawMessage, error) { return client.GetVWAP(ctx, exchange, class, code, params) }
	case models.StreamTypeTrades:
		get = func() ([]json.RawMessage, error) { return client.GetTrades(ctx, exchange, class, code, params) }
	default:
		return fmt.Errorf("unknown data type '%s' (want ohlcv, vwap or trades)", args[0])
	}

	records, err := get()
	if err != nil {
		return err
	}
	out, err := serializers.NewJSONSerializer().Marshal(records)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func parseTime(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return t, nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchCmdStart, "start-time", "", "start of the range, RFC 3339")
	fetchCmd.Flags().StringVar(&fetchCmdEnd, "end-time", "", "end of the range, RFC 3339")
	fetchCmd.Flags().StringVarP(&fetchCmdInterval, "interval", "i", "", "aggregation interval, e.g. 1h or 1d")
	fetchCmd.Flags().StringVar(&fetchCmdSort, "sort", "", "asc or desc")
	fetchCmd.Flags().IntVar(&fetchCmdPageSize, "page-size", 0, "records per page")
	fetchCmd.Flags().StringVar(&fetchCmdRegion, "region", rest.DefaultRegion, "API region")

	rootCmd.AddCommand(fetchCmd)
}
