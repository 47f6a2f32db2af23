package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/output"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxForecastDays = 366

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run predictions for a range of dates and export them to the configured sinks",
	Example: `  vendorcast forecast --from 2025-10-01 --to 2025-10-31 --festival 2025-10-20 --payday
  vendorcast forecast --vendor Raman_Chai_Wala_Connaught_Place --weather rainy --echo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		flags := cmd.Flags()
		if echo, _ := flags.GetBool("echo"); echo {
			a.addSink(output.NewConsoleOutput(cmd.OutOrStdout()))
		}

		vendorIDs, _ := flags.GetStringSlice("vendor")
		if len(vendorIDs) == 0 {
			vendorIDs = a.pred.VendorIDs()
		}
		if len(vendorIDs) == 0 {
			return errors.New("no vendors in memory, run `vendorcast seed --demo` first")
		}

		now := time.Now()
		fromStr, _ := flags.GetString("from")
		toStr, _ := flags.GetString("to")
		from, err := models.ParseDate(fromStr, now)
		if err != nil {
			return err
		}
		to, err := models.ParseDate(toStr, now)
		if err != nil {
			return err
		}
		if to.Before(from) {
			return fmt.Errorf("--to %s is before --from %s", to.Format(models.DateLayout), from.Format(models.DateLayout))
		}
		days := int(to.Sub(from).Hours()/24) + 1
		if days > maxForecastDays {
			return fmt.Errorf("date range of %d days exceeds %d", days, maxForecastDays)
		}

		weather := a.cfg.Defaults.Weather
		if w, _ := flags.GetString("weather"); w != "" {
			if weather, err = models.ParseWeather(w); err != nil {
				return err
			}
		}
		temperature := a.cfg.Defaults.Temperature
		if flags.Changed("temperature") {
			temperature, _ = flags.GetInt("temperature")
		}
		festivalList, _ := flags.GetStringSlice("festival")
		festivals := make(map[string]bool, len(festivalList))
		for _, f := range festivalList {
			d, err := models.ParseDate(f, now)
			if err != nil {
				return fmt.Errorf("--festival: %w", err)
			}
			festivals[d.Format(models.DateLayout)] = true
		}
		payday, _ := flags.GetBool("payday")

		profiles := make([]models.VendorProfile, 0, len(vendorIDs))
		for _, id := range vendorIDs {
			p, err := a.pred.Vendor(id)
			if err != nil {
				return err
			}
			profiles = append(profiles, p)
		}

		bar := progressbar.NewOptions(len(profiles)*days,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("forecasting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		var totalMin, totalMax int
		for _, profile := range profiles {
			for d := 0; d < days; d++ {
				date := from.AddDate(0, 0, d)
				day := models.NewDayContext(date, weather, temperature, festivals[date.Format(models.DateLayout)], payday)
				out, err := a.pred.Predict(cmd.Context(), profile, day)
				if err != nil {
					bar.Exit()
					return fmt.Errorf("forecast %s on %s: %w", profile.ID(), day.Date, err)
				}
				totalMin += out.ExpectedRevenue.Min
				totalMax += out.ExpectedRevenue.Max
				bar.Add(1)
			}
		}
		bar.Finish()

		a.logger.Info("forecast complete",
			zap.Int("vendors", len(profiles)),
			zap.Int("days", days),
			zap.Int("revenue_min_total", totalMin),
			zap.Int("revenue_max_total", totalMax),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Forecast %d vendor(s) over %d day(s): expected revenue ₹%d – ₹%d\n",
			len(profiles), days, totalMin, totalMax)
		return nil
	},
}

func init() {
	forecastCmd.Flags().StringSlice("vendor", nil, "vendor id to forecast (repeatable, default all)")
	forecastCmd.Flags().String("from", "", "first date, YYYY-MM-DD (default today)")
	forecastCmd.Flags().String("to", "", "last date, YYYY-MM-DD (default today)")
	forecastCmd.Flags().String("weather", "", "weather for every day: sunny, rainy, cloudy or hot (default from config)")
	forecastCmd.Flags().Int("temperature", 0, "temperature in °C for every day (default from config)")
	forecastCmd.Flags().StringSlice("festival", nil, "festival dates, YYYY-MM-DD (repeatable)")
	forecastCmd.Flags().Bool("payday", false, "treat every day as payday week")
	forecastCmd.Flags().Bool("echo", false, "also print each prediction record as a JSON line")
	rootCmd.AddCommand(forecastCmd)
}
