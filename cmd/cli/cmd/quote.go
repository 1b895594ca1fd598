// Package cmd - quote command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"landed-cost/core/engine"
	"landed-cost/core/types"
	"landed-cost/internal/config"
)

var (
	quoteFormat    string
	quoteCountry   string
	quotePrice     float64
	quoteCost      float64
	quoteCostLocal float64
	quoteFxRate    float64
	quoteTariff    string
	quoteOrigin    string
	quoteMaterial  string
	quoteWeight    float64
	quoteLength    float64
	quoteWidth     float64
	quoteHeight    float64
	quoteMargin    float64
	quoteOcean     bool
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price one item for one destination",
	Long: `Compute the full landed-cost verdict for a single destination:
duty classification, reference shipping rate, synthesized display price,
cost breakdown, profit, margin and grade.

Examples:
  landed-cost quote --country US --price 120 --cost-local 9800 --tariff 9101.11 --origin JP --weight 0.8
  landed-cost quote --country GB --price 80 --cost 40 --tariff 950300 --origin JP --weight 1.2 --format json`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "cli", "output format (cli, json)")
	quoteCmd.Flags().StringVar(&quoteCountry, "country", "", "ISO-2 destination country (required)")
	quoteCmd.Flags().Float64Var(&quotePrice, "price", 0, "candidate item price in USD (required)")
	quoteCmd.Flags().Float64Var(&quoteCost, "cost", 0, "item cost in USD")
	quoteCmd.Flags().Float64Var(&quoteCostLocal, "cost-local", 0, "item cost in origin currency")
	quoteCmd.Flags().Float64Var(&quoteFxRate, "fx-rate", 0, "origin currency per USD (default from config)")
	quoteCmd.Flags().StringVar(&quoteTariff, "tariff", "", "HS/HTS tariff code (required)")
	quoteCmd.Flags().StringVar(&quoteOrigin, "origin", "", "ISO-2 origin country (required)")
	quoteCmd.Flags().StringVar(&quoteMaterial, "material", "", "material description for trade-remedy checks")
	quoteCmd.Flags().Float64Var(&quoteWeight, "weight", 0, "actual weight in kg (required)")
	quoteCmd.Flags().Float64Var(&quoteLength, "length", 0, "package length in cm")
	quoteCmd.Flags().Float64Var(&quoteWidth, "width", 0, "package width in cm")
	quoteCmd.Flags().Float64Var(&quoteHeight, "height", 0, "package height in cm")
	quoteCmd.Flags().Float64Var(&quoteMargin, "margin", 0.15, "target margin as a fraction")
	quoteCmd.Flags().BoolVar(&quoteOcean, "ocean", false, "item ships by ocean freight")

	quoteCmd.MarkFlagRequired("country")
	quoteCmd.MarkFlagRequired("price")
	quoteCmd.MarkFlagRequired("tariff")
	quoteCmd.MarkFlagRequired("origin")
	quoteCmd.MarkFlagRequired("weight")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := engine.New(ctx, config.Get())
	if err != nil {
		return err
	}
	defer eng.Close()

	resp, err := eng.Quote(ctx, engine.QuoteRequest{
		DestinationCountry: quoteCountry,
		ItemPriceUsd:       decimal.NewFromFloat(quotePrice),
		ItemCostUsd:        decimal.NewFromFloat(quoteCost),
		ItemCostLocal:      decimal.NewFromFloat(quoteCostLocal),
		FxRate:             decimal.NewFromFloat(quoteFxRate),
		TariffCode:         quoteTariff,
		OriginCountry:      quoteOrigin,
		MaterialDesc:       quoteMaterial,
		WeightKg:           decimal.NewFromFloat(quoteWeight),
		Dimensions: types.Dimensions{
			LengthCm: decimal.NewFromFloat(quoteLength),
			WidthCm:  decimal.NewFromFloat(quoteWidth),
			HeightCm: decimal.NewFromFloat(quoteHeight),
		},
		MarginTarget:   decimal.NewFromFloat(quoteMargin),
		IsOceanFreight: quoteOcean,
	})
	if err != nil {
		return err
	}

	if quoteFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printQuote(resp)
	return nil
}

func printQuote(resp *engine.QuoteResponse) {
	fmt.Printf("Destination:       %s (zone %s, %s)\n", resp.DestinationCountry, resp.ZoneCode, resp.Quote.Incoterm)
	fmt.Printf("Chargeable weight: %s kg\n", resp.ChargeableWeightKg)
	fmt.Printf("Duty rate:         %s%% (%s)\n", resp.Classification.CompositeRate.Mul(decimal.NewFromInt(100)), resp.Classification.TariffCode)
	fmt.Println()
	fmt.Printf("Display price:\n")
	fmt.Printf("  Item:            $%s\n", resp.Quote.ItemPriceUsd.StringFixed(2))
	fmt.Printf("  Shipping:        $%s\n", resp.Quote.ShippingDisplayUsd.StringFixed(2))
	fmt.Printf("  Handling:        $%s\n", resp.Quote.HandlingFeeUsd.StringFixed(2))
	fmt.Printf("  Total:           $%s\n", resp.Quote.TotalDisplayUsd.StringFixed(2))
	fmt.Println()
	fmt.Printf("Landed cost:       $%s\n", resp.Breakdown.TotalCostUsd.StringFixed(2))
	fmt.Printf("Profit:            $%s\n", resp.Profit.ProfitUsd.StringFixed(2))
	fmt.Printf("Margin:            %s%%\n", resp.Profit.MarginPercent.Mul(decimal.NewFromInt(100)).StringFixed(1))
	fmt.Printf("ROI:               %s%%\n", resp.Profit.RoiPercent.Mul(decimal.NewFromInt(100)).StringFixed(1))
	fmt.Printf("Grade:             %s\n", resp.Profit.Grade)

	if resp.Compliance.Flagged() {
		fmt.Println()
		if resp.Compliance.ShippingExceedsCeiling {
			fmt.Printf("Warning: shipping exceeds ceiling $%s\n", resp.Compliance.ShippingCeilingUsd.StringFixed(2))
		}
		if resp.Compliance.HandlingExceedsCeiling {
			fmt.Printf("Warning: handling exceeds ceiling $%s\n", resp.Compliance.HandlingCeilingUsd.StringFixed(2))
		}
	}
}
