// Package cmd - policy command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"landed-cost/core/engine"
	"landed-cost/core/policy"
	"landed-cost/internal/config"
)

var (
	policyFormat    string
	policyID        string
	policyPrice     float64
	policyCost      float64
	policyCostLocal float64
	policyFxRate    float64
	policyTariff    string
	policyOrigin    string
	policyMaterial  string
	policyWeightMin float64
	policyWeightMax float64
	policyMargin    float64
	policyCountries []string
	policyOcean     bool
)

// policyCmd represents the policy command
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Generate a shipping policy rate matrix",
	Long: `Price one item across every destination country and persist the
resulting rate matrix: one row per country with displayed shipping,
handling and the calculated margin.

Excluded destinations get a zero-value row; per-country failures are
reported without aborting the batch.

Examples:
  landed-cost policy --price 120 --cost 65 --tariff 9101.11 --origin JP --weight-min 0.5 --weight-max 1
  landed-cost policy --id summer-watches --countries US,GB,AU --price 120 --cost 65 --tariff 9101.11 --origin JP --weight-min 0.5 --weight-max 1`,
	RunE: runPolicy,
}

func init() {
	policyCmd.Flags().StringVarP(&policyFormat, "format", "f", "cli", "output format (cli, json)")
	policyCmd.Flags().StringVar(&policyID, "id", "", "policy ID (re-running overwrites its rows)")
	policyCmd.Flags().Float64Var(&policyPrice, "price", 0, "candidate item price in USD (required)")
	policyCmd.Flags().Float64Var(&policyCost, "cost", 0, "item cost in USD")
	policyCmd.Flags().Float64Var(&policyCostLocal, "cost-local", 0, "item cost in origin currency")
	policyCmd.Flags().Float64Var(&policyFxRate, "fx-rate", 0, "origin currency per USD")
	policyCmd.Flags().StringVar(&policyTariff, "tariff", "", "HS/HTS tariff code (required)")
	policyCmd.Flags().StringVar(&policyOrigin, "origin", "", "ISO-2 origin country (required)")
	policyCmd.Flags().StringVar(&policyMaterial, "material", "", "material description for trade-remedy checks")
	policyCmd.Flags().Float64Var(&policyWeightMin, "weight-min", 0, "weight band lower bound in kg (required)")
	policyCmd.Flags().Float64Var(&policyWeightMax, "weight-max", 0, "weight band upper bound in kg (required)")
	policyCmd.Flags().Float64Var(&policyMargin, "margin", 0.15, "target margin as a fraction")
	policyCmd.Flags().StringSliceVar(&policyCountries, "countries", nil, "restrict to these ISO-2 countries")
	policyCmd.Flags().BoolVar(&policyOcean, "ocean", false, "item ships by ocean freight")

	policyCmd.MarkFlagRequired("price")
	policyCmd.MarkFlagRequired("tariff")
	policyCmd.MarkFlagRequired("origin")
	policyCmd.MarkFlagRequired("weight-min")
	policyCmd.MarkFlagRequired("weight-max")
}

func runPolicy(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := engine.New(ctx, config.Get())
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := eng.GeneratePolicy(ctx, policy.Request{
		PolicyID:        policyID,
		ItemPriceUsd:    decimal.NewFromFloat(policyPrice),
		ItemCostUsd:     decimal.NewFromFloat(policyCost),
		ItemCostLocal:   decimal.NewFromFloat(policyCostLocal),
		FxRate:          decimal.NewFromFloat(policyFxRate),
		TariffCode:      policyTariff,
		OriginCountry:   policyOrigin,
		MaterialDesc:    policyMaterial,
		WeightBandMinKg: decimal.NewFromFloat(policyWeightMin),
		WeightBandMaxKg: decimal.NewFromFloat(policyWeightMax),
		MarginTarget:    decimal.NewFromFloat(policyMargin),
		Countries:       countryRefs(policyCountries),
		IsOceanFreight:  policyOcean,
	})
	if err != nil {
		return err
	}

	if policyFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printPolicy(result)
	return nil
}

func countryRefs(codes []string) []policy.CountryRef {
	if len(codes) == 0 {
		return nil
	}
	out := make([]policy.CountryRef, len(codes))
	for i, code := range codes {
		out[i] = policy.CountryRef{Code: code}
	}
	return out
}

func printPolicy(result *policy.Result) {
	fmt.Printf("Policy %s: %d countries, %d excluded, %d errored\n",
		result.PolicyID, result.TotalCountries, result.ExcludedCount, result.ErroredCount)
	fmt.Printf("Average margin: %s%%\n\n",
		result.AverageMargin.Mul(decimal.NewFromInt(100)).StringFixed(1))

	fmt.Printf("%-8s %-6s %12s %12s %10s %s\n", "COUNTRY", "ZONE", "SHIPPING", "HANDLING", "MARGIN", "NOTES")
	for _, row := range result.Rows {
		if row.IsExcluded {
			fmt.Printf("%-8s %-6s %12s %12s %10s excluded: %s\n",
				row.CountryCode, "-", "-", "-", "-", row.ExclusionReason)
			continue
		}
		notes := ""
		if row.IsDdp {
			notes = "DDP"
		}
		fmt.Printf("%-8s %-6s %12s %12s %9s%% %s\n",
			row.CountryCode, row.ZoneCode,
			"$"+row.ShippingCostUsd.StringFixed(2),
			"$"+row.HandlingFeeUsd.StringFixed(2),
			row.CalculatedMargin.Mul(decimal.NewFromInt(100)).StringFixed(1),
			notes)
	}

	if len(result.Errors) > 0 {
		fmt.Println()
		fmt.Printf("Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %s: [%s] %s\n", e.CountryCode, e.Reason, e.Message)
		}
	}
}
