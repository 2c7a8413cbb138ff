package analytics

import (
	"fmt"
	"slices"
	"strings"
)

const (
	lowCashRatio          = 0.10
	highCashRatio         = 0.40
	highUtilization       = 0.95
	utilizationExposure   = 30.0
	concentrationTopN     = 3
	concentrationExposure = 60.0
)

// ExoticAssets is the watch-list of loan assets treated as exotic stables.
// Matching is case-insensitive.
var ExoticAssets = []string{"USDe", "sUSDe", "USD0", "USD0++", "deUSD", "sdeUSD", "USR", "wstUSR", "USDX", "sUSDX", "frxUSD", "AUSD"}

// VaultState is the subset of current vault state the risk rules look at.
type VaultState struct {
	// CashRatio is the idle fraction of total assets, when known.
	CashRatio *float64
}

// EvaluateRisk applies the liquidity, utilization, concentration and exotic
// exposure rules in that order and returns the warnings that fire. A nil
// state yields no warnings.
func EvaluateRisk(state *VaultState, rows []CompositionRow) []string {
	if state == nil {
		return nil
	}
	var warnings []string

	if state.CashRatio != nil {
		switch ratio := *state.CashRatio; {
		case ratio < lowCashRatio:
			warnings = append(warnings, fmt.Sprintf("Low liquidity: only %.1f%% of assets are idle and immediately withdrawable.", ratio*100))
		case ratio > highCashRatio:
			warnings = append(warnings, fmt.Sprintf("High idle cash: %.1f%% of assets are not deployed to markets.", ratio*100))
		}
	}

	sorted := make([]CompositionRow, len(rows))
	copy(sorted, rows)
	sortByShare(sorted)

	utilized := 0.0
	for _, r := range sorted {
		if r.Utilization != nil && *r.Utilization >= highUtilization && r.Percent != nil {
			utilized += *r.Percent
		}
	}
	if utilized >= utilizationExposure {
		warnings = append(warnings, fmt.Sprintf("High market utilization: %.1f%% of the vault sits in markets at or above %.0f%% utilization.", utilized, highUtilization*100))
	}

	top := 0.0
	for i, r := range sorted {
		if i >= concentrationTopN {
			break
		}
		if r.Percent != nil {
			top += *r.Percent
		}
	}
	if top >= concentrationExposure {
		warnings = append(warnings, fmt.Sprintf("Concentration: the top %d markets hold %.1f%% of the vault.", concentrationTopN, top))
	}

	exotic := 0.0
	for _, r := range sorted {
		if r.Percent != nil && isExotic(r.LoanAsset) {
			exotic += *r.Percent
		}
	}
	if exotic > 0 {
		warnings = append(warnings, fmt.Sprintf("Exotic asset exposure: %.1f%% supplied to markets lending one of %s.", exotic, strings.Join(ExoticAssets, ", ")))
	}
	return warnings
}

func isExotic(symbol string) bool {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return false
	}
	return slices.ContainsFunc(ExoticAssets, func(ticker string) bool {
		return strings.EqualFold(ticker, symbol)
	})
}
