package notify

import (
	"fmt"
	"strings"

	"github.com/birddograbbit/magic8-companion/internal/gex"
	"github.com/birddograbbit/magic8-companion/internal/strategy"
)

// FormatCheckpointMessage renders one symbol's analysis and recommendation
// as a human-readable alert body.
func FormatCheckpointMessage(result *gex.AnalysisResult, rec strategy.Recommendation) string {
	var sb strings.Builder

	if !result.Available {
		sb.WriteString(fmt.Sprintf("%s: gamma data unavailable, scores carry no gamma adjustment\n", result.Symbol))
		sb.WriteString(fmt.Sprintf("Recommendation: %s (%d)", rec.Best, rec.Scores[rec.Best]))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%s @ %.2f\n", result.Symbol, result.SpotPrice))
	sb.WriteString(fmt.Sprintf("Regime: %s (%s), net GEX %s\n",
		result.Assessment.Regime, result.Assessment.Magnitude, formatUSD(result.Profile.TotalNetGEX)))
	sb.WriteString(fmt.Sprintf("Bias: %s\n", result.Assessment.Bias))
	sb.WriteString(fmt.Sprintf("Gamma flip: %.2f\n", result.Levels.GammaFlip))
	sb.WriteString(fmt.Sprintf("Call wall: %s\n", formatWall(result.Levels.CallWall, result.Levels.CallWallDefaulted)))
	sb.WriteString(fmt.Sprintf("Put wall: %s\n", formatWall(result.Levels.PutWall, result.Levels.PutWallDefaulted)))
	sb.WriteString(fmt.Sprintf("Expected move: %.2f%%\n", result.Levels.ExpectedMovePct*100))
	sb.WriteString(fmt.Sprintf("Recommendation: %s (%d)", rec.Best, rec.Scores[rec.Best]))

	return sb.String()
}

func formatWall(level float64, defaulted bool) string {
	if defaulted {
		return fmt.Sprintf("%.2f (defaulted)", level)
	}
	return fmt.Sprintf("%.2f", level)
}

func formatUSD(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
