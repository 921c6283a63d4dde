package insight

import (
	"bytes"
	"encoding/json"
	"fmt"

	"traderep-api/pkg/analytics"
)

const promptTemplate = `You are an expert cryptocurrency trading analyst. Analyze the following trader data from Hyperliquid and provide
insights and actionable recommendations. Focus on identifying strengths, weaknesses, and actionable suggestions.

METRICS:
%s

TRADING STYLE:
%s

REPUTATION SCORES:
%s

Provide your analysis in the following JSON format:
{
    "strengths": ["List 2-3 key strengths with specific metrics"],
    "weaknesses": ["List 2-3 key weaknesses with specific metrics"],
    "actionable_recommendations": ["List 3-4 specific, actionable recommendations"],
    "risk_assessment": "A brief risk assessment",
    "copytrade_worthiness": "Your assessment of whether this trader would be worth copying",
    "trader_personality": "Brief characterization of trader personality/style"
}

Return ONLY valid JSON, no other text.`

// buildPrompt renders the analysis prompt from a report. Non-finite floats in
// the metrics would break json.Marshal, so the sections are encoded through a
// sanitizing pass first.
func buildPrompt(report *analytics.Report) (string, error) {
	metrics, err := encodeSection(report.Metrics)
	if err != nil {
		return "", fmt.Errorf("insight: encode metrics: %w", err)
	}
	style, err := encodeSection(report.Style)
	if err != nil {
		return "", fmt.Errorf("insight: encode style: %w", err)
	}
	reputation, err := encodeSection(report.Reputation)
	if err != nil {
		return "", fmt.Errorf("insight: encode reputation: %w", err)
	}
	return fmt.Sprintf(promptTemplate, metrics, style, reputation), nil
}

// encodeSection marshals v to indented JSON, replacing NaN and infinities
// with null so the payload stays valid JSON.
func encodeSection(v any) (string, error) {
	data, err := json.Marshal(analytics.JSONSafe(v))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
