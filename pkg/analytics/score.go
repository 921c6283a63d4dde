package analytics

// Reputation is the composite score for one trader. Sub-scores live in
// [0,100]; Overall is the weighted floor combination of the four.
type Reputation struct {
	Experience     int `json:"experience"`
	Consistency    int `json:"consistency"`
	RiskManagement int `json:"risk_management"`
	Performance    int `json:"performance"`
	Overall        int `json:"overall"`
}

// Overall weights. They sum to 1 so sub-scores in [0,100] keep the overall
// score in [0,100].
const (
	weightExperience  = 0.25
	weightConsistency = 0.20
	weightRisk        = 0.25
	weightPerformance = 0.30
)

// Score folds metrics and style labels into the reputation score. It is a
// pure function: same inputs, same score.
func Score(m Metrics, style Style) Reputation {
	rep := Reputation{
		Experience:     scoreExperience(m),
		Consistency:    scoreConsistency(m, style),
		RiskManagement: scoreRiskManagement(m, style),
		Performance:    scorePerformance(m),
	}
	rep.Overall = int(weightExperience*float64(rep.Experience) +
		weightConsistency*float64(rep.Consistency) +
		weightRisk*float64(rep.RiskManagement) +
		weightPerformance*float64(rep.Performance))
	return rep
}

func scoreExperience(m Metrics) int {
	score := 40
	switch {
	case m.ActiveDays > 365:
		score = 100
	case m.ActiveDays > 180:
		score = 85
	case m.ActiveDays > 90:
		score = 70
	case m.ActiveDays > 30:
		score = 55
	}

	switch {
	case m.TotalOrders > 1000:
		score += 15
	case m.TotalOrders > 500:
		score += 10
	case m.TotalOrders > 100:
		score += 5
	}
	return clampScore(score)
}

func scoreConsistency(m Metrics, style Style) int {
	score := 50
	switch style.SizingApproach {
	case "Very Consistent":
		score = 90
	case "Moderately Consistent":
		score = 70
	case "Variable":
		score = 40
	}

	if m.TotalOrders > 0 {
		if m.ActivityFrequency > 3 {
			score += 10
		} else if m.ActivityFrequency < 0.5 && m.ActiveDays > 30 {
			score -= 10
		}
	}
	return clampScore(score)
}

func scoreRiskManagement(m Metrics, style Style) int {
	score := 50
	switch style.RiskProfile {
	case "Conservative":
		score = 90
	case "Moderate":
		score = 75
	case "Aggressive":
		score = 50
	case "Very Aggressive":
		score = 30
	}

	if m.Performance != nil {
		if m.Performance.MaxDrawdown < 0.1 {
			score += 15
		} else if m.Performance.MaxDrawdown > 0.3 {
			score -= 20
		}
	}
	return clampScore(score)
}

func scorePerformance(m Metrics) int {
	score := 30
	winRate := 0.0
	if m.Performance != nil {
		winRate = m.Performance.WinRate
	}
	switch {
	case winRate > 0.6:
		score = 90
	case winRate > 0.5:
		score = 70
	case winRate > 0.4:
		score = 50
	}

	if m.Performance != nil {
		rr := m.Performance.RiskRewardRatio
		switch {
		case rr > 2:
			score += 20
		case rr > 1:
			score += 10
		case rr < 0.8:
			score -= 15
		}
	}
	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
