package dialect

// Classification is the result of scoring evidence for a file.
type Classification struct {
	Kind       Kind
	Score      int
	TotalScore int
	Confidence float64
}

// Classifier scores evidence and chooses the dominant dialect.
// Ties and empty evidence fall back to Clean, the default for new schemas.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Kind: Clean}
	}

	var scores [kindCount]int
	total := 0
	for _, h := range e.hints {
		if h.Score <= 0 {
			continue
		}
		if h.Dialect <= Unknown || h.Dialect >= kindCount {
			continue
		}
		scores[h.Dialect] += h.Score
		total += h.Score
	}

	best := Clean
	if scores[Legacy] > scores[Clean] {
		best = Legacy
	}

	conf := 0.0
	if total > 0 {
		conf = float64(scores[best]) / float64(total)
	}

	return Classification{
		Kind:       best,
		Score:      scores[best],
		TotalScore: total,
		Confidence: conf,
	}
}
