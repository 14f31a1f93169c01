package model

// Emotions is the fixed closed set of emotion labels in FER2013 order.
// Aggregation tie-breaks follow this order, so it must not be reordered.
var Emotions = []string{"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral"}

// AgeBuckets are the age ranges produced by the age classifier.
var AgeBuckets = []string{"(0-2)", "(4-6)", "(8-12)", "(15-20)", "(25-32)", "(38-43)", "(48-53)", "(60-100)"}

// ValidEmotion reports whether label belongs to the closed emotion set.
func ValidEmotion(label string) bool {
	for _, e := range Emotions {
		if e == label {
			return true
		}
	}
	return false
}

// ValidConfidence reports whether c lies in [0, 1] inclusive.
func ValidConfidence(c float64) bool {
	return c >= 0 && c <= 1
}
