package model

// Attitude is the rhetorical stance of a piece of text.
type Attitude string

const (
	AttitudeInquisitive  Attitude = "Inquisitive"
	AttitudePraise       Attitude = "Praise"
	AttitudeCondemnation Attitude = "Condemnation"
	AttitudeAgreement    Attitude = "Agreement"
	AttitudeComplaint    Attitude = "Complaint"
	AttitudeMocking      Attitude = "Mocking"
	AttitudeDisagreement Attitude = "Disagreement"
	AttitudeAnnoyed      Attitude = "Annoyed"

	// AttitudeNeutral is the fallback when no label clears the threshold.
	// It has no scoring label of its own.
	AttitudeNeutral Attitude = "Neutral"
)

// Attitudes returns every attitude variant, fallback included.
func Attitudes() []Attitude {
	return []Attitude{
		AttitudeNeutral,
		AttitudeInquisitive,
		AttitudePraise,
		AttitudeCondemnation,
		AttitudeAgreement,
		AttitudeComplaint,
		AttitudeMocking,
		AttitudeDisagreement,
		AttitudeAnnoyed,
	}
}

// attitudeLabels maps each non-fallback attitude to the label string sent to
// the scorer. The reverse map is built once at init.
var attitudeLabels = map[Attitude]string{
	AttitudeInquisitive:  "question",
	AttitudePraise:       "praise",
	AttitudeCondemnation: "condemnation",
	AttitudeAgreement:    "agreement",
	AttitudeComplaint:    "complaint",
	AttitudeMocking:      "mocking",
	AttitudeDisagreement: "disagreement",
	AttitudeAnnoyed:      "annoyed",
}

var attitudeByLabel = invert(attitudeLabels)

// AttitudeLabels returns the scoring labels for all non-fallback attitudes.
func AttitudeLabels() []string {
	labels := make([]string, 0, len(attitudeLabels))
	for _, a := range Attitudes() {
		if label, ok := attitudeLabels[a]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// AttitudeFromLabel maps a scorer label back to its attitude.
// Labels outside the schema are a hard error, never coerced.
func AttitudeFromLabel(label string) (Attitude, error) {
	a, ok := attitudeByLabel[label]
	if !ok {
		return AttitudeNeutral, &LabelError{Schema: "attitude", Label: label}
	}
	return a, nil
}

// Positivity reports how strongly the attitude is associated with a positive
// stance, in [0,1].
func (a Attitude) Positivity() float64 {
	switch a {
	case AttitudePraise:
		return 1.0
	case AttitudeAgreement:
		return 0.8
	case AttitudeDisagreement:
		return 0.25
	case AttitudeComplaint, AttitudeMocking, AttitudeAnnoyed, AttitudeCondemnation:
		return 0.0
	default: // Inquisitive, Neutral
		return 0.5
	}
}

// Negativity is the complement of Positivity.
func (a Attitude) Negativity() float64 {
	return 1.0 - a.Positivity()
}

// Agreement reports how strongly the attitude signals agreement with the
// parent text, in [0,1].
func (a Attitude) Agreement() float64 {
	switch a {
	case AttitudeAgreement:
		return 1.0
	case AttitudePraise:
		return 0.8
	case AttitudeComplaint:
		return 0.3
	case AttitudeAnnoyed:
		return 0.2
	case AttitudeDisagreement, AttitudeCondemnation:
		return 0.0
	default: // Inquisitive, Mocking, Neutral
		return 0.5
	}
}

func invert[K, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
