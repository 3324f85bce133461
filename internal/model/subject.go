package model

// Subject is the topical category of a piece of text.
type Subject string

const (
	SubjectPolitics   Subject = "Politics"
	SubjectReligion   Subject = "Religion"
	SubjectScience    Subject = "Science"
	SubjectFood       Subject = "Food"
	SubjectAnimals    Subject = "Animals"
	SubjectSports     Subject = "Sports"
	SubjectMusic      Subject = "Music"
	SubjectMovies     Subject = "Movies"
	SubjectJoke       Subject = "Joke"
	SubjectTechnology Subject = "Technology"
	SubjectDiscussion Subject = "Discussion"
	SubjectPersonal   Subject = "Personal"

	// SubjectOther is the fallback when no label clears the threshold.
	SubjectOther Subject = "Other"
)

// Subjects returns every subject variant, fallback included.
func Subjects() []Subject {
	return []Subject{
		SubjectOther,
		SubjectPolitics,
		SubjectReligion,
		SubjectScience,
		SubjectFood,
		SubjectAnimals,
		SubjectSports,
		SubjectMusic,
		SubjectMovies,
		SubjectJoke,
		SubjectTechnology,
		SubjectDiscussion,
		SubjectPersonal,
	}
}

var subjectLabels = map[Subject]string{
	SubjectPolitics:   "politics",
	SubjectReligion:   "religion",
	SubjectScience:    "science",
	SubjectFood:       "food",
	SubjectAnimals:    "animals",
	SubjectSports:     "sports",
	SubjectMusic:      "music",
	SubjectMovies:     "movies",
	SubjectJoke:       "joke",
	SubjectTechnology: "technology",
	SubjectDiscussion: "discussion",
	SubjectPersonal:   "me",
}

var subjectByLabel = invert(subjectLabels)

// SubjectLabels returns the scoring labels for all non-fallback subjects.
func SubjectLabels() []string {
	labels := make([]string, 0, len(subjectLabels))
	for _, s := range Subjects() {
		if label, ok := subjectLabels[s]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// SubjectFromLabel maps a scorer label back to its subject.
func SubjectFromLabel(label string) (Subject, error) {
	s, ok := subjectByLabel[label]
	if !ok {
		return SubjectOther, &LabelError{Schema: "subject", Label: label}
	}
	return s, nil
}
