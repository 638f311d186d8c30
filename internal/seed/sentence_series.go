package seed

import (
	"path"

	"sound-byte/internal/domain"
)

const (
	sentenceSeriesID          = 3
	sentenceSeriesName        = "Распознавание предложений"
	sentenceSeriesDescription = "Распознавание простых предложений"
	sentenceExerciseName      = "Распознование предложений из 2 слов"
	sentenceTemplate          = "<OBJECT OBJECT_ACTION>"
	sentenceAnswer            = "девочка рисует"
	sentenceAnswerAudio       = "series3/девочка_рисует.mp3"
	sentenceTaskSerial        = 2
)

var (
	sentenceObjects = []string{"девочкаTest", "дедушкаTest", "бабушкаTest"}
	sentenceActions = []string{"бросаетTest", "читаетTest", "рисуетTest"}
)

func sentenceResource(word string, wordType domain.WordType) *domain.Resource {
	return domain.NewResource(word, wordType,
		path.Join(defaultSeries2Audio, word+".mp3"),
		path.Join(defaultPictureDir, word+".jpg"),
	)
}

// buildSentenceExercise returns the fixed sentence recognition exercise
// with one task: six word options, the whole sentence as correct answer,
// and the first object plus the last action as answer parts.
func buildSentenceExercise(id int64) (*domain.Exercise, error) {
	b := domain.NewTaskBuilder(sentenceTaskSerial)
	var options []*domain.Resource
	for _, w := range sentenceObjects {
		options = append(options, b.AddOption(sentenceResource(w, domain.WordTypeObject)))
	}
	for _, w := range sentenceActions {
		options = append(options, b.AddOption(sentenceResource(w, domain.WordTypeObjectAction)))
	}
	b.SetCorrectAnswer(domain.NewResource(sentenceAnswer, domain.WordTypeSentence, sentenceAnswerAudio, "")).
		SetPart(1, options[0]).
		SetPart(2, options[len(options)-1])

	task, err := b.Build()
	if err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		ID:          id,
		SeriesID:    sentenceSeriesID,
		Name:        sentenceExerciseName,
		Description: sentenceExerciseName,
		Template:    sentenceTemplate,
		Type:        domain.ExerciseTypeSentence,
		Level:       1,
	}
	exercise.AddTask(task)
	return exercise, nil
}
