package seed

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"sound-byte/internal/domain"
	"sound-byte/internal/ingest"

	"golang.org/x/text/unicode/norm"
)

// Kind names one seed stage and the file it reads.
type Kind string

const (
	KindGroups         Kind = "groups"
	KindSeries         Kind = "series"
	KindExercises      Kind = "exercises"
	KindSeries1Tasks   Kind = "1_series"
	KindSeries2        Kind = "2_series"
	KindSentenceSeries Kind = "3_series"
)

const (
	series2ID           = 2
	defaultPictureDir   = "pictures/withWord"
	defaultSeries1Audio = "series1"
	defaultSeries2Audio = "series2"
)

var errMissingValue = errors.New("value is required")

func fieldError(rec ingest.Record, field string, err error) *ingest.ConversionError {
	return &ingest.ConversionError{Source: rec.Source, Line: rec.Line, Field: field, Err: err}
}

func requireString(rec ingest.Record, field string) (string, error) {
	v := rec.Get(field)
	if v == "" {
		return "", fieldError(rec, field, errMissingValue)
	}
	return v, nil
}

func requireInt(rec ingest.Record, field string, min int64) (int64, error) {
	raw := rec.Get(field)
	if raw == "" {
		return 0, fieldError(rec, field, errMissingValue)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fieldError(rec, field, fmt.Errorf("not an integer: %q", raw))
	}
	if v < min {
		return 0, fieldError(rec, field, fmt.Errorf("must be at least %d, got %d", min, v))
	}
	return v, nil
}

// GroupConverter reads groupId,name,description.
var GroupConverter = ingest.ConverterFunc[*domain.Group](func(rec ingest.Record) (*domain.Group, error) {
	id, err := requireInt(rec, "groupId", 1)
	if err != nil {
		return nil, err
	}
	name, err := requireString(rec, "name")
	if err != nil {
		return nil, err
	}
	return domain.NewGroup(id, name, rec.Get("description")), nil
})

// SeriesConverter reads seriesId,groupId,name,description.
var SeriesConverter = ingest.ConverterFunc[*domain.Series](func(rec ingest.Record) (*domain.Series, error) {
	id, err := requireInt(rec, "seriesId", 1)
	if err != nil {
		return nil, err
	}
	groupID, err := requireInt(rec, "groupId", 1)
	if err != nil {
		return nil, err
	}
	name, err := requireString(rec, "name")
	if err != nil {
		return nil, err
	}
	return domain.NewSeries(id, groupID, name, rec.Get("description")), nil
})

// ExerciseConverter reads exerciseId,seriesId,level,name,description,exerciseType,template.
var ExerciseConverter = ingest.ConverterFunc[*domain.Exercise](func(rec ingest.Record) (*domain.Exercise, error) {
	id, err := requireInt(rec, "exerciseId", 1)
	if err != nil {
		return nil, err
	}
	seriesID, err := requireInt(rec, "seriesId", 1)
	if err != nil {
		return nil, err
	}
	level, err := requireInt(rec, "level", 1)
	if err != nil {
		return nil, err
	}
	name, err := requireString(rec, "name")
	if err != nil {
		return nil, err
	}
	exType := domain.ExerciseTypeSingleWords
	if raw := rec.Get("exerciseType"); raw != "" {
		if exType, err = domain.ParseExerciseType(raw); err != nil {
			return nil, fieldError(rec, "exerciseType", err)
		}
	}
	description := rec.Get("description")
	if description == "" {
		description = name
	}
	return &domain.Exercise{
		ID:          id,
		SeriesID:    seriesID,
		Name:        name,
		Description: description,
		Template:    rec.Get("template"),
		Type:        exType,
		Level:       int(level),
	}, nil
})

func splitWords(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ' ', '\t', ',', '|', '(', ')':
			return true
		}
		return false
	})
}

func sameDir(file, fallbackDir string) string {
	if file == "" {
		return fallbackDir
	}
	return path.Dir(file)
}

// Series1TaskConverter reads
// exerciseId,orderNumber,word,wordType,audioFileName,pictureFileName,words.
// The row's word is the correct answer; words lists the distractors.
var Series1TaskConverter = ingest.ConverterFunc[*domain.Task](func(rec ingest.Record) (*domain.Task, error) {
	exerciseID, err := requireInt(rec, "exerciseId", 1)
	if err != nil {
		return nil, err
	}
	serial, err := requireInt(rec, "orderNumber", 1)
	if err != nil {
		return nil, err
	}
	word, err := requireString(rec, "word")
	if err != nil {
		return nil, err
	}
	wordType := domain.WordTypeObject
	if raw := rec.Get("wordType"); raw != "" {
		if wordType, err = domain.ParseWordType(raw); err != nil {
			return nil, fieldError(rec, "wordType", err)
		}
	}

	audio := rec.Get("audioFileName")
	if audio == "" {
		audio = path.Join(defaultSeries1Audio, word+".mp3")
	}
	picture := rec.Get("pictureFileName")
	audioDir := sameDir(audio, defaultSeries1Audio)
	pictureDir := sameDir(picture, defaultPictureDir)

	b := domain.NewTaskBuilder(int(serial))
	correct := b.AddOption(domain.NewResource(word, wordType, audio, picture))
	for _, w := range splitWords(rec.Get("words")) {
		if norm.NFC.String(w) == correct.Word {
			continue
		}
		b.AddOption(domain.NewResource(w, wordType,
			path.Join(audioDir, w+".mp3"),
			path.Join(pictureDir, w+".jpg"),
		))
	}
	b.SetCorrectAnswer(correct).SetPart(1, correct)

	task, err := b.Build()
	if err != nil {
		return nil, fieldError(rec, "words", err)
	}
	task.ExerciseID = exerciseID
	return task, nil
})

var wordGroupPattern = regexp.MustCompile(`([A-Za-z_]+)\s*\(([^)]*)\)`)

// Series2ExerciseConverter reads
// exerciseId,level,exerciseName,orderNumber,words,answer,answerAudioFile.
// words holds typed groups such as "OBJECT(девочка бабушка) OBJECT_ACTION(рисует)";
// answer is the phrase whose words become the ordered answer parts.
var Series2ExerciseConverter = ingest.ConverterFunc[*domain.Exercise](func(rec ingest.Record) (*domain.Exercise, error) {
	id, err := requireInt(rec, "exerciseId", 1)
	if err != nil {
		return nil, err
	}
	level, err := requireInt(rec, "level", 1)
	if err != nil {
		return nil, err
	}
	name, err := requireString(rec, "exerciseName")
	if err != nil {
		return nil, err
	}
	serial := int64(1)
	if rec.Get("orderNumber") != "" {
		if serial, err = requireInt(rec, "orderNumber", 1); err != nil {
			return nil, err
		}
	}
	rawWords, err := requireString(rec, "words")
	if err != nil {
		return nil, err
	}
	answer, err := requireString(rec, "answer")
	if err != nil {
		return nil, err
	}

	groups := wordGroupPattern.FindAllStringSubmatch(rawWords, -1)
	if len(groups) == 0 {
		return nil, fieldError(rec, "words", fmt.Errorf("expected TYPE(word ...) groups, got %q", rawWords))
	}

	b := domain.NewTaskBuilder(int(serial))
	byWord := make(map[string]*domain.Resource)
	slots := make([]string, 0, len(groups))
	for _, g := range groups {
		wordType, err := domain.ParseWordType(g[1])
		if err != nil {
			return nil, fieldError(rec, "words", err)
		}
		slots = append(slots, string(wordType))
		for _, w := range splitWords(g[2]) {
			r := b.AddOption(domain.NewResource(w, wordType,
				path.Join(defaultSeries2Audio, w+".mp3"),
				path.Join(defaultPictureDir, w+".jpg"),
			))
			if _, ok := byWord[r.Word]; !ok {
				byWord[r.Word] = r
			}
		}
	}

	for i, w := range strings.Fields(answer) {
		r, ok := byWord[norm.NFC.String(w)]
		if !ok {
			return nil, fieldError(rec, "answer", fmt.Errorf("word %q is not among the answer options", w))
		}
		b.SetPart(i+1, r)
	}

	audio := rec.Get("answerAudioFile")
	if audio == "" {
		audio = path.Join(defaultSeries2Audio, strings.ReplaceAll(answer, " ", "_")+".mp3")
	}
	b.SetCorrectAnswer(domain.NewResource(answer, domain.WordTypeSentence, audio, ""))

	task, err := b.Build()
	if err != nil {
		return nil, fieldError(rec, "answer", err)
	}

	exercise := &domain.Exercise{
		ID:          id,
		SeriesID:    series2ID,
		Name:        name,
		Description: name,
		Template:    "<" + strings.Join(slots, " ") + ">",
		Type:        domain.ExerciseTypeWordsSequences,
		Level:       int(level),
	}
	exercise.AddTask(task)
	return exercise, nil
})
