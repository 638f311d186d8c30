package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ExerciseType is the presentation mode of an exercise.
type ExerciseType string

const (
	ExerciseTypeSingleWords    ExerciseType = "SINGLE_WORDS"
	ExerciseTypeWordsSequences ExerciseType = "WORDS_SEQUENCES"
	ExerciseTypeSentence       ExerciseType = "SENTENCE"
)

// ParseExerciseType accepts any letter case.
func ParseExerciseType(s string) (ExerciseType, error) {
	switch t := ExerciseType(strings.ToUpper(strings.TrimSpace(s))); t {
	case ExerciseTypeSingleWords, ExerciseTypeWordsSequences, ExerciseTypeSentence:
		return t, nil
	default:
		return "", fmt.Errorf("unknown exercise type %q", s)
	}
}

// WordType classifies a resource inside an answer.
type WordType string

const (
	WordTypeObject                    WordType = "OBJECT"
	WordTypeObjectAction              WordType = "OBJECT_ACTION"
	WordTypeObjectDescription         WordType = "OBJECT_DESCRIPTION"
	WordTypeAdditionObject            WordType = "ADDITION_OBJECT"
	WordTypeAdditionObjectDescription WordType = "ADDITION_OBJECT_DESCRIPTION"
	WordTypeCount                     WordType = "COUNT"
	WordTypeSentence                  WordType = "SENTENCE"
)

// ParseWordType accepts any letter case.
func ParseWordType(s string) (WordType, error) {
	switch t := WordType(strings.ToUpper(strings.TrimSpace(s))); t {
	case WordTypeObject, WordTypeObjectAction, WordTypeObjectDescription,
		WordTypeAdditionObject, WordTypeAdditionObjectDescription, WordTypeCount, WordTypeSentence:
		return t, nil
	default:
		return "", fmt.Errorf("unknown word type %q", s)
	}
}

// Group is the top-level container of series.
type Group struct {
	ID          int64
	Name        string
	Description string
	Series      []*Series
}

func NewGroup(id int64, name, description string) *Group {
	return &Group{ID: id, Name: name, Description: description}
}

func (g *Group) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("group id must be positive, got %d", g.ID)
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group %d: name is required", g.ID)
	}
	return nil
}

// AddSeries appends s and points it at g.
func (g *Group) AddSeries(s *Series) {
	s.GroupID = g.ID
	g.Series = append(g.Series, s)
}

type Series struct {
	ID          int64
	GroupID     int64
	Name        string
	Description string
	Exercises   []*Exercise
}

func NewSeries(id, groupID int64, name, description string) *Series {
	return &Series{ID: id, GroupID: groupID, Name: name, Description: description}
}

func (s *Series) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("series id must be positive, got %d", s.ID)
	}
	if s.GroupID <= 0 {
		return fmt.Errorf("series %d: group id must be positive", s.ID)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("series %d: name is required", s.ID)
	}
	return nil
}

// AddExercise appends e and points it at s.
func (s *Series) AddExercise(e *Exercise) {
	e.SeriesID = s.ID
	s.Exercises = append(s.Exercises, e)
}

type Exercise struct {
	ID          int64
	SeriesID    int64
	Name        string
	Description string
	Template    string
	Type        ExerciseType
	Level       int
	Tasks       []*Task
}

func (e *Exercise) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("exercise id must be positive, got %d", e.ID)
	}
	if e.SeriesID <= 0 {
		return fmt.Errorf("exercise %d: series id must be positive", e.ID)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("exercise %d: name is required", e.ID)
	}
	if e.Level < 1 {
		return fmt.Errorf("exercise %d: level must be at least 1, got %d", e.ID, e.Level)
	}
	if _, err := ParseExerciseType(string(e.Type)); err != nil {
		return fmt.Errorf("exercise %d: %w", e.ID, err)
	}
	return nil
}

// AddTask appends t and points it at e.
func (e *Exercise) AddTask(t *Task) {
	t.ExerciseID = e.ID
	e.Tasks = append(e.Tasks, t)
}

// Resource is a word with its media references. Two resources with the
// same Key are the same resource.
type Resource struct {
	ID             int64
	Word           string
	WordType       WordType
	AudioFileURL   string
	PictureFileURL string
}

// NewResource normalises the word to NFC so visually identical words compare equal.
func NewResource(word string, wordType WordType, audio, picture string) *Resource {
	return &Resource{
		Word:           norm.NFC.String(strings.TrimSpace(word)),
		WordType:       wordType,
		AudioFileURL:   strings.TrimSpace(audio),
		PictureFileURL: strings.TrimSpace(picture),
	}
}

// Key identifies the resource by content.
func (r *Resource) Key() string {
	return strings.Join([]string{
		norm.NFC.String(r.Word),
		string(r.WordType),
		r.AudioFileURL,
		r.PictureFileURL,
	}, "\x1f")
}

// Task is an answerable item of an exercise. It is immutable once built;
// use TaskBuilder to construct one.
type Task struct {
	ID            int64
	ExerciseID    int64
	SerialNumber  int
	answerOptions []*Resource
	correctAnswer *Resource
	answerParts   map[int]*Resource
}

// AnswerOptions returns the task's distinct candidate resources in insertion order.
func (t *Task) AnswerOptions() []*Resource {
	out := make([]*Resource, len(t.answerOptions))
	copy(out, t.answerOptions)
	return out
}

func (t *Task) CorrectAnswer() *Resource {
	return t.correctAnswer
}

// AnswerParts returns a copy of the position-to-resource mapping.
func (t *Task) AnswerParts() map[int]*Resource {
	out := make(map[int]*Resource, len(t.answerParts))
	for k, v := range t.answerParts {
		out[k] = v
	}
	return out
}

// PartPositions returns the answer part positions in ascending order.
func (t *Task) PartPositions() []int {
	positions := make([]int, 0, len(t.answerParts))
	for k := range t.answerParts {
		positions = append(positions, k)
	}
	sort.Ints(positions)
	return positions
}

// ReplaceResources swaps every resource reference through fn. It is used
// to intern resources so equal resources share one instance.
func (t *Task) ReplaceResources(fn func(*Resource) *Resource) {
	for i, r := range t.answerOptions {
		t.answerOptions[i] = fn(r)
	}
	if t.correctAnswer != nil {
		t.correctAnswer = fn(t.correctAnswer)
	}
	for k, r := range t.answerParts {
		t.answerParts[k] = fn(r)
	}
}

// TaskBuilder accumulates answer options and parts and enforces that
// every part is one of the options.
type TaskBuilder struct {
	serialNumber int
	options      []*Resource
	optionKeys   map[string]*Resource
	correct      *Resource
	parts        map[int]*Resource
}

func NewTaskBuilder(serialNumber int) *TaskBuilder {
	return &TaskBuilder{
		serialNumber: serialNumber,
		optionKeys:   make(map[string]*Resource),
		parts:        make(map[int]*Resource),
	}
}

// AddOption adds r unless an equal resource is already present and
// returns the resource held by the builder.
func (b *TaskBuilder) AddOption(r *Resource) *Resource {
	if existing, ok := b.optionKeys[r.Key()]; ok {
		return existing
	}
	b.optionKeys[r.Key()] = r
	b.options = append(b.options, r)
	return r
}

func (b *TaskBuilder) SetCorrectAnswer(r *Resource) *TaskBuilder {
	b.correct = r
	return b
}

func (b *TaskBuilder) SetPart(position int, r *Resource) *TaskBuilder {
	b.parts[position] = r
	return b
}

// Build validates and freezes the task.
func (b *TaskBuilder) Build() (*Task, error) {
	if b.serialNumber < 1 {
		return nil, fmt.Errorf("serial number must be at least 1, got %d", b.serialNumber)
	}
	if len(b.options) == 0 {
		return nil, fmt.Errorf("task %d: at least one answer option is required", b.serialNumber)
	}
	if b.correct == nil {
		return nil, fmt.Errorf("task %d: correct answer is required", b.serialNumber)
	}
	for pos, r := range b.parts {
		if pos < 1 {
			return nil, fmt.Errorf("task %d: answer part position must be at least 1, got %d", b.serialNumber, pos)
		}
		if _, ok := b.optionKeys[r.Key()]; !ok {
			return nil, fmt.Errorf("task %d: answer part %d (%q) is not an answer option", b.serialNumber, pos, r.Word)
		}
	}

	task := &Task{
		SerialNumber:  b.serialNumber,
		answerOptions: make([]*Resource, len(b.options)),
		correctAnswer: b.correct,
		answerParts:   make(map[int]*Resource, len(b.parts)),
	}
	copy(task.answerOptions, b.options)
	for pos, r := range b.parts {
		task.answerParts[pos] = b.optionKeys[r.Key()]
	}
	return task, nil
}

