package workflow

import (
	"fmt"
	"time"

	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// NewRunState creates a running state with every stage pending
func NewRunState(identifier string) *RunState {
	s := &RunState{
		ID:         uuid.New().String(),
		Identifier: identifier,
		Status:     RunStatusRunning,
		StartTime:  time.Now(),
		History:    make([]RunEvent, 0),
	}
	for _, name := range stageOrder {
		s.Stages = append(s.Stages, &StageState{Name: name, Status: StageStatusPending})
	}
	return s
}

// AddEvent adds an event to the run history in a thread-safe manner
func (s *RunState) AddEvent(stage StageName, eventType, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = append(s.History, RunEvent{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Stage:     stage,
		Type:      eventType,
		Message:   message,
	})
}

// StartStage marks a stage as running
func (s *RunState) StartStage(name StageName) {
	s.update(name, func(st *StageState) {
		st.Status = StageStatusRunning
		st.StartTime = time.Now()
	})
	s.AddEvent(name, "started", fmt.Sprintf("Started %s", name))
}

// CompleteStage marks a stage as complete with its outputs
func (s *RunState) CompleteStage(name StageName, outputs map[string]string) {
	s.update(name, func(st *StageState) {
		st.Status = StageStatusComplete
		st.EndTime = time.Now()
		st.Outputs = outputs
	})
	s.AddEvent(name, "completed", fmt.Sprintf("Completed %s", name))
}

// SkipStage marks a stage as skipped. reason is kept with the stage.
func (s *RunState) SkipStage(name StageName, reason string, outputs map[string]string) {
	s.update(name, func(st *StageState) {
		st.Status = StageStatusSkipped
		st.EndTime = time.Now()
		st.Message = reason
		st.Outputs = outputs
	})
	s.AddEvent(name, "skipped", reason)
}

// FailStage marks a stage as failed
func (s *RunState) FailStage(name StageName, err error) {
	s.update(name, func(st *StageState) {
		st.Status = StageStatusFailed
		st.EndTime = time.Now()
		st.Message = err.Error()
	})
	s.AddEvent(name, "failed", err.Error())
}

// StageStatus returns the status of a stage in a thread-safe manner
func (s *RunState) StageStatus(name StageName) StageStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.Stages {
		if st.Name == name {
			return st.Status
		}
	}
	return StageStatusPending
}

// SetVideoID records the resolved video id
func (s *RunState) SetVideoID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.VideoID = id
}

// Finish closes the run as complete, or failed when err is not nil
func (s *RunState) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EndTime = time.Now()
	if err != nil {
		s.Status = RunStatusFailed
		s.Error = err.Error()
		return
	}
	s.Status = RunStatusComplete
}

func (s *RunState) update(name StageName, fn func(*StageState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.Stages {
		if st.Name == name {
			fn(st)
			return
		}
	}
}

// SaveRunState writes the state to path as YAML
func SaveRunState(state *RunState, path string) error {
	state.mu.RLock()
	data, err := yaml.Marshal(state)
	state.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	if err := utils.WriteBinaryFile(path, data); err != nil {
		return fmt.Errorf("failed to write run state: %w", err)
	}
	return nil
}

// LoadRunState reads a state written by SaveRunState
func LoadRunState(path string) (*RunState, error) {
	data, err := utils.ReadTextFile(path)
	if err != nil {
		return nil, err
	}

	state := &RunState{}
	if err := yaml.Unmarshal([]byte(data), state); err != nil {
		return nil, fmt.Errorf("failed to parse run state: %w", err)
	}
	return state, nil
}
