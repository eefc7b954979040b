package replay

import (
	"fmt"
	"time"

	"map-editor/core/edit"
	"map-editor/core/feature"
	"map-editor/core/policy"
	"map-editor/core/session"

	"go.uber.org/zap"
)

// recordingView is a map view that records requests as text.
type recordingView struct {
	fn       func(*feature.Snapshot)
	policies policy.Set
	requests []string
}

func (v *recordingView) Subscribe(fn func(*feature.Snapshot)) func() {
	v.fn = fn
	return func() { v.fn = nil }
}

func (v *recordingView) deliver(s *feature.Snapshot) {
	if v.fn != nil {
		v.fn(s)
	}
}

func (v *recordingView) record(format string, args ...any) {
	v.requests = append(v.requests, fmt.Sprintf(format, args...))
}

func (v *recordingView) RequestFlash(layerID, featureID string) {
	v.record("flash %s/%s", layerID, featureID)
}

func (v *recordingView) RequestZoomTo(layerID, featureID string) {
	v.record("zoom %s/%s", layerID, featureID)
}

func (v *recordingView) RequestZoomToMany(features []feature.Feature) {
	v.record("zoom %d features", len(features))
}

func (v *recordingView) RequestUnselect(featureID string) {
	v.record("unselect %s", featureID)
}

func (v *recordingView) RequestClearLayerSelection(layerID string) {
	v.record("clear %s", layerID)
}

func (v *recordingView) RequestSetLayerVisibility(layerID string, visible bool) {
	v.record("visibility %s %t", layerID, visible)
}

func (v *recordingView) LayerPolicies() policy.Set {
	return v.policies
}

// BufferSummary describes the edit buffer after a step.
type BufferSummary struct {
	Mode    edit.Mode         `yaml:"mode"`
	Targets int               `yaml:"targets"`
	Dirty   bool              `yaml:"dirty"`
	Valid   bool              `yaml:"valid"`
	Changes map[string]any    `yaml:"changes,omitempty"`
	Errors  map[string]string `yaml:"errors,omitempty"`
}

// Result is the state after one step.
type Result struct {
	Step            int            `yaml:"step"`
	Action          string         `yaml:"action"`
	OK              bool           `yaml:"ok"`
	SnapshotVersion uint64         `yaml:"snapshotVersion"`
	Multi           []string       `yaml:"multi,omitempty"`
	Clicked         string         `yaml:"clicked,omitempty"`
	Locked          bool           `yaml:"locked"`
	Buffer          *BufferSummary `yaml:"buffer,omitempty"`
	Requests        []string       `yaml:"requests,omitempty"`
	Commit          string         `yaml:"commit,omitempty"`
}

// Run replays script against a fresh session using policies.
func Run(script *Script, policies policy.Set, logger *zap.Logger) []Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policies == nil {
		policies = policy.Set{}
	}
	view := &recordingView{policies: policies}
	var committed []session.Commit
	s := session.New(view, session.Options{
		Logger:    logger,
		Committer: session.CommitterFunc(func(c session.Commit) { committed = append(committed, c) }),
		Now:       func() time.Time { return time.Unix(0, 0).UTC() },
	})
	s.Start()
	defer s.Close()

	results := make([]Result, 0, len(script.Steps))
	for i, step := range script.Steps {
		view.requests = nil
		before := len(committed)
		ok := apply(s, view, step)

		r := summarize(s)
		r.Step = i + 1
		r.Action = step.Action()
		r.OK = ok
		r.Requests = view.requests
		if len(committed) > before {
			r.Commit = committed[len(committed)-1].ID
		}
		results = append(results, r)
	}
	return results
}

func apply(s *session.Session, view *recordingView, step Step) bool {
	switch step.Action() {
	case "snapshot":
		view.deliver(feature.NewSnapshot(step.Snapshot.Version, step.Snapshot.Features...))
	case "click":
		s.OnFeatureClicked(step.Click.Feature, step.Click.Modifier)
	case "selectAll":
		s.SelectAllInLayer(step.SelectAll)
	case "clear":
		s.ClearSelection()
	case "unselect":
		s.Unselect(*step.Unselect)
	case "begin":
		_, ok := s.BeginEdit()
		return ok
	case "set":
		return s.SetFieldValue(step.Set.Field, step.Set.Value)
	case "reset":
		if s.Buffer() == nil {
			return false
		}
		s.ResetField(step.Reset)
	case "resetAll":
		if s.Buffer() == nil {
			return false
		}
		s.ResetAll()
	case "cancel":
		s.CancelEdit()
	case "commit":
		_, ok := s.CommitEdits()
		return ok
	default:
		return false
	}
	return true
}

func summarize(s *session.Session) Result {
	r := Result{
		SnapshotVersion: s.Snapshot().Version(),
		Locked:          s.IsLocked(),
	}
	for _, f := range s.MultiSelected() {
		r.Multi = append(r.Multi, s.Identity(f).String())
	}
	if c := s.Clicked(); c != nil {
		if id := s.Identity(*c); !id.IsZero() {
			r.Clicked = id.String()
		} else {
			r.Clicked = c.LayerID + "/" + s.DisplayName(*c)
		}
	}
	if b := s.Buffer(); b != nil {
		r.Buffer = &BufferSummary{
			Mode:    b.Mode(),
			Targets: len(b.Targets()),
			Dirty:   b.IsDirty(),
			Valid:   b.IsValid(),
			Changes: b.Changes(),
			Errors:  b.Errors(),
		}
		if len(r.Buffer.Changes) == 0 {
			r.Buffer.Changes = nil
		}
		if len(r.Buffer.Errors) == 0 {
			r.Buffer.Errors = nil
		}
	}
	return r
}
