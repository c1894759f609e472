package outline

import (
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/metrics"
)

// Outline is the result of one synchronization.
type Outline struct {
	Headings []Heading `json:"headings"`
	Items    []*Item   `json:"items"`
}

// Options configures a Synchronizer.
type Options struct {
	Levels      []int
	UpdateEvent string
	Emitter     *Emitter
	Logger      *zap.Logger
}

// Synchronizer keeps one editing session's headings identified and its
// outline current. Identifiers it hands out are never handed out again in
// the same session, even after their heading is deleted.
type Synchronizer struct {
	mu      sync.Mutex
	levels  []int
	event   string
	emitter *Emitter
	logger  *zap.Logger
	issued  IDSet
	current Outline
}

// NewSynchronizer creates a synchronizer for one session.
func NewSynchronizer(opts Options) *Synchronizer {
	s := &Synchronizer{
		levels:  opts.Levels,
		event:   opts.UpdateEvent,
		emitter: opts.Emitter,
		logger:  opts.Logger,
		issued:  make(IDSet),
	}
	if len(s.levels) == 0 {
		s.levels = DefaultLevels
	}
	if s.event == "" {
		s.event = DefaultUpdateEvent
	}
	if s.emitter == nil {
		s.emitter = NewEmitter()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Emitter returns the emitter outline updates are published on.
func (s *Synchronizer) Emitter() *Emitter { return s.emitter }

// Event returns the update event name.
func (s *Synchronizer) Event() string { return s.event }

// Outline returns the last published outline.
func (s *Synchronizer) Outline() Outline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Sync handles one change notification. Without a document change it returns
// the previous outline. Otherwise it assigns missing ids in a single
// transaction, rebuilds the outline and publishes it. Subscribers run after
// the synchronizer state is updated and may call back into it.
func (s *Synchronizer) Sync(doc Document, docChanged bool) Outline {
	s.mu.Lock()
	if !docChanged {
		out := s.current
		s.mu.Unlock()
		return out
	}

	// Ids already in the document count as issued.
	headings(doc, func(n Node, _ int) {
		if id := n.ID(); id != "" {
			s.issued.Add(id)
		}
	})

	if tx := AssignIDs(doc, s.issued); tx != nil {
		if err := doc.Apply(tx); err != nil {
			metrics.OutlineApplyErrorsTotal.Inc()
			s.logger.Error("Failed to apply heading ids",
				zap.Int("assignments", tx.Len()),
				zap.Error(err),
			)
		} else {
			for _, a := range tx.Assignments {
				s.issued.Add(a.ID)
			}
			metrics.OutlineIDsAssignedTotal.Add(float64(tx.Len()))
			s.logger.Debug("Assigned heading ids", zap.Int("count", tx.Len()))
		}
	}

	hs := Collect(doc, s.levels)
	out := Outline{Headings: hs, Items: Nest(hs)}
	s.current = out
	metrics.OutlineRebuildsTotal.Inc()
	s.mu.Unlock()

	s.emitter.Emit(s.event, out)
	return out
}

// Process assigns ids and builds the outline of a standalone document, such
// as stored post content outside an editing session.
func Process(doc Document, levels []int) (Outline, error) {
	if tx := AssignIDs(doc, nil); tx != nil {
		if err := doc.Apply(tx); err != nil {
			metrics.OutlineApplyErrorsTotal.Inc()
			return Outline{}, err
		}
		metrics.OutlineIDsAssignedTotal.Add(float64(tx.Len()))
	}
	hs := Collect(doc, levels)
	return Outline{Headings: hs, Items: Nest(hs)}, nil
}
