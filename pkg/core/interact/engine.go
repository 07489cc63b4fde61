package interact

// Engine turns pointer events into [State] snapshots.
type Engine struct {
	idx      *Index
	hovered  string
	selected string
	fog      bool
	state    State
}

// Option configures an [Engine].
type Option func(*Engine)

// WithFog starts the engine with fog enabled.
func WithFog(on bool) Option {
	return func(e *Engine) { e.fog = on }
}

// NewEngine returns an idle engine over idx.
func NewEngine(idx *Index, opts ...Option) *Engine {
	e := &Engine{idx: idx}
	for _, opt := range opts {
		opt(e)
	}
	e.refresh()
	return e
}

// Index returns the engine's traversal index.
func (e *Engine) Index() *Index { return e.idx }

// State returns the current snapshot.
func (e *Engine) State() State { return e.state }

// OnHover sets the hovered node. An empty or unknown id clears the hover
// but keeps any selection.
func (e *Engine) OnHover(id string) State {
	e.hovered = e.known(id)
	return e.refresh()
}

// OnSelect sets the selected node. An empty or unknown id clears the
// selection.
func (e *Engine) OnSelect(id string) State {
	e.selected = e.known(id)
	return e.refresh()
}

// OnClear drops both hover and selection.
func (e *Engine) OnClear() State {
	e.hovered, e.selected = "", ""
	return e.refresh()
}

// SetFog toggles fog mode.
func (e *Engine) SetFog(on bool) State {
	e.fog = on
	return e.refresh()
}

func (e *Engine) known(id string) string {
	if id == "" || !e.idx.g.HasNode(id) {
		return ""
	}
	return id
}

func (e *Engine) refresh() State {
	s := State{Hovered: e.hovered, Selected: e.selected, Fog: e.fog}
	s.Focus = e.selected
	if s.Focus == "" {
		s.Focus = e.hovered
	}
	if s.Focus != "" {
		n, _ := e.idx.g.Node(s.Focus)
		s.Upstream = e.idx.CollectUpstream(s.Focus)
		s.Downstream = e.idx.CollectDownstream(s.Focus)
		s.Chain = e.idx.CollectChain(s.Focus)
		s.Overclock = e.idx.CollectOverclockTargets(s.Focus)
		s.FogCluster = n.Cluster
	}
	e.state = s
	return s
}
