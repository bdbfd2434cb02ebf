package theme

import (
	"sync"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

// Renderer is the diagram library surface the observer drives. Initialize
// swaps the live configuration, Render redraws one tagged container in place.
type Renderer interface {
	Initialize(cfg Config)
	Render(containerID string) error
}

// AttributeSource exposes one watched attribute: its current value and a
// subscription for changes. Handlers run synchronously in mutation order,
// so the latest mutation always wins.
type AttributeSource interface {
	Current() string
	Subscribe(handler func(value string)) (cancel func())
}

// Node is an in-process AttributeSource scoped to a single attribute name.
// Set ignores writes to any other attribute, mirroring an observer filter.
type Node struct {
	mu        sync.Mutex
	attribute string
	value     string
	handlers  map[int]func(string)
	nextID    int
}

func NewNode(attribute string, initial string) *Node {
	return &Node{
		attribute: attribute,
		value:     initial,
		handlers:  map[int]func(string){},
	}
}

func (n *Node) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value
}

// Set records a new attribute value and notifies subscribers. Mutations to
// attributes other than the watched one are dropped.
func (n *Node) Set(attribute string, value string) {
	n.mu.Lock()
	if attribute != n.attribute {
		n.mu.Unlock()
		return
	}
	n.value = value
	handlers := make([]func(string), 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h(value)
	}
}

func (n *Node) Subscribe(handler func(string)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = handler
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.handlers, id)
	}
}

// Observer keeps rendered diagrams in step with the page color scheme.
type Observer struct {
	renderer   Renderer
	source     AttributeSource
	containers []string
	cancel     func()
	logger     *logger_i.Logger
}

// NewObserver builds an observer over the given containers. A nil renderer
// is allowed and turns the whole observer into a no-op.
func NewObserver(renderer Renderer, source AttributeSource, containers []string) *Observer {
	return &Observer{
		renderer:   renderer,
		source:     source,
		containers: containers,
		logger:     logger_i.NewLogger("ThemeObserver"),
	}
}

// Start subscribes to attribute changes and runs one unconditional initial
// sync so the visuals match the current scheme even before any mutation.
func (o *Observer) Start() {
	if o.renderer == nil {
		return
	}

	o.cancel = o.source.Subscribe(func(value string) {
		o.sync(value)
	})

	o.sync(o.source.Current())
}

func (o *Observer) Stop() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Observer) sync(schemeValue string) {
	o.renderer.Initialize(ConfigFor(schemeValue))
	for _, id := range o.containers {
		if err := o.renderer.Render(id); err != nil {
			o.logger.Warn("Diagram re-render failed", "container", id, "err", err)
		}
	}
}
