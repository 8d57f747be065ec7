package bridge

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// Registry holds the process's bridges, keyed by device identifier. It is
// owned by the server's top-level context and passed to every handler;
// there is no package-level instance.
type Registry struct {
	agentURL string
	timeout  time.Duration
	caps     wda.Capabilities

	mu      sync.Mutex
	bridges map[string]*Bridge
}

// NewRegistry creates an empty registry. agentURL and timeout configure
// the transport used for every bridge this registry creates.
func NewRegistry(agentURL string, timeout time.Duration, caps wda.Capabilities) *Registry {
	return &Registry{
		agentURL: agentURL,
		timeout:  timeout,
		caps:     caps,
		bridges:  make(map[string]*Bridge),
	}
}

// GetOrCreate returns the bridge for the device, creating a Disconnected
// one on first use.
func (r *Registry) GetOrCreate(udid string) *Bridge {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.bridges[udid]; ok {
		return b
	}
	b := New(udid, wda.NewClientURL(r.agentURL, r.timeout), r.caps)
	r.bridges[udid] = b
	return b
}

// Get returns the bridge for the device, or an error if none exists yet.
func (r *Registry) Get(udid string) (*Bridge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bridges[udid]
	if !ok {
		return nil, fmt.Errorf("no bridge for device %s; call start_bridge first", udid)
	}
	return b, nil
}

// Remove drops the bridge for the device. The caller is responsible for
// stopping it first.
func (r *Registry) Remove(udid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bridges, udid)
}

// List returns a status snapshot for every bridge, ordered by device id.
func (r *Registry) List() []Status {
	r.mu.Lock()
	bridges := make([]*Bridge, 0, len(r.bridges))
	for _, b := range r.bridges {
		bridges = append(bridges, b)
	}
	r.mu.Unlock()

	statuses := make([]Status, len(bridges))
	for i, b := range bridges {
		statuses[i] = b.Status()
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].UDID < statuses[j].UDID })
	return statuses
}
