package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fastygo/flow/domain"
)

// CommandHandler and QueryHandler receive the raw JSON payload of a request.
// An empty payload is passed as nil.
type CommandHandler func(ctx context.Context, payload []byte) (any, error)
type QueryHandler func(ctx context.Context, params []byte) (any, error)

type Dispatcher struct {
	cmdHandlers map[string]CommandHandler
	qryHandlers map[string]QueryHandler
	mu          sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		cmdHandlers: make(map[string]CommandHandler),
		qryHandlers: make(map[string]QueryHandler),
	}
}

func (d *Dispatcher) RegisterCommand(name string, handler CommandHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmdHandlers[name] = handler
}

func (d *Dispatcher) RegisterQuery(name string, handler QueryHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.qryHandlers[name] = handler
}

func (d *Dispatcher) ExecuteCommand(ctx context.Context, name string, payload []byte) (any, error) {
	d.mu.RLock()
	handler, ok := d.cmdHandlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.WrapError(domain.ErrCodeNotFound, fmt.Sprintf("command %q not registered", name), domain.ErrUnknownCommand)
	}
	return handler(ctx, payload)
}

func (d *Dispatcher) ExecuteQuery(ctx context.Context, name string, params []byte) (any, error) {
	d.mu.RLock()
	handler, ok := d.qryHandlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.WrapError(domain.ErrCodeNotFound, fmt.Sprintf("query %q not registered", name), domain.ErrUnknownCommand)
	}
	return handler(ctx, params)
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.cmdHandlers))
	for name := range d.cmdHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
