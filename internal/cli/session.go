package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/clock"
	"github.com/fastygo/flow/internal/infrastructure/storage"
	"github.com/fastygo/flow/internal/persistence"
	"github.com/fastygo/flow/internal/store"
	"github.com/fastygo/flow/repository"
	"github.com/fastygo/flow/usecase"
	taskUC "github.com/fastygo/flow/usecase/task"
)

// session is one open slot with a loaded store. Every change is written
// synchronously; close flushes and releases the slot.
type session struct {
	slot       repository.Slot
	writer     *persistence.Writer
	detach     func()
	store      *store.Store
	tasks      *taskUC.UseCase
	dispatcher *usecase.Dispatcher
	clock      clock.Clock
	loc        *time.Location
	logger     *zap.Logger
}

func (a *app) open(ctx context.Context) (*session, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	log := a.logger()

	slot, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	adapter := persistence.NewAdapter(slot, log)
	initial, err := adapter.Load(ctx)
	if err != nil {
		slot.Close()
		return nil, err
	}

	wallClock := clock.NewReal(log)
	s := store.New(initial, store.WithClock(wallClock), store.WithLogger(log))
	writer := persistence.NewWriter(adapter, wallClock, log, persistence.WriterConfig{Timeout: cfg.Persist.Timeout})

	uc := taskUC.New(s, loc, log)
	d := usecase.NewDispatcher()
	taskUC.Register(d, uc)

	return &session{
		slot:       slot,
		writer:     writer,
		detach:     writer.Attach(s),
		store:      s,
		tasks:      uc,
		dispatcher: d,
		clock:      wallClock,
		loc:        loc,
		logger:     log,
	}, nil
}

func (s *session) close(ctx context.Context) error {
	s.detach()
	err := s.writer.Close(ctx)
	if stats := s.writer.Stats(); stats.LastError != "" {
		err = errors.Join(err, fmt.Errorf("save failed: %s", stats.LastError))
	}
	return errors.Join(err, s.slot.Close())
}

// run dispatches one command with payload encoded as JSON.
func (s *session) run(ctx context.Context, name string, payload any) (taskUC.Result, error) {
	body, err := sonic.ConfigStd.Marshal(payload)
	if err != nil {
		return taskUC.Result{}, err
	}
	out, err := s.dispatcher.ExecuteCommand(ctx, name, body)
	if err != nil {
		return taskUC.Result{}, err
	}
	res, _ := out.(taskUC.Result)
	return res, nil
}

// resolve maps an id, or a unique prefix or suffix of one, to a task id.
func (s *session) resolve(ref string) (string, error) {
	return matchID(ref, s.store.Tasks(), func(t domain.Task) string { return t.ID })
}

// resolveSubtask resolves ref among the subtasks of parentID.
func (s *session) resolveSubtask(parentID, ref string) (string, error) {
	parent, ok := s.store.Get(parentID)
	if !ok {
		return "", domain.ErrTaskNotFound
	}
	return matchID(ref, parent.Subtasks, func(st domain.Subtask) string { return st.ID })
}

func matchID[T any](ref string, items []T, id func(T) string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", domain.NewError(domain.ErrCodeInvalid, "empty id")
	}
	var found []string
	for _, item := range items {
		candidate := id(item)
		if candidate == ref {
			return candidate, nil
		}
		if strings.HasPrefix(candidate, ref) || strings.HasSuffix(candidate, ref) {
			found = append(found, candidate)
		}
	}
	switch len(found) {
	case 0:
		return "", domain.WrapError(domain.ErrCodeNotFound, fmt.Sprintf("no id matches %q", ref), domain.ErrTaskNotFound)
	case 1:
		return found[0], nil
	default:
		return "", domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("id %q is ambiguous (%d matches)", ref, len(found)))
	}
}

// withSession opens a session for the duration of fn.
func (a *app) withSession(ctx context.Context, fn func(s *session) error) (err error) {
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, s.close(closeCtx))
	}()
	return fn(s)
}
