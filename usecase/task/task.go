// Package task binds the task store to named commands and queries.
package task

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/store"
	"github.com/fastygo/flow/internal/timefmt"
	"github.com/fastygo/flow/internal/view"
	"github.com/fastygo/flow/usecase"
)

// Command names accepted by the dispatcher.
const (
	CmdAdd             = "add"
	CmdToggleCompleted = "toggleCompleted"
	CmdToggleFavorite  = "toggleFavorite"
	CmdUpdateText      = "updateText"
	CmdDelete          = "delete"
	CmdClearCompleted  = "clearCompleted"
	CmdReorder         = "reorder"
	CmdSetReminder     = "setReminder"
	CmdClearReminder   = "clearReminder"
	CmdAddSubtask      = "addSubtask"
	CmdUpdateSubtask   = "updateSubtask"
	CmdToggleSubtask   = "toggleSubtask"
	CmdDeleteSubtask   = "deleteSubtask"

	QueryList = "list"
	QueryGet  = "get"
)

type UseCase struct {
	store  *store.Store
	loc    *time.Location
	logger *zap.Logger
}

func New(s *store.Store, loc *time.Location, logger *zap.Logger) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{store: s, loc: loc, logger: logger}
}

// Register binds every task command and query to d.
func Register(d *usecase.Dispatcher, uc *UseCase) {
	d.RegisterCommand(CmdAdd, command(uc, func(p TextPayload) Result {
		created, ok := uc.store.Add(p.Text)
		res := Result{Changed: ok}
		if ok {
			res.Task = &created
		}
		return res
	}))
	d.RegisterCommand(CmdToggleCompleted, command(uc, func(p IDPayload) Result {
		return Result{Changed: uc.store.ToggleCompleted(p.ID)}
	}))
	d.RegisterCommand(CmdToggleFavorite, command(uc, func(p IDPayload) Result {
		return Result{Changed: uc.store.ToggleFavorite(p.ID)}
	}))
	d.RegisterCommand(CmdUpdateText, command(uc, func(p TextPayload) Result {
		return Result{Changed: uc.store.UpdateText(p.ID, p.Text)}
	}))
	d.RegisterCommand(CmdDelete, command(uc, func(p IDPayload) Result {
		return Result{Changed: uc.store.Delete(p.ID)}
	}))
	d.RegisterCommand(CmdClearCompleted, command(uc, func(struct{}) Result {
		return Result{Changed: uc.store.ClearCompleted()}
	}))
	d.RegisterCommand(CmdReorder, command(uc, func(p ReorderPayload) Result {
		return Result{Changed: uc.store.Reorder(p.MovedID, p.TargetID)}
	}))
	d.RegisterCommand(CmdSetReminder, command(uc, func(p ReminderPayload) Result {
		return Result{Changed: uc.store.SetReminder(p.ID, p.At)}
	}))
	d.RegisterCommand(CmdClearReminder, command(uc, func(p IDPayload) Result {
		return Result{Changed: uc.store.ClearReminder(p.ID)}
	}))
	d.RegisterCommand(CmdAddSubtask, command(uc, func(p SubtaskPayload) Result {
		sub, ok := uc.store.AddSubtask(p.TaskID, p.Text)
		res := Result{Changed: ok}
		if ok {
			res.Subtask = &sub
		}
		return res
	}))
	d.RegisterCommand(CmdUpdateSubtask, command(uc, func(p SubtaskPayload) Result {
		return Result{Changed: uc.store.UpdateSubtask(p.TaskID, p.SubtaskID, p.Text)}
	}))
	d.RegisterCommand(CmdToggleSubtask, command(uc, func(p SubtaskPayload) Result {
		return Result{Changed: uc.store.ToggleSubtask(p.TaskID, p.SubtaskID)}
	}))
	d.RegisterCommand(CmdDeleteSubtask, command(uc, func(p SubtaskPayload) Result {
		return Result{Changed: uc.store.DeleteSubtask(p.TaskID, p.SubtaskID)}
	}))

	d.RegisterQuery(QueryList, func(ctx context.Context, params []byte) (any, error) {
		var p ListParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		filter, err := view.ParseFilter(p.Filter)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid filter", err)
		}
		return uc.List(filter), nil
	})
	d.RegisterQuery(QueryGet, func(ctx context.Context, params []byte) (any, error) {
		var p IDPayload
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return uc.Get(p.ID)
	})
}

// List returns the display-ordered collection for filter.
func (uc *UseCase) List(filter view.Filter) ListResult {
	snap := uc.store.Snapshot()
	shown := view.Apply(snap.Tasks, filter)
	items := make([]Item, len(shown))
	for i, t := range shown {
		items[i] = uc.item(t)
	}
	return ListResult{
		Version: snap.Version,
		Filter:  filter,
		Tasks:   items,
		Counts:  view.Count(snap.Tasks),
	}
}

// Get returns one task or domain.ErrTaskNotFound.
func (uc *UseCase) Get(id string) (Item, error) {
	t, ok := uc.store.Get(id)
	if !ok {
		return Item{}, domain.ErrTaskNotFound
	}
	return uc.item(t), nil
}

func (uc *UseCase) item(t domain.Task) Item {
	return Item{Task: t, Lifetime: timefmt.FormatLifetime(t, uc.loc)}
}

// command adapts a typed store call to a dispatcher handler. Invalid targets are
// silent no-ops reported as Changed=false; only undecodable JSON is an error.
func command[P any](uc *UseCase, apply func(P) Result) usecase.CommandHandler {
	return func(ctx context.Context, payload []byte) (any, error) {
		var p P
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		res := apply(p)
		snap := uc.store.Snapshot()
		res.Version = snap.Version
		res.Tasks = snap.Tasks
		if !res.Changed {
			uc.logger.Debug("command had no effect", zap.Uint64("version", snap.Version))
		}
		return res, nil
	}
}

func decode(payload []byte, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(payload, v); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}
	return nil
}
