package reminder

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// Permission mirrors the platform notification permission states.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notification is a platform notification request.
type Notification struct {
	Title string
	Body  string
}

// Notifier delivers best-effort platform notifications. Delivery is only
// attempted while Permission reports granted.
type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) Permission
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log. It is always granted.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Permission() Permission { return PermissionGranted }

func (n *LogNotifier) RequestPermission(context.Context) Permission { return PermissionGranted }

func (n *LogNotifier) Notify(_ context.Context, msg Notification) error {
	n.logger.Info("reminder notification", zap.String("title", msg.Title), zap.String("body", msg.Body))
	return nil
}

// DeniedNotifier models a platform where notifications are refused.
type DeniedNotifier struct{}

func (DeniedNotifier) Permission() Permission { return PermissionDenied }

func (DeniedNotifier) RequestPermission(context.Context) Permission { return PermissionDenied }

func (DeniedNotifier) Notify(context.Context, Notification) error {
	return fmt.Errorf("notifications denied")
}

// ExecNotifier runs a desktop notification command as `<command> <title> <body>`,
// e.g. notify-send. Permission is granted once the command resolves on PATH.
type ExecNotifier struct {
	command  string
	lookPath func(string) (string, error)

	mu         sync.Mutex
	path       string
	permission Permission
}

func NewExecNotifier(command string) *ExecNotifier {
	return &ExecNotifier{
		command:    command,
		lookPath:   exec.LookPath,
		permission: PermissionDefault,
	}
}

func (n *ExecNotifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

func (n *ExecNotifier) RequestPermission(context.Context) Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission != PermissionDefault {
		return n.permission
	}
	path, err := n.lookPath(n.command)
	if err != nil || n.command == "" {
		n.permission = PermissionDenied
		return n.permission
	}
	n.path = path
	n.permission = PermissionGranted
	return n.permission
}

func (n *ExecNotifier) Notify(ctx context.Context, msg Notification) error {
	n.mu.Lock()
	path, perm := n.path, n.permission
	n.mu.Unlock()
	if perm != PermissionGranted {
		return fmt.Errorf("notification permission %s", perm)
	}
	return exec.CommandContext(ctx, path, msg.Title, msg.Body).Run()
}
