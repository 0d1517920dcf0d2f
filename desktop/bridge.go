package desktop

import (
	"context"
	"fmt"
	"path/filepath"

	apperrors "github.com/leeforge/genico/errors"
	"github.com/leeforge/genico/logging"
	"github.com/leeforge/genico/media/processor"
	"github.com/leeforge/genico/media/storage"
	"go.uber.org/zap"
)

// Dialogs opens native file pickers. Implementations return Cancelled when
// the user dismisses the dialog.
type Dialogs interface {
	OpenFile(ctx context.Context, filter FileFilter) (SelectResult, error)
	SaveFile(ctx context.Context, defaultName string, filter FileFilter) (SelectResult, error)
}

// Bridge serves the request/response channels and publishes push events.
type Bridge struct {
	converter *processor.Converter
	dialogs   Dialogs
	files     storage.Provider
	window    *WindowState
	bus       *EventBus
	logger    logging.Logger
}

type BridgeOption func(*Bridge)

func WithBridgeLogger(logger logging.Logger) BridgeOption {
	return func(b *Bridge) { b.logger = logger }
}

// WithFiles replaces the local filesystem provider.
func WithFiles(files storage.Provider) BridgeOption {
	return func(b *Bridge) { b.files = files }
}

func NewBridge(converter *processor.Converter, dialogs Dialogs, window *WindowState, bus *EventBus, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		converter: converter,
		dialogs:   dialogs,
		files:     storage.NewLocalProvider(""),
		window:    window,
		bus:       bus,
		logger:    logging.Nop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Window returns the shared window state.
func (b *Bridge) Window() *WindowState {
	return b.window
}

// Events returns the bus push events are published on.
func (b *Bridge) Events() *EventBus {
	return b.bus
}

// SelectFile opens the PNG picker. Without a window it reports Cancelled.
func (b *Bridge) SelectFile(ctx context.Context) (SelectResult, error) {
	if _, ok := b.window.Current(); !ok {
		return Cancelled{}, nil
	}
	res, err := b.dialogs.OpenFile(ctx, PNGFilter)
	if err != nil {
		return Cancelled{}, apperrors.NewIO("select", err)
	}
	b.logger.Debug("select-file", zap.Any("result", res))
	return res, nil
}

// OpenFromMenu runs the picker and announces the selection as a
// file-selected event instead of returning it.
func (b *Bridge) OpenFromMenu(ctx context.Context) error {
	res, err := b.SelectFile(ctx)
	if err != nil {
		return err
	}
	path, ok := Path(res)
	if !ok {
		return nil
	}
	return b.bus.Publish(ctx, Event{Name: EventFileSelected, Payload: path})
}

// ConvertToICO reads path and converts it, failing on the first rule the
// image breaks.
func (b *Bridge) ConvertToICO(ctx context.Context, path string) ([]byte, error) {
	logger := b.logger.With(zap.String("path", path))

	data, err := b.files.Read(ctx, path)
	if err != nil {
		logger.Warn("convert-to-ico read failed", zap.Error(err))
		return nil, apperrors.NewIO("read", err)
	}

	res, err := b.converter.ConvertStrict(ctx, processor.ConversionRequest{
		Data:     data,
		Filename: filepath.Base(path),
	})
	if err != nil {
		logger.Warn("convert-to-ico failed", zap.Error(err))
		return nil, err
	}
	logger.Info("convert-to-ico done", zap.Int("bytes", len(res.Data)), zap.Bool("cached", res.Cached))
	return res.Data, nil
}

// SaveFile opens the save picker prefilled with defaultName.
func (b *Bridge) SaveFile(ctx context.Context, defaultName string) (SelectResult, error) {
	if _, ok := b.window.Current(); !ok {
		return Cancelled{}, nil
	}
	res, err := b.dialogs.SaveFile(ctx, defaultName, ICOFilter)
	if err != nil {
		return Cancelled{}, apperrors.NewIO("save", err)
	}
	return res, nil
}

// WriteFile stores data at path. It reports true on success; failures
// come back as an IO error.
func (b *Bridge) WriteFile(ctx context.Context, path string, data []byte) (bool, error) {
	if err := b.files.Write(ctx, path, data); err != nil {
		b.logger.Warn("write-file failed", zap.String("path", path), zap.Error(err))
		return false, apperrors.NewIO("write", err)
	}
	b.logger.Info("write-file done", zap.String("path", path), zap.Int("bytes", len(data)))
	return true, nil
}

// Invoke dispatches a channel by name with loosely typed arguments, the
// way a UI process calls into the privileged side. A panicking handler
// rejects the call instead of taking the process down.
func (b *Bridge) Invoke(ctx context.Context, channel Channel, args ...any) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.ErrorRecover(rec)
			b.logger.Error("ipc handler panicked", zap.String("channel", string(channel)), zap.Error(err))
		}
	}()
	return b.dispatch(ctx, channel, args)
}

func (b *Bridge) dispatch(ctx context.Context, channel Channel, args []any) (any, error) {
	switch channel {
	case ChannelSelectFile:
		return b.SelectFile(ctx)
	case ChannelConvertToICO:
		path, err := argAt[string](channel, args, 0)
		if err != nil {
			return nil, err
		}
		return b.ConvertToICO(ctx, path)
	case ChannelSaveFile:
		name, err := argAt[string](channel, args, 0)
		if err != nil {
			return nil, err
		}
		return b.SaveFile(ctx, name)
	case ChannelWriteFile:
		path, err := argAt[string](channel, args, 0)
		if err != nil {
			return nil, err
		}
		data, err := argAt[[]byte](channel, args, 1)
		if err != nil {
			return nil, err
		}
		return b.WriteFile(ctx, path, data)
	default:
		return nil, fmt.Errorf("unknown channel %q", channel)
	}
}

func argAt[T any](channel Channel, args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("%s: missing argument %d", channel, i)
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%s: argument %d has type %T, want %T", channel, i, args[i], zero)
	}
	return v, nil
}
