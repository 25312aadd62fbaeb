package editor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/smart-trainer/powertable-app/internal/go_func_utils"
)

// BaseEditorView contains the base logic shared by all UI implementations
type BaseEditorView struct {
	viewImpl   EditorViewImpl
	model      *EditorModel
	controller *EditorController
	context    context.Context
	cancelFunc context.CancelFunc
	waitGroup  sync.WaitGroup
	logger     *log.Logger
}

// NewBaseEditorViewArg holds the arguments for creating a new BaseEditorView
type NewBaseEditorViewArg struct {
	ViewImpl   EditorViewImpl
	Model      *EditorModel
	Controller *EditorController
	Logger     *log.Logger
}

// NewBaseEditorView creates a new BaseEditorView with the given implementation
func NewBaseEditorView(args NewBaseEditorViewArg) *BaseEditorView {
	if args.Logger == nil {
		panic("BaseEditorView: logger cannot be nil")
	}
	if args.ViewImpl == nil {
		panic("BaseEditorView: ViewImpl cannot be nil")
	}
	if args.Model == nil {
		panic("BaseEditorView: Model cannot be nil")
	}
	if args.Controller == nil {
		panic("BaseEditorView: Controller cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseEditorView{
		viewImpl:   args.ViewImpl,
		model:      args.Model,
		controller: args.Controller,
		context:    ctx,
		cancelFunc: cancel,
		logger:     args.Logger,
	}

	args.ViewImpl.Initialize(args.Controller)
	args.ViewImpl.SetupKeyboardHandlers(args.Controller)
	args.ViewImpl.SetMode(args.Model.GetUIState().Mode)

	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseEditorView.monitorLogResize", func() { base.monitorLogResize() })
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

// listen drains ch until the view shuts down, applying each value to the
// view and redrawing. Sends to a full channel are dropped, so when current is
// set a wake-up applies current() rather than the received, possibly stale,
// value. Publishers update what current reads before they notify.
func listen[T any](base *BaseEditorView, name string, register func(chan<- T) func(), current func() T, apply func(T)) {
	ch := make(chan T, 1)
	unregister := register(ch)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, name, func() {
		defer base.waitGroup.Done()
		defer unregister()
		for {
			select {
			case <-base.context.Done():
				return
			case value, ok := <-ch:
				if !ok {
					return
				}
				if current != nil {
					value = current()
				}
				apply(value)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseEditorView: Error drawing: %v", err)
				}
			}
		}
	})
}

func (base *BaseEditorView) setupEventListeners() {
	listen(base, "BaseEditorView.log", base.model.ListenToLog, nil, func(string) {
		// a new line arrived, show the tail
		base.updateLogDisplay()
	})
	listen(base, "BaseEditorView.state", base.model.ListenToState, base.model.GetState, base.viewImpl.UpdateState)
	listen(base, "BaseEditorView.session", base.model.ListenToSession, base.model.GetSession, base.viewImpl.UpdateSession)
	listen(base, "BaseEditorView.status", base.model.ListenToStatus, base.model.GetStatus, base.viewImpl.UpdateStatus)
	listen(base, "BaseEditorView.uiState", base.model.ListenToUIState, base.model.GetUIState, func(state UIState) {
		base.viewImpl.SetMode(state.Mode)
	})

	// Confirmations are not replayed and must not be dropped while one is
	// showing, so this channel is larger
	confirmChan := make(chan ConfirmRequest, 4)
	confirmUnregister := base.model.ListenToConfirm(confirmChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseEditorView.confirm", func() {
		defer base.waitGroup.Done()
		defer confirmUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case req, ok := <-confirmChan:
				if !ok {
					return
				}
				base.viewImpl.ShowConfirm(req)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseEditorView: Error drawing: %v", err)
				}
			}
		}
	})

	closeChan := make(chan struct{}, 1)
	closeUnregister := base.model.ListenToCloseApplication(closeChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseEditorView.close", func() {
		defer base.waitGroup.Done()
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			base.viewImpl.Stop()
		}
	})
}

func (base *BaseEditorView) updateLogDisplay() {
	height := base.viewImpl.GetLogViewHeight()
	if height <= 0 {
		return
	}

	logLines := base.model.GetLogTail(height)

	base.viewImpl.ClearLogView()
	for _, line := range logLines {
		if err := base.viewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseEditorView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseEditorView) monitorLogResize() {
	defer base.waitGroup.Done()
	var lastHeight int
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			height := base.viewImpl.GetLogViewHeight()
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.updateLogDisplay()
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseEditorView: Error drawing: %v", err)
				}
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish
func (base *BaseEditorView) Shutdown() {
	base.logger.Println("BaseEditorView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseEditorView: Shutdown complete")
}

// Run starts the UI and blocks until it exits
func (base *BaseEditorView) Run() error {
	return base.viewImpl.Run()
}
