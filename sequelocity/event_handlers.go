package sequelocity

import (
	"context"
	"sync"
)

// PreExecuteHandler is invoked right before a command is executed.
// Changes it makes to the command, e.g. its text or parameters, are visible to the execution.
type PreExecuteHandler func(ctx context.Context, command *DatabaseCommand)

// PostExecuteHandler is invoked after a command was executed and its results were mapped.
type PostExecuteHandler func(ctx context.Context, command *DatabaseCommand)

// UnhandledExceptionHandler is invoked with the error of a failed execution before it is returned to the caller.
type UnhandledExceptionHandler func(ctx context.Context, err error, command *DatabaseCommand)

// EventHandlers holds three ordered handler lists that are invoked synchronously in registration order.
// Registration and invocation may happen concurrently.
type EventHandlers struct {
	mu                 sync.RWMutex
	preExecute         []PreExecuteHandler
	postExecute        []PostExecuteHandler
	unhandledException []UnhandledExceptionHandler
}

// NewEventHandlers creates empty handler lists.
func NewEventHandlers() *EventHandlers {
	return &EventHandlers{}
}

// AddPreExecute registers a handler that runs before every execution.
func (h *EventHandlers) AddPreExecute(handler PreExecuteHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.preExecute = append(h.preExecute, handler)
}

// AddPostExecute registers a handler that runs after every successful execution.
func (h *EventHandlers) AddPostExecute(handler PostExecuteHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.postExecute = append(h.postExecute, handler)
}

// AddUnhandledException registers a handler that observes every failed execution.
// Handlers can not suppress the error.
func (h *EventHandlers) AddUnhandledException(handler UnhandledExceptionHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unhandledException = append(h.unhandledException, handler)
}

// Clear removes all registered handlers.
func (h *EventHandlers) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.preExecute = nil
	h.postExecute = nil
	h.unhandledException = nil
}

// Count returns the number of registered pre-execute, post-execute, and unhandled-exception handlers.
func (h *EventHandlers) Count() (preExecute, postExecute, unhandledException int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.preExecute), len(h.postExecute), len(h.unhandledException)
}

func (h *EventHandlers) invokePreExecute(ctx context.Context, command *DatabaseCommand) {
	h.mu.RLock()
	handlers := append([]PreExecuteHandler(nil), h.preExecute...)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, command)
	}
}

func (h *EventHandlers) invokePostExecute(ctx context.Context, command *DatabaseCommand) {
	h.mu.RLock()
	handlers := append([]PostExecuteHandler(nil), h.postExecute...)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, command)
	}
}

func (h *EventHandlers) invokeUnhandledException(ctx context.Context, err error, command *DatabaseCommand) {
	h.mu.RLock()
	handlers := append([]UnhandledExceptionHandler(nil), h.unhandledException...)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, err, command)
	}
}
