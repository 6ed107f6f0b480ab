package service

import (
	"slices"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/store"
)

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// Builder collects the hooks of a Service. Hooks run in registration order.
type Builder struct {
	storage    store.Storage
	received   []ReceivedHook
	executed   []ExecutedHook
	beforeSend []BeforeSendHook
	afterSend  []AfterSendHook
}

// New starts building a Service that executes commands against storage
func New(storage store.Storage) *Builder {
	return &Builder{storage: storage}
}

// OnReceived registers hooks that run before a request is dispatched
func (b *Builder) OnReceived(hooks ...ReceivedHook) *Builder {
	b.received = append(b.received, hooks...)
	return b
}

// OnExecuted registers hooks that receive the request and its response after dispatch
func (b *Builder) OnExecuted(hooks ...ExecutedHook) *Builder {
	b.executed = append(b.executed, hooks...)
	return b
}

// OnBeforeSend registers hooks that may modify the response, in registration order
func (b *Builder) OnBeforeSend(hooks ...BeforeSendHook) *Builder {
	b.beforeSend = append(b.beforeSend, hooks...)
	return b
}

// OnAfterSend registers hooks that run after the response was sent
func (b *Builder) OnAfterSend(hooks ...AfterSendHook) *Builder {
	b.afterSend = append(b.afterSend, hooks...)
	return b
}

// Build creates the Service. Registering more hooks on the builder afterward
// does not change services that were already built.
func (b *Builder) Build() *Service {
	return &Service{
		storage:    b.storage,
		received:   slices.Clone(b.received),
		executed:   slices.Clone(b.executed),
		beforeSend: slices.Clone(b.beforeSend),
		afterSend:  slices.Clone(b.afterSend),
	}
}

// --------------------------------------------------------------------------
// Service
// --------------------------------------------------------------------------

// Service is the front end of a storage. It is immutable after Build and can
// be shared by any number of goroutines, copies of the pointer share the same
// storage and hooks.
type Service struct {
	storage    store.Storage
	received   []ReceivedHook
	executed   []ExecutedHook
	beforeSend []BeforeSendHook
	afterSend  []AfterSendHook
}

// Storage returns the storage the service executes commands against
func (s *Service) Storage() store.Storage {
	return s.storage
}

// Execute runs the full pipeline for a request and returns the final
// response: received hooks, dispatch, executed hooks, before-send hooks and
// after-send hooks.
func (s *Service) Execute(req *command.Request) *command.Response {
	resp := s.execute(req)
	s.notifyAfterSend()
	return resp
}

// Handle runs the pipeline like Execute but hands the response to send. The
// after-send hooks only run if send succeeded, a send error is returned as is.
func (s *Service) Handle(req *command.Request, send func(*command.Response) error) error {
	resp := s.execute(req)
	if err := send(resp); err != nil {
		return err
	}
	s.notifyAfterSend()
	return nil
}

// execute runs every step up to (and including) the before-send hooks
func (s *Service) execute(req *command.Request) *command.Response {
	for _, h := range s.received {
		h.OnReceived(req)
	}

	resp := command.Dispatch(req, s.storage)

	for _, h := range s.executed {
		h.OnExecuted(req, resp)
	}
	for _, h := range s.beforeSend {
		h.OnBeforeSend(resp)
	}
	return resp
}

func (s *Service) notifyAfterSend() {
	for _, h := range s.afterSend {
		h.OnAfterSend()
	}
}
