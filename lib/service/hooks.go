package service

import (
	"strconv"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

// --------------------------------------------------------------------------
// Hook Interfaces
// --------------------------------------------------------------------------

// ReceivedHook observes every request before it is executed
type ReceivedHook interface {
	OnReceived(req *command.Request)
}

// ExecutedHook observes every response right after execution
type ExecutedHook interface {
	OnExecuted(req *command.Request, resp *command.Response)
}

// BeforeSendHook may modify the response before it is sent. Hooks run in
// registration order and every hook sees the changes of the previous ones.
type BeforeSendHook interface {
	OnBeforeSend(resp *command.Response)
}

// AfterSendHook is notified after the response was sent
type AfterSendHook interface {
	OnAfterSend()
}

// --------------------------------------------------------------------------
// Function Adapters
// --------------------------------------------------------------------------

// ReceivedFunc adapts a function to a ReceivedHook
type ReceivedFunc func(req *command.Request)

func (f ReceivedFunc) OnReceived(req *command.Request) { f(req) }

// ExecutedFunc adapts a function to an ExecutedHook
type ExecutedFunc func(req *command.Request, resp *command.Response)

func (f ExecutedFunc) OnExecuted(req *command.Request, resp *command.Response) { f(req, resp) }

// BeforeSendFunc adapts a function to a BeforeSendHook
type BeforeSendFunc func(resp *command.Response)

func (f BeforeSendFunc) OnBeforeSend(resp *command.Response) { f(resp) }

// AfterSendFunc adapts a function to an AfterSendHook
type AfterSendFunc func()

func (f AfterSendFunc) OnAfterSend() { f() }

// --------------------------------------------------------------------------
// Built-in Hooks
// --------------------------------------------------------------------------

// LogHook writes every request and the status of its response to a logger
// at debug level.
type LogHook struct {
	log logger.ILogger
}

// NewLogHook creates a new LogHook, it can be registered as received and as executed hook
func NewLogHook(log logger.ILogger) *LogHook {
	return &LogHook{log: log}
}

func (h *LogHook) OnReceived(req *command.Request) {
	h.log.Debugf("received %s", req)
}

func (h *LogHook) OnExecuted(req *command.Request, resp *command.Response) {
	if resp.Status >= command.StatusInternalServerError {
		h.log.Warningf("%s failed with status %d: %s", req.Name(), resp.Status, resp.Message)
		return
	}
	h.log.Debugf("executed %s: status %d", req.Name(), resp.Status)
}

// MetricsHook counts requests per command, responses per status and sent
// responses in a VictoriaMetrics set.
type MetricsHook struct {
	set  *metrics.Set
	sent *metrics.Counter
}

// NewMetricsHook creates a new MetricsHook writing to set
func NewMetricsHook(set *metrics.Set) *MetricsHook {
	return &MetricsHook{
		set:  set,
		sent: set.GetOrCreateCounter("hkv_responses_sent_total"),
	}
}

func (h *MetricsHook) OnReceived(req *command.Request) {
	h.set.GetOrCreateCounter(`hkv_requests_total{command="` + req.Name() + `"}`).Inc()
}

func (h *MetricsHook) OnExecuted(_ *command.Request, resp *command.Response) {
	h.set.GetOrCreateCounter(`hkv_responses_total{status="` + strconv.FormatUint(uint64(resp.Status), 10) + `"}`).Inc()
}

func (h *MetricsHook) OnAfterSend() {
	h.sent.Inc()
}
