package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// ActionExecutor produces the synchronous response body for one inbound
// request. Implementations only fail with an ExecutionError.
type ActionExecutor interface {
	Execute(ctx context.Context) (string, error)
}

// ExecutorFactory builds a fresh executor bound to a single request.
type ExecutorFactory func(req InboundRequest, deps ExecutorDeps) (ActionExecutor, error)

type ExecutorDeps struct {
	Client       RemoteClient
	Submitter    TaskSubmitter
	AppID        string
	AppPublicKey string
	Logger       Logger
	Now          func() time.Time
}

func (d ExecutorDeps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// AsyncTask is deferred work captured at submission time. It has no identity
// beyond its position in the queue.
type AsyncTask struct {
	Name string
	Run  func(ctx context.Context) error
}

type TaskSubmitter interface {
	Submit(task AsyncTask) error
}

type RemoteRequest struct {
	Method     string
	BizContent string
	NotifyURL  string
	TextParams map[string]string
}

type RemoteResponse struct {
	Code    string
	Msg     string
	SubCode string
	SubMsg  string
	Body    string
}

func (r RemoteResponse) IsSuccess() bool {
	return r.SubCode == "" && r.Code == RemoteCodeSuccess
}

const RemoteCodeSuccess = "10000"

// RemoteClient is the platform open API collaborator. Implementations must be
// safe for concurrent use.
type RemoteClient interface {
	Execute(ctx context.Context, req RemoteRequest) (RemoteResponse, error)
	ExecuteAuthenticated(ctx context.Context, req RemoteRequest, accessToken string) (RemoteResponse, error)
}
