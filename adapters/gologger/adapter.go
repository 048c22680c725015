package gologger

import (
	"strings"

	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

// Root is the logger name every gateway component logs under.
const Root = "lifegateway"

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(Name(name), provider, logger)
}

// Name qualifies component under Root. Already qualified names are kept.
func Name(component string) string {
	component = strings.Trim(strings.TrimSpace(component), ".")
	if component == "" || component == Root {
		return Root
	}
	if strings.HasPrefix(component, Root+".") {
		return component
	}
	return Root + "." + component
}

// Component returns the logger for a named gateway component.
func Component(provider glog.LoggerProvider, component string) glog.Logger {
	if provider == nil {
		return glog.Nop()
	}
	return provider.GetLogger(Name(component))
}

// ResolveForJob resolves the glog pair and returns the matching go-job
// bridges for the outbound worker.
func ResolveForJob(
	name string,
	provider glog.LoggerProvider,
	logger glog.Logger,
) (glog.LoggerProvider, glog.Logger, job.LoggerProvider, job.Logger) {
	resolvedProvider, resolvedLogger := Resolve(name, provider, logger)
	return resolvedProvider, resolvedLogger, job.GoLoggerProvider(resolvedProvider), job.GoLogger(resolvedLogger)
}
