package runplan

import (
	"strings"

	"github.com/kwoodhouse93/runplan-sync/activity"
)

const remoteTypeRunning = "running"

var remoteActivityTypes = map[string]activity.Type{
	"running":           activity.TypeRunning,
	"run":               activity.TypeRunning,
	"trail_running":     activity.TypeRunning,
	"treadmill_running": activity.TypeRunning,
}

func mapRemoteType(t string) (activity.Type, bool) {
	at, ok := remoteActivityTypes[strings.ToLower(strings.TrimSpace(t))]
	return at, ok
}

func mapToRemoteType(t activity.Type) (string, bool) {
	if t == activity.TypeRunning {
		return remoteTypeRunning, true
	}
	return "", false
}
