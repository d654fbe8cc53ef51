package forwarder

import (
	"fmt"
	"net"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
)

// ForwardStatus reports the reachability of one configured forward.
type ForwardStatus struct {
	Spec      v1alpha1.ForwardSpec
	Reachable bool
}

// Probe dials each forward's local port to check whether something is
// listening. A forward held by a detached supervisor process shows up here
// the same way an in-process one does; a configured local port of 0 is
// reported unreachable because the bound port is not knowable from the
// configuration alone.
func Probe(specs []v1alpha1.ForwardSpec, timeout time.Duration) []ForwardStatus {
	statuses := make([]ForwardStatus, 0, len(specs))

	for _, spec := range specs {
		statuses = append(statuses, ForwardStatus{
			Spec:      spec,
			Reachable: listening(spec.LocalPort, timeout),
		})
	}

	return statuses
}

func listening(port int32, timeout time.Duration) bool {
	if port <= 0 {
		return false
	}

	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), timeout)
	if err != nil {
		return false
	}

	_ = conn.Close()

	return true
}
