package k8s

import "errors"

// ErrNotFound is returned (wrapped) by every Client when the requested object does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrNotLoggedIn is returned by WhoAmI when the CLI or kubeconfig has no valid session.
var ErrNotLoggedIn = errors.New("not logged in to the cluster")

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
