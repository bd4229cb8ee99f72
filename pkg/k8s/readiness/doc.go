// Package readiness waits for cluster resources to become ready.
//
// A [Check] names a resource and the predicate that decides its [State]. [Waiter.Wait]
// probes it at a fixed interval, with the first probe immediate, until the predicate
// reports Ready or Failed or the timeout elapses. Missing resources and transient read
// errors keep the check Pending. [Waiter.Probe] evaluates a check exactly once.
//
// [PollForReadiness] is the underlying generic polling primitive.
package readiness
