// Package svc provides service layer components for mdpctl.
//
// This package contains the business logic layer that coordinates between
// the CLI commands and the cluster clients.
//
// Subpackages:
//   - credentials: Opaque Secrets built from dotenv files
//   - deployer: staged deployment with readiness waits and operator gates
//   - diagnostics: describe output, pod failures and logs for failed stages
//   - pipeline: the medallion Spark jobs, Trino validation and timing summary
//   - prereq: login, CRD and manifest checks run before anything is applied
//   - rollback: reverse-order teardown of a deployed stack
//   - smoke: the throwaway SparkApplication run after the stack is up
package svc
