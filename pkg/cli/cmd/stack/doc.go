// Package stack provides the deploy and rollback commands.
package stack
